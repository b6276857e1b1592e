package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func seedUniversities(t *testing.T, env *testEnv, names ...string) []models.University {
	t.Helper()
	list := make([]models.University, 0, len(names))
	for _, n := range names {
		list = append(list, models.University{Name: n, Location: "Somewhere", Link: "https://example.edu"})
	}
	n, err := env.universities.Seed(context.Background(), list)
	require.NoError(t, err)
	require.Equal(t, len(names), n)
	return list
}

func TestUpdateProfile_MergesPresentFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")

	_, err := env.users.UpdateProfile(ctx, id, ProfileUpdate{
		Profile: &ProfilePatch{Bio: ptr("Aspiring engineer"), Phone: ptr("+977 9800000000")},
	})
	require.NoError(t, err)

	u, err := env.users.UpdateProfile(ctx, id, ProfileUpdate{
		Preferences: &PreferencesPatch{
			Theme:         ptr(models.ThemeDark),
			Notifications: &NotificationsPatch{Email: ptr(false)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Aspiring engineer", u.Profile.Bio, "earlier patch kept")
	assert.Equal(t, models.DefaultNationality, u.Profile.Nationality)
	assert.Equal(t, models.ThemeDark, u.Preferences.Theme)
	assert.False(t, u.Preferences.Notifications.Email)
	assert.True(t, u.Preferences.Notifications.DocumentReminders, "untouched flag keeps its default")

	stored, _ := env.st.Users.FindByID(ctx, id)
	assert.Equal(t, "Aspiring engineer", stored.Profile.Bio)
	assert.False(t, stored.Preferences.Notifications.Email)

	u, err = env.users.UpdateProfile(ctx, id, ProfileUpdate{Profile: &ProfilePatch{Bio: ptr("")}})
	require.NoError(t, err)
	assert.Empty(t, u.Profile.Bio, "empty string clears the field")
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")

	tests := []struct {
		name string
		upd  ProfileUpdate
		msg  string
	}{
		{"theme", ProfileUpdate{Preferences: &PreferencesPatch{Theme: ptr("neon")}}, "Theme must be light, dark or auto"},
		{"phone", ProfileUpdate{Profile: &ProfilePatch{Phone: ptr("call me")}}, "Please provide a valid phone number"},
		{"education", ProfileUpdate{Profile: &ProfilePatch{CurrentEducation: &EducationPatch{Level: ptr("kindergarten")}}}, "Education level must be one of high_school, bachelor, master, phd"},
		{"name", ProfileUpdate{Name: ptr("A")}, "Name must be between 2 and 50 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.UpdateProfile(ctx, id, tt.upd)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.msg, apperr.Message(err, ""))
		})
	}

	stored, _ := env.st.Users.FindByID(ctx, id)
	assert.Equal(t, models.ThemeAuto, stored.Preferences.Theme, "rejected updates are not stored")
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.verifiedUser(t, "taken@example.com")
	id := env.verifiedUser(t, "asha@example.com")

	_, err := env.users.UpdateProfile(ctx, id, ProfileUpdate{Email: ptr("Taken@Example.com")})
	require.ErrorIs(t, err, apperr.ErrConflict)

	u, err := env.users.UpdateProfile(ctx, id, ProfileUpdate{Email: ptr("asha@example.com")})
	require.NoError(t, err, "keeping the same address is not a conflict")
	assert.Equal(t, "asha@example.com", u.Email)
}

func TestChangePassword(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")

	err := env.users.ChangePassword(ctx, id, "", "newsecret")
	require.ErrorIs(t, err, apperr.ErrValidation)

	err = env.users.ChangePassword(ctx, id, "secret123", "123")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Password must be at least 6 characters", apperr.Message(err, ""))

	err = env.users.ChangePassword(ctx, id, "secret123", strings.Repeat("a", 73))
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Password cannot exceed 72 bytes", apperr.Message(err, ""))

	err = env.users.ChangePassword(ctx, id, "wrong-one", "newsecret")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Current password is incorrect", apperr.Message(err, ""))

	require.NoError(t, env.users.ChangePassword(ctx, id, "secret123", "newsecret"))

	_, err = env.users.Login(ctx, "asha@example.com", "secret123")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	res, err := env.users.Login(ctx, "asha@example.com", "newsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestShortlist(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	unis := seedUniversities(t, env, "MIT", "Stanford University")

	_, err := env.users.AddToShortlist(ctx, id, unis[1].ID.Hex())
	require.NoError(t, err)
	_, err = env.users.AddToShortlist(ctx, id, unis[0].ID.Hex())
	require.NoError(t, err)

	_, err = env.users.AddToShortlist(ctx, id, unis[0].ID.Hex())
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "University already in shortlist", apperr.Message(err, ""))

	_, err = env.users.AddToShortlist(ctx, id, bson.NewObjectID().Hex())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = env.users.AddToShortlist(ctx, id, "not-an-id")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := env.users.Shortlist(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, env.users.RemoveFromShortlist(ctx, id, unis[0].ID.Hex()))
	require.NoError(t, env.users.RemoveFromShortlist(ctx, id, unis[0].ID.Hex()), "removing twice is fine")

	list, err = env.users.Shortlist(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Stanford University", list[0].Name)
}

func TestProfile_ResolvesReferences(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	unis := seedUniversities(t, env, "MIT")
	_, err := env.users.AddToShortlist(ctx, id, unis[0].ID.Hex())
	require.NoError(t, err)

	c, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)
	_, err = env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "draft", CollectionID: c.ID.Hex()})
	require.NoError(t, err)
	_, err = env.documents.Create(ctx, id, DocumentInput{Title: "Transcript"})
	require.NoError(t, err)

	view, err := env.users.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", view.Email)
	require.Len(t, view.ShortlistedUniversities, 1)
	assert.Equal(t, "MIT", view.ShortlistedUniversities[0].Name)
	assert.Len(t, view.Collections, 1)
	assert.Len(t, view.Notes, 1)
	assert.Len(t, view.Documents, 1)

	stored, _ := env.st.Users.FindByID(ctx, id)
	assert.Len(t, stored.Collections, 1)
	assert.Len(t, stored.Notes, 1)
	assert.Len(t, stored.Documents, 1)
}

func TestDeleteAccount_RemovesOwnedData(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	other := env.verifiedUser(t, "other@example.com")

	for _, owner := range []bson.ObjectID{id, other} {
		c, err := env.collections.Create(ctx, owner, CollectionInput{Name: "Essays"})
		require.NoError(t, err)
		_, err = env.notes.Create(ctx, owner, NoteInput{Title: "SOP", Content: "draft", CollectionID: c.ID.Hex()})
		require.NoError(t, err)
		_, err = env.documents.Create(ctx, owner, DocumentInput{Title: "Transcript"})
		require.NoError(t, err)
	}

	require.NoError(t, env.users.DeleteAccount(ctx, id))

	u, err := env.st.Users.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)

	n, _ := env.st.Collections.Count(ctx, models.CollectionFilter{User: id})
	assert.Zero(t, n)
	n, _ = env.st.Notes.Count(ctx, models.NoteFilter{User: id})
	assert.Zero(t, n)
	n, _ = env.st.Documents.Count(ctx, models.DocumentFilter{User: id})
	assert.Zero(t, n)

	n, _ = env.st.Notes.Count(ctx, models.NoteFilter{User: other})
	assert.EqualValues(t, 1, n, "other users keep their data")

	err = env.users.DeleteAccount(ctx, id)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
