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

func noteCount(t *testing.T, env *testEnv, user bson.ObjectID, c *models.Collection) int {
	t.Helper()
	got, err := env.st.Collections.FindOwned(context.Background(), c.ID, user)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got.NotesCount
}

func TestNoteCreate(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	c, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)

	n, err := env.notes.Create(ctx, id, NoteInput{
		Title:        " SOP ",
		Content:      "first draft",
		CollectionID: c.ID.Hex(),
		Tags:         []string{" mit ", "", "mit", "draft"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SOP", n.Title)
	assert.Equal(t, []string{"mit", "draft"}, n.Tags)
	assert.Equal(t, models.DefaultColor, n.Color)
	assert.NotNil(t, n.Attachments)
	assert.Equal(t, 1, noteCount(t, env, id, c))

	_, err = env.notes.Create(ctx, id, NoteInput{Title: "SOP", CollectionID: c.ID.Hex()})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Please provide title, content and collection", apperr.Message(err, ""))

	_, err = env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "x", CollectionID: c.ID.Hex(), Tags: []string{strings.Repeat("t", 21)}})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Tag cannot exceed 20 characters", apperr.Message(err, ""))

	_, err = env.notes.Create(ctx, id, NoteInput{Title: strings.Repeat("t", 101), Content: "x", CollectionID: c.ID.Hex()})
	require.ErrorIs(t, err, apperr.ErrValidation)

	assert.Equal(t, 1, noteCount(t, env, id, c), "rejected notes are not counted")
}

func TestNoteCreate_ForeignCollection(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	other := env.verifiedUser(t, "other@example.com")
	theirs, err := env.collections.Create(ctx, other, CollectionInput{Name: "Private"})
	require.NoError(t, err)

	_, err = env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "x", CollectionID: theirs.ID.Hex()})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Collection not found", apperr.Message(err, ""))
	assert.Zero(t, noteCount(t, env, other, theirs))
}

func TestNoteUpdate_MoveBetweenCollections(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	from, err := env.collections.Create(ctx, id, CollectionInput{Name: "Inbox"})
	require.NoError(t, err)
	to, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)
	n, err := env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "x", CollectionID: from.ID.Hex()})
	require.NoError(t, err)

	_, err = env.notes.Update(ctx, id, n.ID.Hex(), NoteUpdate{CollectionID: ptr(bson.NewObjectID().Hex())})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Target collection not found", apperr.Message(err, ""))

	moved, err := env.notes.Update(ctx, id, n.ID.Hex(), NoteUpdate{CollectionID: ptr(to.ID.Hex()), IsPinned: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, to.ID, moved.ParentCollection)
	assert.True(t, moved.IsPinned)
	assert.Equal(t, "SOP", moved.Title)
	assert.Zero(t, noteCount(t, env, id, from))
	assert.Equal(t, 1, noteCount(t, env, id, to))

	_, err = env.notes.Update(ctx, id, n.ID.Hex(), NoteUpdate{CollectionID: ptr(to.ID.Hex()), Title: ptr("SOP v2")})
	require.NoError(t, err)
	assert.Equal(t, 1, noteCount(t, env, id, to), "same collection is not a move")

	kept, err := env.notes.Update(ctx, id, n.ID.Hex(), NoteUpdate{CollectionID: ptr(""), Title: ptr("SOP v3")})
	require.NoError(t, err)
	assert.Equal(t, to.ID, kept.ParentCollection)
	assert.Equal(t, "SOP v3", kept.Title)
	assert.Equal(t, 1, noteCount(t, env, id, to), "empty collectionId is not a move")
}

func TestNoteDelete(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	intruder := env.verifiedUser(t, "intruder@example.com")
	c, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)
	n, err := env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "x", CollectionID: c.ID.Hex()})
	require.NoError(t, err)

	err = env.notes.Delete(ctx, intruder, n.ID.Hex())
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = env.notes.Get(ctx, intruder, n.ID.Hex())
	require.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, env.notes.Delete(ctx, id, n.ID.Hex()))
	assert.Zero(t, noteCount(t, env, id, c))
	_, err = env.notes.Get(ctx, id, n.ID.Hex())
	require.ErrorIs(t, err, apperr.ErrNotFound)

	u, _ := env.st.Users.FindByID(ctx, id)
	assert.Empty(t, u.Notes)
}

func TestNoteList_PinnedFirst(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	essays, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)
	tests, err := env.collections.Create(ctx, id, CollectionInput{Name: "Tests"})
	require.NoError(t, err)

	for _, in := range []NoteInput{
		{Title: "pinned", Content: "x", CollectionID: essays.ID.Hex(), IsPinned: true},
		{Title: "older", Content: "x", CollectionID: essays.ID.Hex()},
		{Title: "newer", Content: "x", CollectionID: tests.ID.Hex()},
		{Title: "archived", Content: "x", CollectionID: tests.ID.Hex(), IsArchived: true},
	} {
		_, err := env.notes.Create(ctx, id, in)
		require.NoError(t, err)
	}

	notes, err := env.notes.List(ctx, id, "")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"pinned", "newer", "older"}, []string{notes[0].Title, notes[1].Title, notes[2].Title})

	notes, err = env.notes.List(ctx, id, tests.ID.Hex())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "newer", notes[0].Title)

	_, err = env.notes.List(ctx, id, "bogus")
	require.ErrorIs(t, err, apperr.ErrValidation)

	archived, err := env.notes.Archived(ctx, id)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "archived", archived[0].Title)
}

func TestNoteGet_IncludesCollection(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	c, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)
	n, err := env.notes.Create(ctx, id, NoteInput{Title: "SOP", Content: "x", CollectionID: c.ID.Hex()})
	require.NoError(t, err)

	got, err := env.notes.Get(ctx, id, n.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got.Collection)
	assert.Equal(t, c.ID, got.Collection.ID)
	assert.Equal(t, "Essays", got.Collection.Name)

	list, err := env.notes.List(ctx, id, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Collection)
	assert.Equal(t, "Essays", list[0].Collection.Name)
}

func TestNoteSearch(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.verifiedUser(t, "asha@example.com")
	c, err := env.collections.Create(ctx, id, CollectionInput{Name: "Essays"})
	require.NoError(t, err)

	for _, in := range []NoteInput{
		{Title: "Statement of Purpose", Content: "why CS", CollectionID: c.ID.Hex()},
		{Title: "Recommenders", Content: "ask Prof. Rai", CollectionID: c.ID.Hex(), Tags: []string{"lor"}},
		{Title: "Budget", Content: "tuition (approx)", CollectionID: c.ID.Hex()},
		{Title: "Old purpose", Content: "x", CollectionID: c.ID.Hex(), IsArchived: true},
	} {
		_, err := env.notes.Create(ctx, id, in)
		require.NoError(t, err)
	}

	got, err := env.notes.Search(ctx, id, "PURPOSE")
	require.NoError(t, err)
	require.Len(t, got, 1, "archived notes are excluded")
	assert.Equal(t, "Statement of Purpose", got[0].Title)
	require.NotNil(t, got[0].Collection)
	assert.Equal(t, "Essays", got[0].Collection.Name)
	assert.Equal(t, c.Color, got[0].Collection.Color)
	assert.Equal(t, c.Icon, got[0].Collection.Icon)

	got, err = env.notes.Search(ctx, id, "lor")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Recommenders", got[0].Title)

	got, err = env.notes.Search(ctx, id, "(approx")
	require.NoError(t, err)
	require.Len(t, got, 1, "query is literal text")

	_, err = env.notes.Search(ctx, id, "   ")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Please provide a search query", apperr.Message(err, ""))
}
