//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/database"
	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/repository"
)

var mongoURI string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	mongoURI = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *database.Mongo {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, mongoURI, "beyondnp_"+bson.NewObjectID().Hex(), 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.DB.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	db := connect(t)

	users := repository.NewUserRepo(db)
	collections := repository.NewCollectionRepo(db)
	notes := repository.NewNoteRepo(db)
	documents := repository.NewDocumentRepo(db)
	universities := repository.NewUniversityRepo(db)

	require.NoError(t, users.EnsureIndexes(ctx))
	require.NoError(t, collections.EnsureIndexes(ctx))
	require.NoError(t, notes.EnsureIndexes(ctx))
	require.NoError(t, documents.EnsureIndexes(ctx))
	require.NoError(t, universities.EnsureIndexes(ctx))

	u := models.NewUser("Asha", "asha@example.com", "hash")
	require.NoError(t, users.Create(ctx, u))

	t.Run("user_repository", func(t *testing.T) {
		dup := models.NewUser("Other", "asha@example.com", "hash")
		err := users.Create(ctx, dup)
		require.ErrorIs(t, err, apperr.ErrConflict)

		byEmail, err := users.FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		missing, err := users.FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		require.Nil(t, missing)

		u.EmailVerificationCode = "123456"
		require.NoError(t, users.Update(ctx, u))
		marked, err := users.MarkVerified(ctx, u.ID, "654321")
		require.NoError(t, err)
		require.False(t, marked)
		marked, err = users.MarkVerified(ctx, u.ID, "123456")
		require.NoError(t, err)
		require.True(t, marked)
		marked, err = users.MarkVerified(ctx, u.ID, "123456")
		require.NoError(t, err)
		require.False(t, marked)

		u.EmailVerificationCode = ""
		u.IsEmailVerified = true
		u.Profile.Bio = "hello"
		require.NoError(t, users.Update(ctx, u))

		ref := bson.NewObjectID()
		require.NoError(t, users.AddRef(ctx, u.ID, models.RefShortlist, ref))
		require.NoError(t, users.AddRef(ctx, u.ID, models.RefShortlist, ref))

		byID, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, byID.IsEmailVerified)
		require.Equal(t, "hello", byID.Profile.Bio)
		require.Equal(t, []bson.ObjectID{ref}, byID.ShortlistedUniversities)

		require.NoError(t, users.PullRefs(ctx, u.ID, models.RefShortlist, ref))
		byID, err = users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, byID.ShortlistedUniversities)
	})

	t.Run("collection_and_note_repository", func(t *testing.T) {
		c := &models.Collection{User: u.ID, Name: "Essays", Color: models.DefaultColor, Icon: models.DefaultIcon}
		require.NoError(t, collections.Create(ctx, c))

		err := collections.Create(ctx, &models.Collection{User: u.ID, Name: "Essays"})
		require.ErrorIs(t, err, apperr.ErrConflict)

		other := &models.Collection{User: u.ID, Name: "Visa"}
		require.NoError(t, collections.Create(ctx, other))

		for i, title := range []string{"Draft", "Outline", "Personal statement"} {
			n := &models.Note{
				User:             u.ID,
				ParentCollection: c.ID,
				Title:            title,
				Content:          "body",
				Tags:             []string{"essay"},
				IsPinned:         i == 1,
			}
			require.NoError(t, notes.Create(ctx, n))
			require.NoError(t, collections.IncNotes(ctx, c.ID, 1))
		}
		require.NoError(t, notes.Create(ctx, &models.Note{User: u.ID, ParentCollection: other.ID, Title: "I-20", Tags: []string{}}))

		got, err := collections.FindOwned(ctx, c.ID, u.ID)
		require.NoError(t, err)
		require.Equal(t, 3, got.NotesCount)

		notOwned, err := collections.FindOwned(ctx, c.ID, bson.NewObjectID())
		require.NoError(t, err)
		require.Nil(t, notOwned)

		list, err := notes.List(ctx, models.NoteFilter{User: u.ID, Collection: &c.ID, Archived: models.Bool(false)})
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "Outline", list[0].Title)
		require.Nil(t, list[0].Collection)

		withParent, err := notes.List(ctx, models.NoteFilter{User: u.ID, Archived: models.Bool(false), WithCollection: true})
		require.NoError(t, err)
		require.Len(t, withParent, 4)
		for _, n := range withParent {
			require.NotNil(t, n.Collection, n.Title)
			require.Equal(t, n.ParentCollection, n.Collection.ID)
			if n.Title == "I-20" {
				require.Equal(t, "Visa", n.Collection.Name)
			} else {
				require.Equal(t, "Essays", n.Collection.Name)
				require.Equal(t, models.DefaultIcon, n.Collection.Icon)
			}
		}

		limited, err := notes.List(ctx, models.NoteFilter{User: u.ID, Limit: 2, WithCollection: true})
		require.NoError(t, err)
		require.Len(t, limited, 2)

		found, err := notes.List(ctx, models.NoteFilter{User: u.ID, Search: "PERSONAL", Archived: models.Bool(false)})
		require.NoError(t, err)
		require.Len(t, found, 1)

		byTag, err := notes.List(ctx, models.NoteFilter{User: u.ID, Search: "ess", Archived: models.Bool(false)})
		require.NoError(t, err)
		require.Len(t, byTag, 3)

		deleted, err := notes.DeleteByCollection(ctx, u.ID, c.ID)
		require.NoError(t, err)
		require.EqualValues(t, 3, deleted)

		remaining, err := notes.Count(ctx, models.NoteFilter{User: u.ID})
		require.NoError(t, err)
		require.EqualValues(t, 1, remaining)
	})

	t.Run("document_repository", func(t *testing.T) {
		soon := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond)
		later := soon.Add(72 * time.Hour)
		for _, d := range []*models.Document{
			{User: u.ID, Title: "Transcript", Status: models.StatusPending, Category: "academic", Priority: models.PriorityHigh, DueDate: &later},
			{User: u.ID, Title: "Passport", Status: models.StatusCompleted, Category: models.DefaultCategory, Priority: models.PriorityMedium, DueDate: &soon},
		} {
			require.NoError(t, documents.Create(ctx, d))
		}

		list, err := documents.List(ctx, models.DocumentFilter{User: u.ID, Archived: models.Bool(false)})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "Passport", list[0].Title)

		pending, err := documents.Count(ctx, models.DocumentFilter{User: u.ID, Status: models.StatusPending})
		require.NoError(t, err)
		require.EqualValues(t, 1, pending)
	})

	t.Run("university_repository", func(t *testing.T) {
		mit := &models.University{Name: "MIT", Location: "Cambridge, MA", Link: "https://mit.edu", Country: models.DefaultCountry, Programs: []string{"CS"}}
		require.NoError(t, universities.Upsert(ctx, mit))
		mit.Ranking = 1
		require.NoError(t, universities.Upsert(ctx, mit))

		list, err := universities.List(ctx, models.UniversityFilter{Search: "mi"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 1, list[0].Ranking)

		byIDs, err := universities.FindByIDs(ctx, []bson.ObjectID{list[0].ID, bson.NewObjectID()})
		require.NoError(t, err)
		require.Len(t, byIDs, 1)
	})

	t.Run("delete_by_user", func(t *testing.T) {
		require.NoError(t, collections.DeleteByUser(ctx, u.ID))
		require.NoError(t, notes.DeleteByUser(ctx, u.ID))
		require.NoError(t, documents.DeleteByUser(ctx, u.ID))
		require.NoError(t, users.Delete(ctx, u.ID))

		n, err := collections.Count(ctx, models.CollectionFilter{User: u.ID})
		require.NoError(t, err)
		require.Zero(t, n)

		gone, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, gone)
	})
}
