package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/models"
)

// Find methods return (nil, nil) when nothing matches.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// MarkVerified flips the account to verified and clears the code only
	// while code is still the stored one. It reports whether it did.
	MarkVerified(ctx context.Context, id bson.ObjectID, code string) (bool, error)
	AddRef(ctx context.Context, userID bson.ObjectID, field string, id bson.ObjectID) error
	PullRefs(ctx context.Context, userID bson.ObjectID, field string, ids ...bson.ObjectID) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type CollectionStore interface {
	List(ctx context.Context, f models.CollectionFilter) ([]models.Collection, error)
	Count(ctx context.Context, f models.CollectionFilter) (int64, error)
	FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Collection, error)
	FindByName(ctx context.Context, user bson.ObjectID, name string) (*models.Collection, error)
	Create(ctx context.Context, c *models.Collection) error
	Update(ctx context.Context, c *models.Collection) error
	IncNotes(ctx context.Context, id bson.ObjectID, delta int) error
	Delete(ctx context.Context, id, user bson.ObjectID) error
	DeleteByUser(ctx context.Context, user bson.ObjectID) error
}

type NoteStore interface {
	List(ctx context.Context, f models.NoteFilter) ([]models.Note, error)
	Count(ctx context.Context, f models.NoteFilter) (int64, error)
	FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Note, error)
	Create(ctx context.Context, n *models.Note) error
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, id, user bson.ObjectID) error
	DeleteByCollection(ctx context.Context, user, collection bson.ObjectID) (int64, error)
	DeleteByUser(ctx context.Context, user bson.ObjectID) error
}

type DocumentStore interface {
	List(ctx context.Context, f models.DocumentFilter) ([]models.Document, error)
	Count(ctx context.Context, f models.DocumentFilter) (int64, error)
	FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Document, error)
	Create(ctx context.Context, d *models.Document) error
	Update(ctx context.Context, d *models.Document) error
	Delete(ctx context.Context, id, user bson.ObjectID) error
	DeleteByUser(ctx context.Context, user bson.ObjectID) error
}

type UniversityStore interface {
	List(ctx context.Context, f models.UniversityFilter) ([]models.University, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.University, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.University, error)
	Upsert(ctx context.Context, u *models.University) error
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID bson.ObjectID) (string, error)
}
