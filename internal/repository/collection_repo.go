package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"beyondnp-backend/internal/database"
	"beyondnp-backend/internal/models"
)

const duplicateCollection = "Collection with this name already exists"

type CollectionRepo struct {
	collection *mongo.Collection
}

func NewCollectionRepo(db *database.Mongo) *CollectionRepo {
	return &CollectionRepo{
		collection: db.Collection("collections"),
	}
}

func collectionQuery(f models.CollectionFilter) bson.M {
	m := bson.M{"user": f.User}
	archivedFilter(m, f.Archived)
	return m
}

// List returns the owner's collections, most recently modified first.
func (r *CollectionRepo) List(ctx context.Context, f models.CollectionFilter) ([]models.Collection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_modified", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return findAll[models.Collection](ctx, r.collection, collectionQuery(f), opts)
}

func (r *CollectionRepo) Count(ctx context.Context, f models.CollectionFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, collectionQuery(f))
}

// FindOwned returns the collection only when it belongs to user.
func (r *CollectionRepo) FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Collection, error) {
	var c models.Collection
	found, err := findOne(ctx, r.collection, bson.M{"_id": id, "user": user}, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *CollectionRepo) FindByName(ctx context.Context, user bson.ObjectID, name string) (*models.Collection, error) {
	var c models.Collection
	found, err := findOne(ctx, r.collection, bson.M{"user": user, "name": name}, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *CollectionRepo) Create(ctx context.Context, c *models.Collection) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.LastModified.IsZero() {
		c.LastModified = now
	}
	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return conflictOn(err, duplicateCollection)
	}
	c.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// Update writes the editable fields. The notes counter is owned by IncNotes.
func (r *CollectionRepo) Update(ctx context.Context, c *models.Collection) error {
	c.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": c.ID, "user": c.User}, bson.M{
		"$set": bson.M{
			"name":          c.Name,
			"description":   c.Description,
			"color":         c.Color,
			"icon":          c.Icon,
			"is_archived":   c.IsArchived,
			"last_modified": c.LastModified,
			"updated_at":    c.UpdatedAt,
		},
	})
	return conflictOn(err, duplicateCollection)
}

// IncNotes adjusts the notes counter by delta and touches lastModified.
func (r *CollectionRepo) IncNotes(ctx context.Context, id bson.ObjectID, delta int) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"notes_count": delta},
		"$set": bson.M{"last_modified": now, "updated_at": now},
	})
	return err
}

func (r *CollectionRepo) Delete(ctx context.Context, id, user bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": user})
	return err
}

func (r *CollectionRepo) DeleteByUser(ctx context.Context, user bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user": user})
	return err
}

// EnsureIndexes creates necessary indexes for the collections collection
func (r *CollectionRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "last_modified", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
