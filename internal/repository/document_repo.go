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

type DocumentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(db *database.Mongo) *DocumentRepo {
	return &DocumentRepo{
		collection: db.Collection("documents"),
	}
}

func documentQuery(f models.DocumentFilter) bson.M {
	m := bson.M{"user": f.User}
	archivedFilter(m, f.Archived)
	if f.Status != "" {
		m["status"] = f.Status
	}
	if f.Category != "" {
		m["category"] = f.Category
	}
	return m
}

func (r *DocumentRepo) List(ctx context.Context, f models.DocumentFilter) ([]models.Document, error) {
	sort := bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: -1}}
	if f.Recent {
		sort = bson.D{{Key: "last_modified", Value: -1}}
	}
	opts := options.Find().SetSort(sort)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return findAll[models.Document](ctx, r.collection, documentQuery(f), opts)
}

func (r *DocumentRepo) Count(ctx context.Context, f models.DocumentFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, documentQuery(f))
}

func (r *DocumentRepo) FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Document, error) {
	var d models.Document
	found, err := findOne(ctx, r.collection, bson.M{"_id": id, "user": user}, &d)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.LastModified.IsZero() {
		d.LastModified = now
	}
	result, err := r.collection.InsertOne(ctx, d)
	if err != nil {
		return err
	}
	d.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *DocumentRepo) Update(ctx context.Context, d *models.Document) error {
	d.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": d.ID, "user": d.User}, bson.M{
		"$set": bson.M{
			"title":          d.Title,
			"status":         d.Status,
			"description":    d.Description,
			"category":       d.Category,
			"priority":       d.Priority,
			"due_date":       d.DueDate,
			"completed_date": d.CompletedDate,
			"attachments":    d.Attachments,
			"notes":          d.Notes,
			"is_archived":    d.IsArchived,
			"last_modified":  d.LastModified,
			"updated_at":     d.UpdatedAt,
		},
	})
	return err
}

func (r *DocumentRepo) Delete(ctx context.Context, id, user bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": user})
	return err
}

func (r *DocumentRepo) DeleteByUser(ctx context.Context, user bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user": user})
	return err
}

// EnsureIndexes creates necessary indexes for the documents collection
func (r *DocumentRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "due_date", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
