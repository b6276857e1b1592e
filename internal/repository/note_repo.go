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

type NoteRepo struct {
	collection *mongo.Collection
}

func NewNoteRepo(db *database.Mongo) *NoteRepo {
	return &NoteRepo{
		collection: db.Collection("notes"),
	}
}

func noteQuery(f models.NoteFilter) bson.M {
	m := bson.M{"user": f.User}
	if f.Collection != nil {
		m["parent_collection"] = *f.Collection
	}
	archivedFilter(m, f.Archived)
	if f.Search != "" {
		re := containsFold(f.Search)
		m["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
			bson.M{"tags": re},
		}
	}
	return m
}

func (r *NoteRepo) List(ctx context.Context, f models.NoteFilter) ([]models.Note, error) {
	sort := bson.D{{Key: "is_pinned", Value: -1}, {Key: "last_modified", Value: -1}}
	if f.Recent {
		sort = bson.D{{Key: "last_modified", Value: -1}}
	}
	if f.WithCollection {
		return r.listWithCollection(ctx, f, sort)
	}
	opts := options.Find().SetSort(sort)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return findAll[models.Note](ctx, r.collection, noteQuery(f), opts)
}

func (r *NoteRepo) listWithCollection(ctx context.Context, f models.NoteFilter, sort bson.D) ([]models.Note, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: noteQuery(f)}},
		{{Key: "$sort", Value: sort}},
	}
	if f.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: f.Limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "collections",
			"localField":   "parent_collection",
			"foreignField": "_id",
			"as":           "collection",
		}}},
		bson.D{{Key: "$set", Value: bson.M{"collection": bson.M{"$first": "$collection"}}}},
	)

	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []models.Note{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NoteRepo) Count(ctx context.Context, f models.NoteFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, noteQuery(f))
}

func (r *NoteRepo) FindOwned(ctx context.Context, id, user bson.ObjectID) (*models.Note, error) {
	var n models.Note
	found, err := findOne(ctx, r.collection, bson.M{"_id": id, "user": user}, &n)
	if err != nil || !found {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) Create(ctx context.Context, n *models.Note) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.LastModified.IsZero() {
		n.LastModified = now
	}
	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *NoteRepo) Update(ctx context.Context, n *models.Note) error {
	n.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": n.ID, "user": n.User}, bson.M{
		"$set": bson.M{
			"parent_collection": n.ParentCollection,
			"title":             n.Title,
			"content":           n.Content,
			"tags":              n.Tags,
			"color":             n.Color,
			"is_pinned":         n.IsPinned,
			"is_archived":       n.IsArchived,
			"attachments":       n.Attachments,
			"last_modified":     n.LastModified,
			"updated_at":        n.UpdatedAt,
		},
	})
	return err
}

func (r *NoteRepo) Delete(ctx context.Context, id, user bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": user})
	return err
}

// DeleteByCollection removes every note whose parent is collection.
func (r *NoteRepo) DeleteByCollection(ctx context.Context, user, collection bson.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user": user, "parent_collection": collection})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *NoteRepo) DeleteByUser(ctx context.Context, user bson.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user": user})
	return err
}

// EnsureIndexes creates necessary indexes for the notes collection
func (r *NoteRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "parent_collection", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "tags", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "is_pinned", Value: -1}, {Key: "last_modified", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
