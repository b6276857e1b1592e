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

type UniversityRepo struct {
	collection *mongo.Collection
}

func NewUniversityRepo(db *database.Mongo) *UniversityRepo {
	return &UniversityRepo{
		collection: db.Collection("universities"),
	}
}

func (r *UniversityRepo) List(ctx context.Context, f models.UniversityFilter) ([]models.University, error) {
	m := bson.M{}
	if f.Search != "" {
		m["name"] = containsFold(f.Search)
	}
	if f.State != "" {
		m["state"] = f.State
	}
	if f.Country != "" {
		m["country"] = f.Country
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return findAll[models.University](ctx, r.collection, m, opts)
}

func (r *UniversityRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.University, error) {
	var u models.University
	found, err := findOne(ctx, r.collection, bson.M{"_id": id}, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// FindByIDs resolves a list of references. Unknown ids are skipped.
func (r *UniversityRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.University, error) {
	if len(ids) == 0 {
		return []models.University{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.University](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, opts)
}

// Upsert inserts u or updates the existing university with the same name.
func (r *UniversityRepo) Upsert(ctx context.Context, u *models.University) error {
	now := time.Now()
	u.UpdatedAt = now
	_, err := r.collection.UpdateOne(ctx, bson.M{"name": u.Name}, bson.M{
		"$set": bson.M{
			"location":        u.Location,
			"link":            u.Link,
			"state":           u.State,
			"country":         u.Country,
			"ranking":         u.Ranking,
			"acceptance_rate": u.AcceptanceRate,
			"tuition_fee":     u.TuitionFee,
			"is_public":       u.IsPublic,
			"programs":        u.Programs,
			"description":     u.Description,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}, options.UpdateOne().SetUpsert(true))
	return err
}

// EnsureIndexes creates necessary indexes for the universities collection
func (r *UniversityRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "state", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
