package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"beyondnp-backend/internal/apperr"
)

// findOne decodes a single document into out. A missing document yields
// (false, nil).
func findOne(ctx context.Context, c *mongo.Collection, filter any, out any) (bool, error) {
	err := c.FindOne(ctx, filter).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts *options.FindOptionsBuilder) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// conflictOn turns a duplicate key error into apperr.ErrConflict with msg.
func conflictOn(err error, msg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict(msg)
	}
	return err
}

// containsFold matches s anywhere in a field, ignoring case.
func containsFold(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func archivedFilter(m bson.M, archived *bool) {
	if archived != nil {
		m["is_archived"] = *archived
	}
}
