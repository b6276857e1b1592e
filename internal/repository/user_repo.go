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

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *database.Mongo) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := findOne(ctx, r.collection, bson.M{"email": email}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	found, err := findOne(ctx, r.collection, bson.M{"_id": id}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return conflictOn(err, "User already exists")
	}
	user.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// Update writes every scalar and embedded field of user. Reference arrays are
// left alone; they change only through AddRef and PullRefs.
func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"name":                       user.Name,
			"email":                      user.Email,
			"password":                   user.Password,
			"profile":                    user.Profile,
			"preferences":                user.Preferences,
			"is_email_verified":          user.IsEmailVerified,
			"email_verification_code":    user.EmailVerificationCode,
			"email_verification_expires": user.EmailVerificationExpires,
			"last_login":                 user.LastLogin,
			"is_active":                  user.IsActive,
			"updated_at":                 user.UpdatedAt,
		},
	})
	return conflictOn(err, "User already exists")
}

func (r *UserRepo) MarkVerified(ctx context.Context, id bson.ObjectID, code string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":                     id,
		"is_email_verified":       false,
		"email_verification_code": code,
	}, bson.M{
		"$set":   bson.M{"is_email_verified": true, "updated_at": time.Now()},
		"$unset": bson.M{"email_verification_code": "", "email_verification_expires": ""},
	})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// AddRef appends id to one of the user's reference arrays unless present.
func (r *UserRepo) AddRef(ctx context.Context, userID bson.ObjectID, field string, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{field: id},
	})
	return err
}

// PullRefs removes ids from one of the user's reference arrays.
func (r *UserRepo) PullRefs(ctx context.Context, userID bson.ObjectID, field string, ids ...bson.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{field: bson.M{"$in": ids}},
	})
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
