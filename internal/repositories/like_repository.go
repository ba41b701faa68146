package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyboard/backend/internal/models"
)

// LikeRepository defines the interface for like data operations.
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, targetID string, targetType models.TargetType, username string) (int64, error)
	HasUserLiked(ctx context.Context, targetID string, targetType models.TargetType, username string) (bool, error)
	CountByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error)
	DeleteByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error)
	FindLikedTargetIDs(ctx context.Context, targetIDs []string, targetType models.TargetType, username string) ([]string, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB.
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

// EnsureIndexes creates the unique (target_id, target_type, username) index
// that backs the at-most-one-like guarantee, plus the lookup indexes.
func (r *MongoLikeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "target_id", Value: 1},
				{Key: "target_type", Value: 1},
				{Key: "username", Value: 1},
			},
			Options: options.Index().SetName("target_user_unique_idx").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "target_id", Value: 1},
				{Key: "target_type", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("target_type_created_idx"),
		},
		{
			Keys: bson.D{
				{Key: "username", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("username_created_idx"),
		},
	})
	return err
}

// CreateLike inserts a like. A racing duplicate insert surfaces as a
// duplicate-key error from the unique index; callers absorb it.
func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, like)
	return err
}

// DeleteLike removes the like of one user on one target, returning how many
// documents were removed (0 or 1).
func (r *MongoLikeRepository) DeleteLike(ctx context.Context, targetID string, targetType models.TargetType, username string) (int64, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{
		"target_id":   targetID,
		"target_type": targetType,
		"username":    username,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// HasUserLiked checks whether a like document exists for the triple.
func (r *MongoLikeRepository) HasUserLiked(ctx context.Context, targetID string, targetType models.TargetType, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"target_id":   targetID,
		"target_type": targetType,
		"username":    username,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByTarget counts the likes on a single target.
func (r *MongoLikeRepository) CountByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"target_id":   targetID,
		"target_type": targetType,
	})
}

// DeleteByTarget purges every like attached to a target. Used by the
// cascading delete paths.
func (r *MongoLikeRepository) DeleteByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{
		"target_id":   targetID,
		"target_type": targetType,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindLikedTargetIDs returns the subset of targetIDs the user has liked, in
// one query. Used for page enrichment.
func (r *MongoLikeRepository) FindLikedTargetIDs(ctx context.Context, targetIDs []string, targetType models.TargetType, username string) ([]string, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	values, err := r.collection.Distinct(ctx, "target_id", bson.M{
		"target_id":   bson.M{"$in": targetIDs},
		"target_type": targetType,
		"username":    username,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
