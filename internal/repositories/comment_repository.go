package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetActiveCommentByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	FindRootComments(ctx context.Context, postID string, page, size int, sort models.CommentSortType) ([]models.Comment, int64, error)
	FindReplies(ctx context.Context, postID, parentCommentID string, page, size int) ([]models.Comment, int64, error)
	FindActiveReplies(ctx context.Context, parentCommentID string) ([]models.Comment, error)
	FindAllActiveByPost(ctx context.Context, postID string) ([]models.Comment, error)
	FindTopReplies(ctx context.Context, postID, parentCommentID string, limit int64) ([]models.Comment, error)
	FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Comment, int64, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountReplies(ctx context.Context, postID, parentCommentID string) (int64, error)
	CountByAuthor(ctx context.Context, author string) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB.
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// EnsureIndexes creates the index backing root and reply listing.
func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "post_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "parent_comment_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("post_status_parent_created_idx"),
	})
	return err
}

// CreateComment inserts a new ACTIVE comment.
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Status == "" {
		comment.Status = models.StatusActive
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetActiveCommentByID retrieves a comment by ID, treating soft-deleted and
// missing documents alike.
func (r *MongoCommentRepository) GetActiveCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrCommentNotFound.Wrap(fmt.Errorf("invalid comment ID format: %w", err))
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "status": models.StatusActive}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// UpdateComment persists the mutable fields of an existing comment.
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	update := bson.M{
		"$set": bson.M{
			"content":    comment.Content,
			"status":     comment.Status,
			"updated_at": comment.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": comment.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

func (r *MongoCommentRepository) findPage(ctx context.Context, filter bson.M, page, size int, sort bson.D) ([]models.Comment, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	if sort != nil {
		findOptions.SetSort(sort)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// FindRootComments pages the root comments of a post with the requested
// ordering policy.
func (r *MongoCommentRepository) FindRootComments(ctx context.Context, postID string, page, size int, sort models.CommentSortType) ([]models.Comment, int64, error) {
	direction := 1
	if sort.Descending() {
		direction = -1
	}
	filter := bson.M{
		"post_id":           postID,
		"status":            models.StatusActive,
		"parent_comment_id": nil,
	}
	return r.findPage(ctx, filter, page, size, bson.D{{Key: "created_at", Value: direction}})
}

// FindReplies pages the replies of a root comment in natural order.
func (r *MongoCommentRepository) FindReplies(ctx context.Context, postID, parentCommentID string, page, size int) ([]models.Comment, int64, error) {
	filter := bson.M{
		"post_id":           postID,
		"parent_comment_id": parentCommentID,
		"status":            models.StatusActive,
	}
	return r.findPage(ctx, filter, page, size, nil)
}

// FindActiveReplies returns all live replies of a root comment; used by the
// cascading delete.
func (r *MongoCommentRepository) FindActiveReplies(ctx context.Context, parentCommentID string) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"parent_comment_id": parentCommentID,
		"status":            models.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FindAllActiveByPost returns every live comment of a post, roots and
// replies; used by the post cascade.
func (r *MongoCommentRepository) FindAllActiveByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"post_id": postID,
		"status":  models.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FindTopReplies returns the first replies of a comment for previews.
func (r *MongoCommentRepository) FindTopReplies(ctx context.Context, postID, parentCommentID string, limit int64) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"post_id":           postID,
		"parent_comment_id": parentCommentID,
		"status":            models.StatusActive,
	}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByAuthor pages one author's live comments across all posts, newest
// first; replies included.
func (r *MongoCommentRepository) FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Comment, int64, error) {
	filter := bson.M{
		"author": author,
		"status": models.StatusActive,
	}
	return r.findPage(ctx, filter, page, size, bson.D{{Key: "created_at", Value: -1}})
}

// CountByPost counts every live comment of a post, replies included.
func (r *MongoCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"post_id": postID,
		"status":  models.StatusActive,
	})
}

// CountReplies counts the live replies of one root comment.
func (r *MongoCommentRepository) CountReplies(ctx context.Context, postID, parentCommentID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"post_id":           postID,
		"parent_comment_id": parentCommentID,
		"status":            models.StatusActive,
	})
}

// CountByAuthor counts one author's live comments, replies included.
func (r *MongoCommentRepository) CountByAuthor(ctx context.Context, author string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"author": author,
		"status": models.StatusActive,
	})
}
