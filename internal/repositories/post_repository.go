package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetActivePostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	IncrementViewCount(ctx context.Context, id string) error
	FindActivePosts(ctx context.Context, page, size int) ([]models.Post, int64, error)
	SearchPosts(ctx context.Context, keyword string, page, size int) ([]models.Post, int64, error)
	FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Post, int64, error)
	CountByAuthor(ctx context.Context, author string) (int64, error)
	FindTopByViewCount(ctx context.Context, limit int64) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new ACTIVE post.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.StatusActive
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetActivePostByID retrieves a post by ID, treating soft-deleted and
// missing documents alike.
func (r *MongoPostRepository) GetActivePostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrPostNotFound.Wrap(fmt.Errorf("invalid post ID format: %w", err))
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "status": models.StatusActive}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists the mutable fields of an existing post.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	update := bson.M{
		"$set": bson.M{
			"title":      post.Title,
			"content":    post.Content,
			"category":   post.Category,
			"status":     post.Status,
			"updated_at": post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter atomically; reads increment it
// regardless of viewer identity.
func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrPostNotFound.Wrap(fmt.Errorf("invalid post ID format: %w", err))
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

func (r *MongoPostRepository) findPage(ctx context.Context, filter bson.M, page, size int) ([]models.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindActivePosts pages the live posts, newest first.
func (r *MongoPostRepository) FindActivePosts(ctx context.Context, page, size int) ([]models.Post, int64, error) {
	return r.findPage(ctx, bson.M{"status": models.StatusActive}, page, size)
}

// keywordRegex builds a case-insensitive match clause for a user-supplied
// keyword. The keyword is escaped so it always matches literally and can
// never be parsed as a regex pattern.
func keywordRegex(keyword string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
}

// SearchPosts matches the keyword against title and content.
func (r *MongoPostRepository) SearchPosts(ctx context.Context, keyword string, page, size int) ([]models.Post, int64, error) {
	regex := keywordRegex(keyword)
	filter := bson.M{
		"status": models.StatusActive,
		"$or": []bson.M{
			{"title": regex},
			{"content": regex},
		},
	}
	return r.findPage(ctx, filter, page, size)
}

// FindByAuthor pages one author's live posts, newest first.
func (r *MongoPostRepository) FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Post, int64, error) {
	return r.findPage(ctx, bson.M{"author": author, "status": models.StatusActive}, page, size)
}

// CountByAuthor counts one author's live posts.
func (r *MongoPostRepository) CountByAuthor(ctx context.Context, author string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author": author, "status": models.StatusActive})
}

// FindTopByViewCount returns the most viewed live posts.
func (r *MongoPostRepository) FindTopByViewCount(ctx context.Context, limit int64) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusActive},
		options.Find().SetSort(bson.D{{Key: "view_count", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
