package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a board post stored in MongoDB. Like and comment counts are never
// stored here; they are derived on read.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Author    string             `json:"author" bson:"author"`
	Category  string             `json:"category" bson:"category"`
	Status    ContentStatus      `json:"status" bson:"status"`
	ViewCount int64              `json:"view_count" bson:"view_count"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsAuthor checks ownership for author-only mutations.
func (p *Post) IsAuthor(username string) bool {
	return p.Author != "" && p.Author == username
}

// MarkUpdated stamps the update time after an edit.
func (p *Post) MarkUpdated() {
	p.UpdatedAt = time.Now()
}

// MarkDeleted soft-deletes the post.
func (p *Post) MarkDeleted() {
	p.Status = StatusDeleted
	p.UpdatedAt = time.Now()
}

// PostView is a post enriched with read-time aggregates.
type PostView struct {
	Post
	LikeCount     int64 `json:"like_count"`
	LikedByViewer bool  `json:"liked_by_viewer"`
	CommentCount  int64 `json:"comment_count"`
}

// CreatePostRequest defines the request body for creating a post.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1,max=10000"`
	Category string `json:"category" validate:"required,max=50"`
}

// UpdatePostRequest defines the request body for editing a post.
type UpdatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1,max=10000"`
	Category string `json:"category" validate:"required,max=50"`
}
