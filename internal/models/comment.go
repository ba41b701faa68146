package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentStatus is shared by posts and comments: soft-deleted documents stay
// in storage but are excluded from normal queries.
type ContentStatus string

const (
	StatusActive  ContentStatus = "ACTIVE"
	StatusDeleted ContentStatus = "DELETED"
)

// Comment is a flat document; root/reply is a structural property of
// ParentCommentID, and the two-level limit is enforced at creation time.
type Comment struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID          string             `json:"post_id" bson:"post_id"`
	Content         string             `json:"content" bson:"content"`
	Author          string             `json:"author" bson:"author"`
	Status          ContentStatus      `json:"status" bson:"status"`
	ParentCommentID *string            `json:"parent_comment_id,omitempty" bson:"parent_comment_id"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsReply reports whether the comment has a parent.
func (c *Comment) IsReply() bool { return c.ParentCommentID != nil }

// IsAuthor checks ownership for author-only mutations.
func (c *Comment) IsAuthor(username string) bool {
	return c.Author != "" && c.Author == username
}

// UpdateContent mutates the content and stamps the update time.
func (c *Comment) UpdateContent(content string) {
	c.Content = content
	c.UpdatedAt = time.Now()
}

// MarkDeleted soft-deletes the comment.
func (c *Comment) MarkDeleted() {
	c.Status = StatusDeleted
	c.UpdatedAt = time.Now()
}

// CommentView is a comment enriched with derived aggregates. The aggregates
// are computed at read time, never stored on the document.
type CommentView struct {
	Comment
	LikeCount     int64 `json:"like_count"`
	LikedByViewer bool  `json:"liked_by_viewer"`
}

// CommentStats carries count aggregates for a post or a parent comment.
type CommentStats struct {
	TotalComments int64 `json:"total_comments"`
}

// CreateCommentRequest defines the request body for creating a comment or a
// reply (ParentCommentID set).
type CreateCommentRequest struct {
	PostID          string  `json:"post_id" validate:"required"`
	Content         string  `json:"content" validate:"required,min=1,max=1000"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
