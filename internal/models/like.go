package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType says whether a like points at a post or a comment.
type TargetType string

const (
	TargetPost    TargetType = "POST"
	TargetComment TargetType = "COMMENT"
)

// ParseTargetType converts a path/query token to a TargetType.
func ParseTargetType(s string) (TargetType, bool) {
	switch TargetType(strings.ToUpper(strings.TrimSpace(s))) {
	case TargetPost:
		return TargetPost, true
	case TargetComment:
		return TargetComment, true
	}
	return "", false
}

// Like is a pure join document between a user and a target. The
// (target_id, target_type, username) triple carries a unique index; the
// document is created and deleted, never updated.
type Like struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TargetID   string             `json:"target_id" bson:"target_id"`
	TargetType TargetType         `json:"target_type" bson:"target_type"`
	Username   string             `json:"username" bson:"username"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// NewLike builds a like for insertion.
func NewLike(targetID string, targetType TargetType, username string) *Like {
	return &Like{
		TargetID:   targetID,
		TargetType: targetType,
		Username:   username,
		CreatedAt:  time.Now(),
	}
}

// LikeInfo is the read-side aggregate for a single target.
type LikeInfo struct {
	TargetID      string `json:"target_id"`
	LikeCount     int64  `json:"like_count"`
	LikedByViewer bool   `json:"liked_by_viewer"`
}

// BulkCountRequest defines the request body for bulk like-count lookups.
type BulkCountRequest struct {
	TargetIDs []string `json:"target_ids" validate:"required,min=1,max=100,dive,required"`
}
