package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
)

func activePost(id string) *models.Post {
	return &models.Post{Title: "t", Content: "c", Author: "author", Status: models.StatusActive}
}

func TestLikeService_Toggle(t *testing.T) {
	t.Parallel()

	postRepo := &stubPostRepo{
		getActivePostByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return activePost(id), nil
		},
	}

	t.Run("creates like when none exists", func(t *testing.T) {
		t.Parallel()
		var created *models.Like
		likeRepo := &stubLikeRepo{
			hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, _ string) (bool, error) {
				return false, nil
			},
			createLikeFn: func(_ context.Context, like *models.Like) error {
				created = like
				return nil
			},
		}
		svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

		liked, err := svc.Toggle(context.Background(), "p1", models.TargetPost, "alice")
		require.NoError(t, err)
		assert.True(t, liked)
		require.NotNil(t, created)
		assert.Equal(t, "p1", created.TargetID)
		assert.Equal(t, models.TargetPost, created.TargetType)
		assert.Equal(t, "alice", created.Username)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("removes like when one exists", func(t *testing.T) {
		t.Parallel()
		deleted := false
		likeRepo := &stubLikeRepo{
			hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, _ string) (bool, error) {
				return true, nil
			},
			deleteLikeFn: func(_ context.Context, targetID string, targetType models.TargetType, username string) (int64, error) {
				deleted = true
				assert.Equal(t, "p1", targetID)
				assert.Equal(t, "alice", username)
				return 1, nil
			},
		}
		svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

		liked, err := svc.Toggle(context.Background(), "p1", models.TargetPost, "alice")
		require.NoError(t, err)
		assert.False(t, liked)
		assert.True(t, deleted)
	})

	t.Run("absorbs duplicate key race as already liked", func(t *testing.T) {
		t.Parallel()
		dupErr := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		likeRepo := &stubLikeRepo{
			hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, _ string) (bool, error) {
				// The concurrent toggle has not landed yet at check time.
				return false, nil
			},
			createLikeFn: func(_ context.Context, _ *models.Like) error {
				return dupErr
			},
		}
		svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

		liked, err := svc.Toggle(context.Background(), "p1", models.TargetPost, "alice")
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("rejects unknown target type", func(t *testing.T) {
		t.Parallel()
		svc := NewLikeService(&stubLikeRepo{}, postRepo, &stubCommentRepo{}, testLogger())

		_, err := svc.Toggle(context.Background(), "p1", models.TargetType("STORY"), "alice")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("propagates missing post", func(t *testing.T) {
		t.Parallel()
		missingPostRepo := &stubPostRepo{
			getActivePostByIDFn: func(_ context.Context, _ string) (*models.Post, error) {
				return nil, apperrors.ErrPostNotFound
			},
		}
		svc := NewLikeService(&stubLikeRepo{}, missingPostRepo, &stubCommentRepo{}, testLogger())

		_, err := svc.Toggle(context.Background(), "gone", models.TargetPost, "alice")
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("validates comment targets against the comment store", func(t *testing.T) {
		t.Parallel()
		commentRepo := &stubCommentRepo{
			getActiveCommentByIDFn: func(_ context.Context, _ string) (*models.Comment, error) {
				return nil, apperrors.ErrCommentNotFound
			},
		}
		svc := NewLikeService(&stubLikeRepo{}, postRepo, commentRepo, testLogger())

		_, err := svc.Toggle(context.Background(), "c1", models.TargetComment, "alice")
		assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
	})
}

func TestLikeService_ToggleWithInfo(t *testing.T) {
	t.Parallel()

	postRepo := &stubPostRepo{
		getActivePostByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return activePost(id), nil
		},
	}
	likeRepo := &stubLikeRepo{
		hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, _ string) (bool, error) {
			return false, nil
		},
		createLikeFn: func(_ context.Context, _ *models.Like) error { return nil },
		countByTargetFn: func(_ context.Context, _ string, _ models.TargetType) (int64, error) {
			return 5, nil
		},
	}
	svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

	info, err := svc.ToggleWithInfo(context.Background(), "p1", models.TargetPost, "alice")
	require.NoError(t, err)
	assert.Equal(t, "p1", info.TargetID)
	assert.Equal(t, int64(5), info.LikeCount)
	assert.True(t, info.LikedByViewer)
}

func TestLikeService_GetBulkCounts(t *testing.T) {
	t.Parallel()

	likeRepo := &stubLikeRepo{
		countByTargetFn: func(_ context.Context, targetID string, _ models.TargetType) (int64, error) {
			switch targetID {
			case "a":
				return 3, nil
			case "broken":
				return 0, errors.New("cursor timeout")
			default:
				return 0, nil
			}
		},
	}
	svc := NewLikeService(likeRepo, &stubPostRepo{}, &stubCommentRepo{}, testLogger())

	counts := svc.GetBulkCounts(context.Background(), []string{"a", "b", "broken"}, models.TargetPost)

	assert.Equal(t, int64(3), counts["a"])
	assert.Equal(t, int64(0), counts["b"])
	// A failed lookup degrades to zero instead of failing the batch.
	assert.Equal(t, int64(0), counts["broken"])
	assert.Len(t, counts, 3)
}

func TestLikeService_GetInfo(t *testing.T) {
	t.Parallel()

	postRepo := &stubPostRepo{
		getActivePostByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return activePost(id), nil
		},
	}

	t.Run("anonymous viewer never reads as having liked", func(t *testing.T) {
		t.Parallel()
		likeRepo := &stubLikeRepo{
			countByTargetFn: func(_ context.Context, _ string, _ models.TargetType) (int64, error) {
				return 7, nil
			},
			hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, _ string) (bool, error) {
				t.Fatal("anonymous viewer must not hit the like lookup")
				return false, nil
			},
		}
		svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

		info, err := svc.GetInfo(context.Background(), "p1", models.TargetPost, "")
		require.NoError(t, err)
		assert.Equal(t, int64(7), info.LikeCount)
		assert.False(t, info.LikedByViewer)
	})

	t.Run("logged-in viewer gets their flag", func(t *testing.T) {
		t.Parallel()
		likeRepo := &stubLikeRepo{
			countByTargetFn: func(_ context.Context, _ string, _ models.TargetType) (int64, error) {
				return 7, nil
			},
			hasUserLikedFn: func(_ context.Context, _ string, _ models.TargetType, username string) (bool, error) {
				return username == "alice", nil
			},
		}
		svc := NewLikeService(likeRepo, postRepo, &stubCommentRepo{}, testLogger())

		info, err := svc.GetInfo(context.Background(), "p1", models.TargetPost, "alice")
		require.NoError(t, err)
		assert.True(t, info.LikedByViewer)
	})
}
