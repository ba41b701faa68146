package services

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
)

// LikeService toggles like relationships and serves derived like counts.
// Counts are always computed from the likes collection; no counter field on
// the content documents is trusted.
type LikeService struct {
	likeRepo    repositories.LikeRepository
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	logger      *zap.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, logger *zap.Logger) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// Toggle flips the like relationship of one user on one target and reports
// the resulting state. The check and the insert are separate storage calls;
// the unique index on (target_id, target_type, username) is the safety net
// for the race between them, and a duplicate-key rejection is absorbed as
// the idempotent "already liked" outcome.
func (s *LikeService) Toggle(ctx context.Context, targetID string, targetType models.TargetType, username string) (bool, error) {
	if err := s.validateTargetExists(ctx, targetID, targetType); err != nil {
		return false, err
	}

	alreadyLiked, err := s.likeRepo.HasUserLiked(ctx, targetID, targetType, username)
	if err != nil {
		return false, apperrors.ErrInternal.Wrap(err)
	}

	if alreadyLiked {
		deleted, err := s.likeRepo.DeleteLike(ctx, targetID, targetType, username)
		if err != nil {
			return false, apperrors.ErrInternal.Wrap(err)
		}
		s.logger.Info("like removed",
			zap.String("target_id", targetID),
			zap.String("target_type", string(targetType)),
			zap.String("username", username),
			zap.Int64("deleted_count", deleted))
		return false, nil
	}

	if err := s.likeRepo.CreateLike(ctx, models.NewLike(targetID, targetType, username)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent toggle won the insert; the like exists, which is
			// exactly what this caller asked for.
			s.logger.Info("duplicate like insert absorbed",
				zap.String("target_id", targetID),
				zap.String("username", username))
			return true, nil
		}
		return false, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("like created",
		zap.String("target_id", targetID),
		zap.String("target_type", string(targetType)),
		zap.String("username", username))
	return true, nil
}

// ToggleWithInfo toggles and returns the refreshed aggregate.
func (s *LikeService) ToggleWithInfo(ctx context.Context, targetID string, targetType models.TargetType, username string) (models.LikeInfo, error) {
	liked, err := s.Toggle(ctx, targetID, targetType, username)
	if err != nil {
		return models.LikeInfo{}, err
	}

	count, err := s.GetCount(ctx, targetID, targetType)
	if err != nil {
		return models.LikeInfo{}, err
	}

	return models.LikeInfo{
		TargetID:      targetID,
		LikeCount:     count,
		LikedByViewer: liked,
	}, nil
}

// GetCount counts the likes on one target. Read-only; missing targets just
// count zero.
func (s *LikeService) GetCount(ctx context.Context, targetID string, targetType models.TargetType) (int64, error) {
	count, err := s.likeRepo.CountByTarget(ctx, targetID, targetType)
	if err != nil {
		return 0, apperrors.ErrInternal.Wrap(err)
	}
	return count, nil
}

// GetBulkCounts counts likes for many targets at once. Ids with no likes, or
// whose individual count lookup fails, map to zero rather than failing the
// whole batch.
func (s *LikeService) GetBulkCounts(ctx context.Context, targetIDs []string, targetType models.TargetType) map[string]int64 {
	result := make(map[string]int64, len(targetIDs))
	for _, targetID := range targetIDs {
		count, err := s.likeRepo.CountByTarget(ctx, targetID, targetType)
		if err != nil {
			s.logger.Warn("bulk like count failed",
				zap.String("target_id", targetID),
				zap.Error(err))
			result[targetID] = 0
			continue
		}
		result[targetID] = count
	}
	return result
}

// GetInfo returns the like count plus, for a logged-in viewer, whether that
// viewer has liked the target. An empty username means an anonymous viewer:
// liking is login-gated, seeing counts is not.
func (s *LikeService) GetInfo(ctx context.Context, targetID string, targetType models.TargetType, username string) (models.LikeInfo, error) {
	if err := s.validateTargetExists(ctx, targetID, targetType); err != nil {
		return models.LikeInfo{}, err
	}

	count, err := s.GetCount(ctx, targetID, targetType)
	if err != nil {
		return models.LikeInfo{}, err
	}

	liked := false
	if username != "" {
		liked, err = s.likeRepo.HasUserLiked(ctx, targetID, targetType, username)
		if err != nil {
			return models.LikeInfo{}, apperrors.ErrInternal.Wrap(err)
		}
	}

	return models.LikeInfo{
		TargetID:      targetID,
		LikeCount:     count,
		LikedByViewer: liked,
	}, nil
}

func (s *LikeService) validateTargetExists(ctx context.Context, targetID string, targetType models.TargetType) error {
	switch targetType {
	case models.TargetPost:
		_, err := s.postRepo.GetActivePostByID(ctx, targetID)
		return err
	case models.TargetComment:
		_, err := s.commentRepo.GetActiveCommentByID(ctx, targetID)
		return err
	default:
		return apperrors.ErrInvalidRequest.WithMessage("unknown target type: " + string(targetType))
	}
}
