package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
	"github.com/studyboard/backend/pkg/paging"
)

const replyPreviewSize = 3

// CommentService owns the two-level comment hierarchy: creation with parent
// validation, author-only edits, cascading soft-delete, and the enriched
// paginated views.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	likeRepo    repositories.LikeRepository
	logger      *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, likeRepo repositories.LikeRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		logger:      logger,
	}
}

// CreateComment persists a root comment, or a reply when ParentCommentID is
// set. Replies may only attach to an ACTIVE root comment of the same post;
// the two-level limit is enforced here, not by the document shape.
func (s *CommentService) CreateComment(ctx context.Context, req models.CreateCommentRequest, author string) (*models.Comment, error) {
	if _, err := s.postRepo.GetActivePostByID(ctx, req.PostID); err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		if err := s.validateParentComment(ctx, req.PostID, *req.ParentCommentID); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:          req.PostID,
		Content:         req.Content,
		Author:          author,
		Status:          models.StatusActive,
		ParentCommentID: req.ParentCommentID,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("comment created",
		zap.String("comment_id", comment.ID.Hex()),
		zap.String("post_id", req.PostID),
		zap.Bool("is_reply", comment.IsReply()))
	return comment, nil
}

// UpdateComment edits the content of an author-owned comment.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, content, requester string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetActiveCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsAuthor(requester) {
		return nil, apperrors.ErrCommentAccessDenied
	}

	comment.UpdateContent(content)
	if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("comment updated", zap.String("comment_id", commentID))
	return comment, nil
}

// DeleteComment soft-deletes a comment and, for a root comment, its replies.
// Likes are purged before each status flip so a read landing between steps
// never sees a deleted comment whose likes still count; the ordering is the
// mitigation, not a transaction. The whole path is idempotent, so a retry
// after a partial failure finishes the job.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requester string) error {
	comment, err := s.commentRepo.GetActiveCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !comment.IsAuthor(requester) {
		return apperrors.ErrCommentAccessDenied
	}

	var likesPurged int64

	if !comment.IsReply() {
		replies, err := s.commentRepo.FindActiveReplies(ctx, commentID)
		if err != nil {
			return apperrors.ErrInternal.Wrap(err)
		}
		for i := range replies {
			reply := &replies[i]
			deleted, err := s.likeRepo.DeleteByTarget(ctx, reply.ID.Hex(), models.TargetComment)
			if err != nil {
				return apperrors.ErrInternal.Wrap(err)
			}
			likesPurged += deleted

			reply.MarkDeleted()
			if err := s.commentRepo.UpdateComment(ctx, reply); err != nil {
				return apperrors.ErrInternal.Wrap(err)
			}
		}
	}

	deleted, err := s.likeRepo.DeleteByTarget(ctx, commentID, models.TargetComment)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	likesPurged += deleted

	comment.MarkDeleted()
	if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("comment soft deleted",
		zap.String("comment_id", commentID),
		zap.Int64("likes_purged", likesPurged))
	return nil
}

// RootComments pages the root comments of a post. The sort token is parsed
// leniently: unknown values order LATEST. Each comment is enriched with its
// live like count and the viewer's like flag.
func (s *CommentService) RootComments(ctx context.Context, postID string, page, size int, sortToken, viewer string) (paging.Page[models.CommentView], error) {
	if _, err := s.postRepo.GetActivePostByID(ctx, postID); err != nil {
		return paging.Page[models.CommentView]{}, err
	}

	page, size = paging.Normalize(page, size)
	sort := models.ParseCommentSort(sortToken)

	comments, total, err := s.commentRepo.FindRootComments(ctx, postID, page, size, sort)
	if err != nil {
		return paging.Page[models.CommentView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.enrich(ctx, comments, viewer)
	if err != nil {
		return paging.Page[models.CommentView]{}, err
	}
	return paging.New(views, page, size, total), nil
}

// Replies pages the replies of a root comment in natural order, enriched the
// same way as root comments.
func (s *CommentService) Replies(ctx context.Context, postID, parentCommentID string, page, size int, viewer string) (paging.Page[models.CommentView], error) {
	if err := s.validateParentComment(ctx, postID, parentCommentID); err != nil {
		return paging.Page[models.CommentView]{}, err
	}

	page, size = paging.Normalize(page, size)

	comments, total, err := s.commentRepo.FindReplies(ctx, postID, parentCommentID, page, size)
	if err != nil {
		return paging.Page[models.CommentView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.enrich(ctx, comments, viewer)
	if err != nil {
		return paging.Page[models.CommentView]{}, err
	}
	return paging.New(views, page, size, total), nil
}

// ReplyPreview returns the first few replies of a root comment for the
// collapsed "show more" rendering.
func (s *CommentService) ReplyPreview(ctx context.Context, postID, parentCommentID, viewer string) ([]models.CommentView, error) {
	if err := s.validateParentComment(ctx, postID, parentCommentID); err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.FindTopReplies(ctx, postID, parentCommentID, replyPreviewSize)
	if err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}
	return s.enrich(ctx, replies, viewer)
}

// Stats counts every live comment of a post, replies included.
func (s *CommentService) Stats(ctx context.Context, postID string) (models.CommentStats, error) {
	if _, err := s.postRepo.GetActivePostByID(ctx, postID); err != nil {
		return models.CommentStats{}, err
	}
	total, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return models.CommentStats{}, apperrors.ErrInternal.Wrap(err)
	}
	return models.CommentStats{TotalComments: total}, nil
}

// ReplyCount counts the live replies under one root comment.
func (s *CommentService) ReplyCount(ctx context.Context, postID, parentCommentID string) (models.CommentStats, error) {
	if _, err := s.postRepo.GetActivePostByID(ctx, postID); err != nil {
		return models.CommentStats{}, err
	}
	total, err := s.commentRepo.CountReplies(ctx, postID, parentCommentID)
	if err != nil {
		return models.CommentStats{}, apperrors.ErrInternal.Wrap(err)
	}
	return models.CommentStats{TotalComments: total}, nil
}

// validateParentComment checks that a prospective parent is an ACTIVE root
// comment of the given post.
func (s *CommentService) validateParentComment(ctx context.Context, postID, parentCommentID string) error {
	parent, err := s.commentRepo.GetActiveCommentByID(ctx, parentCommentID)
	if err != nil {
		return err
	}
	if parent.PostID != postID {
		return apperrors.ErrCommentAccessDenied.WithMessage("comment belongs to a different post")
	}
	if parent.IsReply() {
		return apperrors.ErrInvalidRequest.WithMessage("replies cannot be nested")
	}
	return nil
}

// enrich joins a batch of comments with their like counts and, when a viewer
// is present, the viewer's like flags. One bulk lookup per aggregate, never
// a stored counter.
func (s *CommentService) enrich(ctx context.Context, comments []models.Comment, viewer string) ([]models.CommentView, error) {
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID.Hex()
	}

	counts := make(map[string]int64, len(ids))
	for _, id := range ids {
		count, err := s.likeRepo.CountByTarget(ctx, id, models.TargetComment)
		if err != nil {
			s.logger.Warn("comment like count failed", zap.String("comment_id", id), zap.Error(err))
			continue
		}
		counts[id] = count
	}

	likedSet := map[string]struct{}{}
	if viewer != "" && len(ids) > 0 {
		likedIDs, err := s.likeRepo.FindLikedTargetIDs(ctx, ids, models.TargetComment, viewer)
		if err != nil {
			return nil, apperrors.ErrInternal.Wrap(err)
		}
		for _, id := range likedIDs {
			likedSet[id] = struct{}{}
		}
	}

	views := make([]models.CommentView, len(comments))
	for i := range comments {
		id := ids[i]
		_, liked := likedSet[id]
		views[i] = models.CommentView{
			Comment:       comments[i],
			LikeCount:     counts[id],
			LikedByViewer: liked,
		}
	}
	return views, nil
}
