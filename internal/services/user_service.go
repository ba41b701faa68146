package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
	"github.com/studyboard/backend/pkg/paging"
)

// UserService serves the my-page views: per-user activity stats and the
// caller's own posts and comments. All queries are author-scoped and only
// count live content.
type UserService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	postSvc     *PostService
	commentSvc  *CommentService
	logger      *zap.Logger
}

// NewUserService creates a new UserService. Enrichment is delegated to the
// post and comment services so aggregates are computed one way everywhere.
func NewUserService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, postSvc *PostService, commentSvc *CommentService, logger *zap.Logger) *UserService {
	return &UserService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		postSvc:     postSvc,
		commentSvc:  commentSvc,
		logger:      logger,
	}
}

// Stats counts the user's live posts and comments.
func (s *UserService) Stats(ctx context.Context, username string) (models.UserStats, error) {
	postCount, err := s.postRepo.CountByAuthor(ctx, username)
	if err != nil {
		return models.UserStats{}, apperrors.ErrInternal.Wrap(err)
	}
	commentCount, err := s.commentRepo.CountByAuthor(ctx, username)
	if err != nil {
		return models.UserStats{}, apperrors.ErrInternal.Wrap(err)
	}
	return models.UserStats{
		Username:     username,
		PostCount:    postCount,
		CommentCount: commentCount,
	}, nil
}

// MyPosts pages the user's own live posts, newest first, enriched with the
// same aggregates as the public listings.
func (s *UserService) MyPosts(ctx context.Context, username string, page, size int) (paging.Page[models.PostView], error) {
	page, size = paging.Normalize(page, size)

	posts, total, err := s.postRepo.FindByAuthor(ctx, username, page, size)
	if err != nil {
		return paging.Page[models.PostView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.postSvc.enrich(ctx, posts, username)
	if err != nil {
		return paging.Page[models.PostView]{}, err
	}
	return paging.New(views, page, size, total), nil
}

// MyComments pages the user's own live comments across all posts, newest
// first.
func (s *UserService) MyComments(ctx context.Context, username string, page, size int) (paging.Page[models.CommentView], error) {
	page, size = paging.Normalize(page, size)

	comments, total, err := s.commentRepo.FindByAuthor(ctx, username, page, size)
	if err != nil {
		return paging.Page[models.CommentView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.commentSvc.enrich(ctx, comments, username)
	if err != nil {
		return paging.Page[models.CommentView]{}, err
	}
	return paging.New(views, page, size, total), nil
}
