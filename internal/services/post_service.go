package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/models"
	"github.com/studyboard/backend/internal/repositories"
	"github.com/studyboard/backend/pkg/paging"
)

const popularPostLimit = 10

// PostService handles post CRUD, search and the cascading post delete.
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	likeRepo    repositories.LikeRepository
	logger      *zap.Logger
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, likeRepo repositories.LikeRepository, logger *zap.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		logger:      logger,
	}
}

// CreatePost persists a new ACTIVE post.
func (s *PostService) CreatePost(ctx context.Context, req models.CreatePostRequest, author string) (*models.Post, error) {
	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		Author:   author,
		Category: req.Category,
		Status:   models.StatusActive,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("post created",
		zap.String("post_id", post.ID.Hex()),
		zap.String("author", author))
	return post, nil
}

// GetPost returns a single post enriched with its aggregates. Every read
// increments the view counter, whoever the viewer is.
func (s *PostService) GetPost(ctx context.Context, id, viewer string) (models.PostView, error) {
	post, err := s.postRepo.GetActivePostByID(ctx, id)
	if err != nil {
		return models.PostView{}, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return models.PostView{}, apperrors.ErrInternal.Wrap(err)
	}
	post.ViewCount++

	likeCount, err := s.likeRepo.CountByTarget(ctx, id, models.TargetPost)
	if err != nil {
		return models.PostView{}, apperrors.ErrInternal.Wrap(err)
	}

	liked := false
	if viewer != "" {
		liked, err = s.likeRepo.HasUserLiked(ctx, id, models.TargetPost, viewer)
		if err != nil {
			return models.PostView{}, apperrors.ErrInternal.Wrap(err)
		}
	}

	commentCount, err := s.commentRepo.CountByPost(ctx, id)
	if err != nil {
		return models.PostView{}, apperrors.ErrInternal.Wrap(err)
	}

	return models.PostView{
		Post:          *post,
		LikeCount:     likeCount,
		LikedByViewer: liked,
		CommentCount:  commentCount,
	}, nil
}

// ListPosts pages the live posts, newest first, enriched with aggregates.
func (s *PostService) ListPosts(ctx context.Context, page, size int, viewer string) (paging.Page[models.PostView], error) {
	page, size = paging.Normalize(page, size)

	posts, total, err := s.postRepo.FindActivePosts(ctx, page, size)
	if err != nil {
		return paging.Page[models.PostView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.enrich(ctx, posts, viewer)
	if err != nil {
		return paging.Page[models.PostView]{}, err
	}
	return paging.New(views, page, size, total), nil
}

// SearchPosts pages the posts whose title or content matches the keyword.
func (s *PostService) SearchPosts(ctx context.Context, keyword string, page, size int, viewer string) (paging.Page[models.PostView], error) {
	page, size = paging.Normalize(page, size)

	posts, total, err := s.postRepo.SearchPosts(ctx, keyword, page, size)
	if err != nil {
		return paging.Page[models.PostView]{}, apperrors.ErrInternal.Wrap(err)
	}

	views, err := s.enrich(ctx, posts, viewer)
	if err != nil {
		return paging.Page[models.PostView]{}, err
	}
	return paging.New(views, page, size, total), nil
}

// PopularPosts returns the most viewed live posts.
func (s *PostService) PopularPosts(ctx context.Context, viewer string) ([]models.PostView, error) {
	posts, err := s.postRepo.FindTopByViewCount(ctx, popularPostLimit)
	if err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}
	return s.enrich(ctx, posts, viewer)
}

// UpdatePost edits an author-owned post.
func (s *PostService) UpdatePost(ctx context.Context, id string, req models.UpdatePostRequest, author string) (*models.Post, error) {
	post, err := s.postRepo.GetActivePostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(author) {
		return nil, apperrors.ErrPostAccessDenied
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Category = req.Category
	post.MarkUpdated()

	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("post updated", zap.String("post_id", id))
	return post, nil
}

// DeletePost soft-deletes a post together with everything hanging off it:
// per comment purge likes then flip status, then purge the post's own likes,
// then flip the post. Same ordering rationale as the comment cascade, and
// likewise idempotent under retry.
func (s *PostService) DeletePost(ctx context.Context, id, author string) error {
	post, err := s.postRepo.GetActivePostByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsAuthor(author) {
		return apperrors.ErrPostAccessDenied
	}

	comments, err := s.commentRepo.FindAllActiveByPost(ctx, id)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	var commentLikesPurged int64
	for i := range comments {
		comment := &comments[i]
		deleted, err := s.likeRepo.DeleteByTarget(ctx, comment.ID.Hex(), models.TargetComment)
		if err != nil {
			return apperrors.ErrInternal.Wrap(err)
		}
		commentLikesPurged += deleted

		comment.MarkDeleted()
		if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
			return apperrors.ErrInternal.Wrap(err)
		}
	}

	postLikesPurged, err := s.likeRepo.DeleteByTarget(ctx, id, models.TargetPost)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	post.MarkDeleted()
	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("post soft deleted",
		zap.String("post_id", id),
		zap.Int("comments", len(comments)),
		zap.Int64("comment_likes_purged", commentLikesPurged),
		zap.Int64("post_likes_purged", postLikesPurged))
	return nil
}

// enrich joins a batch of posts with like counts, viewer flags and comment
// counts, all derived at read time.
func (s *PostService) enrich(ctx context.Context, posts []models.Post, viewer string) ([]models.PostView, error) {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID.Hex()
	}

	likeCounts := make(map[string]int64, len(ids))
	for _, id := range ids {
		count, err := s.likeRepo.CountByTarget(ctx, id, models.TargetPost)
		if err != nil {
			s.logger.Warn("post like count failed", zap.String("post_id", id), zap.Error(err))
			continue
		}
		likeCounts[id] = count
	}

	likedSet := map[string]struct{}{}
	if viewer != "" && len(ids) > 0 {
		likedIDs, err := s.likeRepo.FindLikedTargetIDs(ctx, ids, models.TargetPost, viewer)
		if err != nil {
			return nil, apperrors.ErrInternal.Wrap(err)
		}
		for _, id := range likedIDs {
			likedSet[id] = struct{}{}
		}
	}

	views := make([]models.PostView, len(posts))
	for i := range posts {
		id := ids[i]
		commentCount, err := s.commentRepo.CountByPost(ctx, id)
		if err != nil {
			s.logger.Warn("post comment count failed", zap.String("post_id", id), zap.Error(err))
			commentCount = 0
		}
		_, liked := likedSet[id]
		views[i] = models.PostView{
			Post:          posts[i],
			LikeCount:     likeCounts[id],
			LikedByViewer: liked,
			CommentCount:  commentCount,
		}
	}
	return views, nil
}
