package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/models"
)

// Function-backed repository stubs. Unset functions panic, which points the
// failing test straight at the call it did not expect.

type stubLikeRepo struct {
	createLikeFn         func(ctx context.Context, like *models.Like) error
	deleteLikeFn         func(ctx context.Context, targetID string, targetType models.TargetType, username string) (int64, error)
	hasUserLikedFn       func(ctx context.Context, targetID string, targetType models.TargetType, username string) (bool, error)
	countByTargetFn      func(ctx context.Context, targetID string, targetType models.TargetType) (int64, error)
	deleteByTargetFn     func(ctx context.Context, targetID string, targetType models.TargetType) (int64, error)
	findLikedTargetIDsFn func(ctx context.Context, targetIDs []string, targetType models.TargetType, username string) ([]string, error)
}

func (s *stubLikeRepo) CreateLike(ctx context.Context, like *models.Like) error {
	return s.createLikeFn(ctx, like)
}

func (s *stubLikeRepo) DeleteLike(ctx context.Context, targetID string, targetType models.TargetType, username string) (int64, error) {
	return s.deleteLikeFn(ctx, targetID, targetType, username)
}

func (s *stubLikeRepo) HasUserLiked(ctx context.Context, targetID string, targetType models.TargetType, username string) (bool, error) {
	return s.hasUserLikedFn(ctx, targetID, targetType, username)
}

func (s *stubLikeRepo) CountByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error) {
	return s.countByTargetFn(ctx, targetID, targetType)
}

func (s *stubLikeRepo) DeleteByTarget(ctx context.Context, targetID string, targetType models.TargetType) (int64, error) {
	return s.deleteByTargetFn(ctx, targetID, targetType)
}

func (s *stubLikeRepo) FindLikedTargetIDs(ctx context.Context, targetIDs []string, targetType models.TargetType, username string) ([]string, error) {
	return s.findLikedTargetIDsFn(ctx, targetIDs, targetType, username)
}

type stubCommentRepo struct {
	createCommentFn        func(ctx context.Context, comment *models.Comment) error
	getActiveCommentByIDFn func(ctx context.Context, id string) (*models.Comment, error)
	updateCommentFn        func(ctx context.Context, comment *models.Comment) error
	findRootCommentsFn     func(ctx context.Context, postID string, page, size int, sort models.CommentSortType) ([]models.Comment, int64, error)
	findRepliesFn          func(ctx context.Context, postID, parentCommentID string, page, size int) ([]models.Comment, int64, error)
	findActiveRepliesFn    func(ctx context.Context, parentCommentID string) ([]models.Comment, error)
	findAllActiveByPostFn  func(ctx context.Context, postID string) ([]models.Comment, error)
	findTopRepliesFn       func(ctx context.Context, postID, parentCommentID string, limit int64) ([]models.Comment, error)
	findCommentsByAuthorFn func(ctx context.Context, author string, page, size int) ([]models.Comment, int64, error)
	countByPostFn          func(ctx context.Context, postID string) (int64, error)
	countRepliesFn         func(ctx context.Context, postID, parentCommentID string) (int64, error)
	countCommentsByAuthorFn func(ctx context.Context, author string) (int64, error)
}

func (s *stubCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.createCommentFn(ctx, comment)
}

func (s *stubCommentRepo) GetActiveCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getActiveCommentByIDFn(ctx, id)
}

func (s *stubCommentRepo) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return s.updateCommentFn(ctx, comment)
}

func (s *stubCommentRepo) FindRootComments(ctx context.Context, postID string, page, size int, sort models.CommentSortType) ([]models.Comment, int64, error) {
	return s.findRootCommentsFn(ctx, postID, page, size, sort)
}

func (s *stubCommentRepo) FindReplies(ctx context.Context, postID, parentCommentID string, page, size int) ([]models.Comment, int64, error) {
	return s.findRepliesFn(ctx, postID, parentCommentID, page, size)
}

func (s *stubCommentRepo) FindActiveReplies(ctx context.Context, parentCommentID string) ([]models.Comment, error) {
	return s.findActiveRepliesFn(ctx, parentCommentID)
}

func (s *stubCommentRepo) FindAllActiveByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.findAllActiveByPostFn(ctx, postID)
}

func (s *stubCommentRepo) FindTopReplies(ctx context.Context, postID, parentCommentID string, limit int64) ([]models.Comment, error) {
	return s.findTopRepliesFn(ctx, postID, parentCommentID, limit)
}

func (s *stubCommentRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func (s *stubCommentRepo) CountReplies(ctx context.Context, postID, parentCommentID string) (int64, error) {
	return s.countRepliesFn(ctx, postID, parentCommentID)
}

func (s *stubCommentRepo) FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Comment, int64, error) {
	return s.findCommentsByAuthorFn(ctx, author, page, size)
}

func (s *stubCommentRepo) CountByAuthor(ctx context.Context, author string) (int64, error) {
	return s.countCommentsByAuthorFn(ctx, author)
}

type stubPostRepo struct {
	createPostFn         func(ctx context.Context, post *models.Post) error
	getActivePostByIDFn  func(ctx context.Context, id string) (*models.Post, error)
	updatePostFn         func(ctx context.Context, post *models.Post) error
	incrementViewCountFn func(ctx context.Context, id string) error
	findActivePostsFn    func(ctx context.Context, page, size int) ([]models.Post, int64, error)
	searchPostsFn        func(ctx context.Context, keyword string, page, size int) ([]models.Post, int64, error)
	findTopByViewCountFn func(ctx context.Context, limit int64) ([]models.Post, error)
	findPostsByAuthorFn  func(ctx context.Context, author string, page, size int) ([]models.Post, int64, error)
	countPostsByAuthorFn func(ctx context.Context, author string) (int64, error)
}

func (s *stubPostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	return s.createPostFn(ctx, post)
}

func (s *stubPostRepo) GetActivePostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getActivePostByIDFn(ctx, id)
}

func (s *stubPostRepo) UpdatePost(ctx context.Context, post *models.Post) error {
	return s.updatePostFn(ctx, post)
}

func (s *stubPostRepo) IncrementViewCount(ctx context.Context, id string) error {
	return s.incrementViewCountFn(ctx, id)
}

func (s *stubPostRepo) FindActivePosts(ctx context.Context, page, size int) ([]models.Post, int64, error) {
	return s.findActivePostsFn(ctx, page, size)
}

func (s *stubPostRepo) SearchPosts(ctx context.Context, keyword string, page, size int) ([]models.Post, int64, error) {
	return s.searchPostsFn(ctx, keyword, page, size)
}

func (s *stubPostRepo) FindTopByViewCount(ctx context.Context, limit int64) ([]models.Post, error) {
	return s.findTopByViewCountFn(ctx, limit)
}

func (s *stubPostRepo) FindByAuthor(ctx context.Context, author string, page, size int) ([]models.Post, int64, error) {
	return s.findPostsByAuthorFn(ctx, author, page, size)
}

func (s *stubPostRepo) CountByAuthor(ctx context.Context, author string) (int64, error) {
	return s.countPostsByAuthorFn(ctx, author)
}

type stubUserRepo struct {
	createUserFn            func(ctx context.Context, user *models.User) error
	getByUsernameFn         func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn            func(ctx context.Context, email string) (*models.User, error)
	getByUsernameAndEmailFn func(ctx context.Context, username, email string) (*models.User, error)
	updateUserFn            func(ctx context.Context, user *models.User) error
	existsByUsernameFn      func(ctx context.Context, username string) (bool, error)
	existsByEmailFn         func(ctx context.Context, email string) (bool, error)
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return s.createUserFn(ctx, user)
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserRepo) GetByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	return s.getByUsernameAndEmailFn(ctx, username, email)
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return s.updateUserFn(ctx, user)
}

func (s *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByUsernameFn(ctx, username)
}

func (s *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}

// memoryVerificationStore is an in-memory VerificationRepository. TTLs are
// tracked as absolute deadlines against a controllable clock.
type memoryVerificationStore struct {
	now          func() time.Time
	code         string
	codeExpires  time.Time
	sendDeadline time.Time
	attempts     int64
	lockExpires  time.Time
}

func newMemoryVerificationStore() *memoryVerificationStore {
	return &memoryVerificationStore{now: time.Now}
}

func (m *memoryVerificationStore) SaveCode(_ context.Context, _, code string, ttl time.Duration) error {
	m.code = code
	m.codeExpires = m.now().Add(ttl)
	return nil
}

func (m *memoryVerificationStore) GetCode(_ context.Context, _ string) (string, error) {
	if m.code == "" || m.now().After(m.codeExpires) {
		return "", nil
	}
	return m.code, nil
}

func (m *memoryVerificationStore) DeleteCode(_ context.Context, _ string) error {
	m.code = ""
	return nil
}

func (m *memoryVerificationStore) SendLimitTTL(_ context.Context, _ string) (time.Duration, error) {
	remaining := m.sendDeadline.Sub(m.now())
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (m *memoryVerificationStore) MarkSent(_ context.Context, _ string, ttl time.Duration) error {
	m.sendDeadline = m.now().Add(ttl)
	return nil
}

func (m *memoryVerificationStore) IncrementAttempts(_ context.Context, _ string, lockTTL time.Duration) (int64, error) {
	if m.now().After(m.lockExpires) {
		m.attempts = 0
	}
	m.attempts++
	m.lockExpires = m.now().Add(lockTTL)
	return m.attempts, nil
}

func (m *memoryVerificationStore) GetAttempts(_ context.Context, _ string) (int64, error) {
	if m.now().After(m.lockExpires) {
		return 0, nil
	}
	return m.attempts, nil
}

func (m *memoryVerificationStore) ResetAttempts(_ context.Context, _ string) error {
	m.attempts = 0
	return nil
}

type stubMailer struct {
	sendCodeFn     func(ctx context.Context, to, code string) error
	sendPasswordFn func(ctx context.Context, to, password string) error
}

func (m *stubMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	if m.sendCodeFn == nil {
		return nil
	}
	return m.sendCodeFn(ctx, to, code)
}

func (m *stubMailer) SendTemporaryPassword(ctx context.Context, to, password string) error {
	if m.sendPasswordFn == nil {
		return nil
	}
	return m.sendPasswordFn(ctx, to, password)
}

func testLogger() *zap.Logger { return zap.NewNop() }
