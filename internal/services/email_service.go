package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/repositories"
)

// Mailer delivers verification mail. Kept behind an interface so the service
// carries no SMTP state of its own.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendTemporaryPassword(ctx context.Context, to, password string) error
}

// EmailVerificationConfig bundles the timing knobs of the verification flow.
type EmailVerificationConfig struct {
	CodeTTL        time.Duration
	SendInterval   time.Duration
	MaxVerifyTries int
	VerifyLockTTL  time.Duration
}

// EmailService issues and checks email verification codes. All state lives
// in the verification store with TTLs; the service itself is stateless.
type EmailService struct {
	store  repositories.VerificationRepository
	mailer Mailer
	cfg    EmailVerificationConfig
	logger *zap.Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(store repositories.VerificationRepository, mailer Mailer, cfg EmailVerificationConfig, logger *zap.Logger) *EmailService {
	return &EmailService{store: store, mailer: mailer, cfg: cfg, logger: logger}
}

// SendVerificationCode generates a fresh 6-digit code, stores it with its
// TTL and mails it. Resending is limited to once per SendInterval.
func (s *EmailService) SendVerificationCode(ctx context.Context, email string) error {
	remaining, err := s.store.SendLimitTTL(ctx, email)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if remaining > 0 {
		return apperrors.ErrSendLimited.WithMessage(
			fmt.Sprintf("verification code was sent recently, retry in %d seconds", int(remaining.Seconds())))
	}

	code, err := generateVerificationCode()
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	if err := s.store.SaveCode(ctx, email, code, s.cfg.CodeTTL); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if err := s.store.MarkSent(ctx, email, s.cfg.SendInterval); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		s.logger.Error("verification mail failed", zap.String("email", email), zap.Error(err))
		return apperrors.ErrEmailSendFailure.Wrap(err)
	}

	s.logger.Info("verification code sent", zap.String("email", email))
	return nil
}

// VerifyCode checks a submitted code. Failures count toward a lock; success
// consumes the code and resets the counter.
func (s *EmailService) VerifyCode(ctx context.Context, email, code string) error {
	attempts, err := s.store.GetAttempts(ctx, email)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if attempts >= int64(s.cfg.MaxVerifyTries) {
		return apperrors.ErrVerifyLocked
	}

	saved, err := s.store.GetCode(ctx, email)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if saved == "" {
		s.recordFailure(ctx, email)
		return apperrors.ErrCodeExpired
	}
	if saved != code {
		s.recordFailure(ctx, email)
		return apperrors.ErrCodeMismatch
	}

	if err := s.store.DeleteCode(ctx, email); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if err := s.store.ResetAttempts(ctx, email); err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}

	s.logger.Info("email verified", zap.String("email", email))
	return nil
}

// CheckCode validates a code without consuming it, so the same code can
// still complete a signup afterwards. Failures still count toward the lock.
func (s *EmailService) CheckCode(ctx context.Context, email, code string) error {
	attempts, err := s.store.GetAttempts(ctx, email)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if attempts >= int64(s.cfg.MaxVerifyTries) {
		return apperrors.ErrVerifyLocked
	}

	saved, err := s.store.GetCode(ctx, email)
	if err != nil {
		return apperrors.ErrInternal.Wrap(err)
	}
	if saved == "" {
		s.recordFailure(ctx, email)
		return apperrors.ErrCodeExpired
	}
	if saved != code {
		s.recordFailure(ctx, email)
		return apperrors.ErrCodeMismatch
	}
	return nil
}

func (s *EmailService) recordFailure(ctx context.Context, email string) {
	if _, err := s.store.IncrementAttempts(ctx, email, s.cfg.VerifyLockTTL); err != nil {
		s.logger.Warn("failed to record verify attempt", zap.String("email", email), zap.Error(err))
	}
}

// generateVerificationCode draws a 6-digit code from crypto/rand.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
