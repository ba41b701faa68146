package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyboard/backend/internal/apperrors"
)

func verificationConfig() EmailVerificationConfig {
	return EmailVerificationConfig{
		CodeTTL:        30 * time.Minute,
		SendInterval:   3 * time.Minute,
		MaxVerifyTries: 5,
		VerifyLockTTL:  10 * time.Minute,
	}
}

func TestEmailService_SendVerificationCode(t *testing.T) {
	t.Parallel()

	t.Run("sends a six digit code", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		var mailedTo, mailedCode string
		mailer := &stubMailer{
			sendCodeFn: func(_ context.Context, to, code string) error {
				mailedTo, mailedCode = to, code
				return nil
			},
		}
		svc := NewEmailService(store, mailer, verificationConfig(), testLogger())

		err := svc.SendVerificationCode(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", mailedTo)
		assert.Len(t, mailedCode, 6)

		saved, err := store.GetCode(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, mailedCode, saved)
	})

	t.Run("rejects resend inside the interval", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		require.NoError(t, svc.SendVerificationCode(context.Background(), "a@example.com"))

		err := svc.SendVerificationCode(context.Background(), "a@example.com")
		assert.ErrorIs(t, err, apperrors.ErrSendLimited)
	})

	t.Run("allows resend once the interval has passed", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		current := time.Now()
		store.now = func() time.Time { return current }
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		require.NoError(t, svc.SendVerificationCode(context.Background(), "a@example.com"))

		current = current.Add(3*time.Minute + time.Second)
		assert.NoError(t, svc.SendVerificationCode(context.Background(), "a@example.com"))
	})

	t.Run("mail failure surfaces as send failure", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		mailer := &stubMailer{
			sendCodeFn: func(_ context.Context, _, _ string) error {
				return errors.New("smtp unreachable")
			},
		}
		svc := NewEmailService(store, mailer, verificationConfig(), testLogger())

		err := svc.SendVerificationCode(context.Background(), "a@example.com")
		assert.ErrorIs(t, err, apperrors.ErrEmailSendFailure)
	})
}

func TestEmailService_VerifyCode(t *testing.T) {
	t.Parallel()

	t.Run("consumes the code on success", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		require.NoError(t, svc.VerifyCode(context.Background(), "a@example.com", "123456"))

		// A second verify finds no code left.
		err := svc.VerifyCode(context.Background(), "a@example.com", "123456")
		assert.ErrorIs(t, err, apperrors.ErrCodeExpired)
	})

	t.Run("expired code", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		current := time.Now()
		store.now = func() time.Time { return current }
		require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		current = current.Add(31 * time.Minute)
		err := svc.VerifyCode(context.Background(), "a@example.com", "123456")
		assert.ErrorIs(t, err, apperrors.ErrCodeExpired)
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		err := svc.VerifyCode(context.Background(), "a@example.com", "000000")
		assert.ErrorIs(t, err, apperrors.ErrCodeMismatch)
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		for i := 0; i < 5; i++ {
			err := svc.VerifyCode(context.Background(), "a@example.com", "000000")
			assert.ErrorIs(t, err, apperrors.ErrCodeMismatch)
		}

		// Even the correct code is refused while locked.
		err := svc.VerifyCode(context.Background(), "a@example.com", "123456")
		assert.ErrorIs(t, err, apperrors.ErrVerifyLocked)
	})

	t.Run("success resets the failure counter", func(t *testing.T) {
		t.Parallel()
		store := newMemoryVerificationStore()
		require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
		svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

		for i := 0; i < 4; i++ {
			_ = svc.VerifyCode(context.Background(), "a@example.com", "000000")
		}
		require.NoError(t, svc.VerifyCode(context.Background(), "a@example.com", "123456"))

		attempts, err := store.GetAttempts(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Zero(t, attempts)
	})
}

func TestEmailService_CheckCode(t *testing.T) {
	t.Parallel()

	store := newMemoryVerificationStore()
	require.NoError(t, store.SaveCode(context.Background(), "a@example.com", "123456", 30*time.Minute))
	svc := NewEmailService(store, &stubMailer{}, verificationConfig(), testLogger())

	require.NoError(t, svc.CheckCode(context.Background(), "a@example.com", "123456"))

	// The code survives a check, so signup can still consume it.
	saved, err := store.GetCode(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", saved)
}

func TestGenerateVerificationCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code, err := generateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
