package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix     = "verify:code:"
	sendKeyPrefix     = "send:limit:"
	attemptsKeyPrefix = "verify:attempts:"
)

// VerificationRepository stores email verification state: issued codes,
// resend limits and failed-attempt counters. Everything expires on its own
// via Redis TTLs.
type VerificationRepository interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	SendLimitTTL(ctx context.Context, email string) (time.Duration, error)
	MarkSent(ctx context.Context, email string, ttl time.Duration) error
	IncrementAttempts(ctx context.Context, email string, lockTTL time.Duration) (int64, error)
	GetAttempts(ctx context.Context, email string) (int64, error)
	ResetAttempts(ctx context.Context, email string) error
}

// RedisVerificationRepository implements VerificationRepository on Redis.
type RedisVerificationRepository struct {
	client *redis.Client
}

// NewRedisVerificationRepository creates a new RedisVerificationRepository.
func NewRedisVerificationRepository(client *redis.Client) *RedisVerificationRepository {
	return &RedisVerificationRepository{client: client}
}

// SaveCode stores a code under the email with an expiry.
func (r *RedisVerificationRepository) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.client.Set(ctx, codeKeyPrefix+email, code, ttl).Err()
}

// GetCode returns the stored code, or "" when it expired or was never set.
func (r *RedisVerificationRepository) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, codeKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

// DeleteCode removes the code after a successful verification.
func (r *RedisVerificationRepository) DeleteCode(ctx context.Context, email string) error {
	return r.client.Del(ctx, codeKeyPrefix+email).Err()
}

// SendLimitTTL returns the remaining cooldown, 0 when sending is allowed.
func (r *RedisVerificationRepository) SendLimitTTL(ctx context.Context, email string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, sendKeyPrefix+email).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// MarkSent records a send so the cooldown starts.
func (r *RedisVerificationRepository) MarkSent(ctx context.Context, email string, ttl time.Duration) error {
	return r.client.Set(ctx, sendKeyPrefix+email, time.Now().Format(time.RFC3339), ttl).Err()
}

// IncrementAttempts bumps the failed-attempt counter and refreshes its TTL
// so the lock window slides with the latest failure.
func (r *RedisVerificationRepository) IncrementAttempts(ctx context.Context, email string, lockTTL time.Duration) (int64, error) {
	key := attemptsKeyPrefix + email
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if err := r.client.Expire(ctx, key, lockTTL).Err(); err != nil {
		return count, err
	}
	return count, nil
}

// GetAttempts returns the current failed-attempt count.
func (r *RedisVerificationRepository) GetAttempts(ctx context.Context, email string) (int64, error) {
	count, err := r.client.Get(ctx, attemptsKeyPrefix+email).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// ResetAttempts clears the counter after a successful verification.
func (r *RedisVerificationRepository) ResetAttempts(ctx context.Context, email string) error {
	return r.client.Del(ctx, attemptsKeyPrefix+email).Err()
}
