package models

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserDisabled UserStatus = "DISABLED"
)

// User is an account row in PostgreSQL. The password column holds a bcrypt
// hash, never the plaintext.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Username    string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password    string     `json:"-" gorm:"size:100;not null"`
	Status      UserStatus `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserStats carries per-user activity counts for the my-page dashboard.
type UserStats struct {
	Username     string `json:"username"`
	PostCount    int64  `json:"post_count"`
	CommentCount int64  `json:"comment_count"`
}

// SignupRequest defines the request body for registration. Signup is gated
// on a previously issued email verification code.
type SignupRequest struct {
	Username         string `json:"username" validate:"required,min=4,max=20,alphanum"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=64"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

// LoginRequest defines the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// SendCodeRequest defines the request body for issuing a verification code.
type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest defines the request body for checking a code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// FindUsernameRequest recovers a username by verified email.
type FindUsernameRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

// FindUsernameResponse returns the partially masked username.
type FindUsernameResponse struct {
	MaskedUsername string `json:"masked_username"`
}

// ResetPasswordRequest issues a temporary password to a verified email.
type ResetPasswordRequest struct {
	Username         string `json:"username" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}
