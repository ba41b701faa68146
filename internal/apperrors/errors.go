package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a coded application error. Handlers translate it to an HTTP
// response exactly once, in the central error handler.
type AppError struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// Is matches by code so wrapped and remessaged variants still compare equal
// to their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the sentinel carrying a more specific message.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Status: e.Status, Code: e.Code, Message: message}
}

// Wrap attaches a cause, typically a storage error.
func (e *AppError) Wrap(cause error) *AppError {
	return &AppError{Status: e.Status, Code: e.Code, Message: e.Message, cause: cause}
}

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

var (
	// common
	ErrInternal       = New(http.StatusInternalServerError, "C001", "internal server error")
	ErrInvalidRequest = New(http.StatusBadRequest, "C002", "invalid request")
	ErrUnauthorized   = New(http.StatusUnauthorized, "C003", "authentication required")

	// auth
	ErrInvalidToken       = New(http.StatusUnauthorized, "A001", "invalid token")
	ErrExpiredToken       = New(http.StatusUnauthorized, "A002", "expired token")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "A003", "invalid username or password")

	// user
	ErrUserNotFound      = New(http.StatusNotFound, "U001", "user not found")
	ErrUserDisabled      = New(http.StatusForbidden, "U003", "account is disabled")
	ErrDuplicateUsername = New(http.StatusConflict, "U005", "username already taken")
	ErrDuplicateEmail    = New(http.StatusConflict, "U006", "email already in use")

	// post
	ErrPostNotFound     = New(http.StatusNotFound, "P001", "post not found")
	ErrPostAccessDenied = New(http.StatusForbidden, "P002", "no permission for this post")

	// comment
	ErrCommentNotFound     = New(http.StatusNotFound, "R001", "comment not found")
	ErrCommentAccessDenied = New(http.StatusForbidden, "R002", "no permission for this comment")

	// email verification
	ErrCodeExpired      = New(http.StatusBadRequest, "E001", "verification code expired or missing")
	ErrCodeMismatch     = New(http.StatusBadRequest, "E002", "verification code does not match")
	ErrSendLimited      = New(http.StatusTooManyRequests, "E003", "verification code was sent recently")
	ErrVerifyLocked     = New(http.StatusTooManyRequests, "E004", "too many failed attempts, try again later")
	ErrEmailSendFailure = New(http.StatusInternalServerError, "E005", "failed to send email")
)

// StatusOf extracts the HTTP status for an error, defaulting to 500.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf extracts the application error code, defaulting to the internal
// error code for non-application errors.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrInternal.Code
}

// MessageOf extracts the user-facing message, hiding internals for
// non-application errors.
func MessageOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ErrInternal.Message
}
