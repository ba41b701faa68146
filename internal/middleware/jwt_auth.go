package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studyboard/backend/internal/apperrors"
	"github.com/studyboard/backend/internal/services"
)

// UsernameKey is the echo context key holding the authenticated username.
const UsernameKey = "username"

// JWTAuth rejects requests without a valid bearer token and stores the
// authenticated username in the request context.
func JWTAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			claims, err := auth.ParseToken(token)
			if err != nil {
				return err
			}
			c.Set(UsernameKey, claims.Username)
			return next(c)
		}
	}
}

// OptionalJWTAuth extracts the username when a valid token is present and
// lets anonymous requests through. Read endpoints use it so views can be
// personalized without requiring login.
func OptionalJWTAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return next(c)
			}
			claims, err := auth.ParseToken(token)
			if err != nil {
				// A present but bad token is rejected, not ignored.
				return err
			}
			c.Set(UsernameKey, claims.Username)
			return next(c)
		}
	}
}

// Username returns the authenticated username, empty for anonymous requests.
func Username(c echo.Context) string {
	if username, ok := c.Get(UsernameKey).(string); ok {
		return username
	}
	return ""
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperrors.ErrUnauthorized.WithMessage("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperrors.ErrUnauthorized.WithMessage("invalid Authorization header format")
	}
	return parts[1], nil
}
