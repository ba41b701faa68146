package models

import "github.com/golang-jwt/jwt/v4"

// JwtCustomClaims carries the authenticated username inside the token.
type JwtCustomClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
