package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes the two halves of a credential pair
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JWTClaims is the payload carried by both access and refresh tokens
type JWTClaims struct {
	jwt.RegisteredClaims
	UID  int64     `json:"uid,omitempty"`
	Type TokenType `json:"token_type,omitempty"`
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the bound user id, falling back to the subject claim
func (c *JWTClaims) UserID() int64 {
	if c.UID != 0 {
		return c.UID
	}
	id, err := strconv.ParseInt(c.Subject(), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// TokenID returns the jti claim
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
