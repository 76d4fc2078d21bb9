package auth

import (
	"fmt"
	"time"
)

// AuthContext is the result of a successful verification: the identity
// the presented access token is bound to, plus the decoded payload.
// A nil *AuthContext means the caller is unauthenticated.
type AuthContext struct {
	Identity Identity
	Claims   *JWTClaims
}

// UserID returns the authenticated user id, or zero for a nil context
func (a *AuthContext) UserID() int64 {
	if a == nil || a.Identity == nil {
		return 0
	}
	return a.Identity.ID()
}

// ExpiresAt returns when the presented access token stops being valid
func (a *AuthContext) ExpiresAt() time.Time {
	if a == nil || a.Claims == nil {
		return time.Time{}
	}
	return a.Claims.Expires()
}

func (a *AuthContext) String() string {
	if a == nil {
		return "anonymous"
	}

	exp := "<nil>"
	if t := a.ExpiresAt(); !t.IsZero() {
		exp = t.Format(time.RFC1123)
	}

	return fmt.Sprintf("user=%d jti=%s exp=%s", a.UserID(), a.tokenID(), exp)
}

func (a *AuthContext) tokenID() string {
	if a.Claims == nil {
		return ""
	}
	return a.Claims.TokenID()
}
