package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the subject a credential pair is bound to
type Identity interface {
	ID() int64
	Username() string
	Email() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetAccessTokenDuration() time.Duration
	GetRefreshTokenDuration() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
	GetTokenLookup() string
	GetAccessCookieName() string
	GetRefreshCookieName() string
	GetCookieSecure() bool
	GetCookieSameSite() string
}

// UserDirectory is the identity store the core reads from and writes to.
// Implementations own retries and field uniqueness.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, username, email, password string) (*User, error)
	ApplyUpdate(ctx context.Context, user *User, fields UserUpdate) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// PasswordVerifier checks a cleartext password against a stored hash
type PasswordVerifier interface {
	Check(password, hash string) bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
