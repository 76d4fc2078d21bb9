package auth_test

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-logins"
)

// MockDirectory implements auth.UserDirectory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *MockDirectory) Create(ctx context.Context, username, email, password string) (*auth.User, error) {
	args := m.Called(ctx, username, email, password)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *MockDirectory) ApplyUpdate(ctx context.Context, user *auth.User, fields auth.UserUpdate) (*auth.User, error) {
	args := m.Called(ctx, user, fields)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *MockDirectory) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]*auth.User)
	return u, args.Error(1)
}

// MockPasswordVerifier implements auth.PasswordVerifier
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Check(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

// MockConfig implements auth.Config
type MockConfig struct {
	SigningKey      string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
	Issuer          string
	Audience        []string
	TokenLookup     string
}

func (c MockConfig) GetSigningKey() string                  { return c.SigningKey }
func (c MockConfig) GetAccessTokenDuration() time.Duration  { return c.AccessDuration }
func (c MockConfig) GetRefreshTokenDuration() time.Duration { return c.RefreshDuration }
func (c MockConfig) GetIssuer() string                      { return c.Issuer }
func (c MockConfig) GetAudience() []string                  { return c.Audience }
func (c MockConfig) GetAuthScheme() string                  { return "JWT" }
func (c MockConfig) GetTokenLookup() string                 { return c.TokenLookup }
func (c MockConfig) GetAccessCookieName() string            { return "" }
func (c MockConfig) GetRefreshCookieName() string           { return "" }
func (c MockConfig) GetCookieSecure() bool                  { return false }
func (c MockConfig) GetCookieSameSite() string              { return "" }

func testConfig() MockConfig {
	return MockConfig{
		SigningKey:  "test-signing-key",
		TokenLookup: "header:Authorization",
	}
}

// fixedClock returns a controllable time source
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func testUser(id int64) *auth.User {
	return &auth.User{
		ID:           id,
		UserName:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("user%d@example.com", id),
		PasswordHash: "hash",
		IsActive:     true,
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
