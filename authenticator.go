package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates password logins and refresh-token exchanges
type Auther struct {
	provider     *UserProvider
	directory    UserDirectory
	tokens       *TokenService
	activitySink ActivitySink
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(directory UserDirectory, passwords PasswordVerifier, tokens *TokenService) *Auther {
	return &Auther{
		provider:     NewUserProvider(directory, passwords),
		directory:    directory,
		tokens:       tokens,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger)
	s.provider.WithLogger(logger)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Login checks email and password and returns the matching user
func (s *Auther) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", "email", redactEmail(email), "error", err)
		s.emit(ctx, ActivityEventLoginFailure, 0, map[string]any{
			"email": redactEmail(email),
			"error": err.Error(),
		})
		return nil, err
	}

	s.emit(ctx, ActivityEventLoginSuccess, user.ID, nil)
	return user, nil
}

// Obtain logs in and mints a credential pair in one step
func (s *Auther) Obtain(ctx context.Context, email, password string) (CredentialPair, error) {
	user, err := s.Login(ctx, email, password)
	if err != nil {
		return CredentialPair{}, err
	}
	return s.tokens.Mint(NewIdentityFromUser(user))
}

// Refresh exchanges a valid refresh token for a brand new pair. The old
// tokens are not touched, they simply expire.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (CredentialPair, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenTypeRefresh)
	if err != nil {
		s.logger.Debug("refresh token rejected", "error", err, "token", redactToken(refreshToken))
		return CredentialPair{}, err
	}

	user, err := s.directory.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return CredentialPair{}, ErrUnauthenticated
		}
		return CredentialPair{}, err
	}

	if user == nil || !user.IsActive {
		return CredentialPair{}, ErrUnauthenticated
	}

	pair, err := s.tokens.Mint(NewIdentityFromUser(user))
	if err != nil {
		return CredentialPair{}, err
	}

	s.emit(ctx, ActivityEventTokenRefresh, user.ID, map[string]any{
		"jti": claims.TokenID(),
	})

	return pair, nil
}

// CheckToken validates a token of either type, signature and expiry only
func (s *Auther) CheckToken(raw string) error {
	_, err := s.tokens.Validate(raw, TokenTypeAccess)
	if errors.Is(err, ErrTokenType) {
		_, err = s.tokens.Validate(raw, TokenTypeRefresh)
	}
	return err
}

func (s *Auther) emit(ctx context.Context, eventType ActivityEventType, userID int64, metadata map[string]any) {
	emitActivity(ctx, s.activitySink, s.logger, eventType, userID, metadata)
}
