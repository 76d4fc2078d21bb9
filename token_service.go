package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTokenDuration is the lifetime of an access token
	DefaultAccessTokenDuration = 30 * time.Minute
	// DefaultRefreshTokenDuration is the lifetime of a refresh token
	DefaultRefreshTokenDuration = 14 * 24 * time.Hour
)

// TokenService mints and validates HS256 credential pairs
type TokenService struct {
	signingKey      []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	defaults        tokenDefaults
	now             func() time.Time
	logger          Logger
}

// TokenServiceOption customizes a TokenService
type TokenServiceOption func(*TokenService)

// WithClock overrides the time source used to stamp and check tokens
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger used by the service
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		ts.logger = normalizeLogger(logger)
	}
}

// NewTokenService creates a new TokenService from the auth configuration
func NewTokenService(cfg Config, opts ...TokenServiceOption) *TokenService {
	access := cfg.GetAccessTokenDuration()
	if access <= 0 {
		access = DefaultAccessTokenDuration
	}

	refresh := cfg.GetRefreshTokenDuration()
	if refresh <= 0 {
		refresh = DefaultRefreshTokenDuration
	}

	ts := &TokenService{
		signingKey:      []byte(cfg.GetSigningKey()),
		accessDuration:  access,
		refreshDuration: refresh,
		defaults: tokenDefaults{
			issuer:   cfg.GetIssuer(),
			audience: jwt.ClaimStrings(cfg.GetAudience()),
		},
		now:    time.Now,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// AccessDuration is the lifetime applied to access tokens
func (ts *TokenService) AccessDuration() time.Duration {
	return ts.accessDuration
}

// RefreshDuration is the lifetime applied to refresh tokens
func (ts *TokenService) RefreshDuration() time.Duration {
	return ts.refreshDuration
}

// Mint issues a new access/refresh pair bound to identity.
// It returns ErrIssuance when the identity is absent or has no id.
func (ts *TokenService) Mint(identity Identity) (CredentialPair, error) {
	if !validIdentity(identity) {
		return CredentialPair{}, ErrIssuance
	}

	now := ts.now()

	access := ts.defaults.newClaims(identity, TokenTypeAccess, now, ts.accessDuration)
	refresh := ts.defaults.newClaims(identity, TokenTypeRefresh, now, ts.refreshDuration)

	accessToken, err := ts.SignClaims(access)
	if err != nil {
		return CredentialPair{}, err
	}

	refreshToken, err := ts.SignClaims(refresh)
	if err != nil {
		return CredentialPair{}, err
	}

	return CredentialPair{
		Access:           accessToken,
		Refresh:          refreshToken,
		AccessExpiresAt:  access.Expires(),
		RefreshExpiresAt: refresh.Expires(),
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	if len(ts.signingKey) == 0 {
		return "", errors.Wrap(ErrIssuance, errors.CategoryInternal, "signing key is not configured").
			WithTextCode(TextCodeIssuanceFailed).
			WithCode(errors.CodeInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT").
			WithTextCode(TextCodeIssuanceFailed).
			WithCode(errors.CodeInternal)
	}

	return signedString, nil
}

// Validate parses a token string, checks signature, expiry, issuer,
// audience, and that the token is of the expected type. When audiences are
// configured the token must name at least one of them.
func (ts *TokenService) Validate(tokenString string, expected TokenType) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.defaults.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.defaults.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		ts.logger.Debug("token validation failed", "error", err)
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if !ts.defaults.acceptsAudience(claims.Audience) {
		ts.logger.Debug("token audience rejected", "aud", claims.Audience)
		return nil, ErrTokenMalformed
	}

	if claims.Type != expected {
		return nil, ErrTokenType
	}

	if claims.UserID() <= 0 {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
