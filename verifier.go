package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-logins/middleware/jwtware"
)

// Verifier resolves the identity behind an inbound access token.
// Every failure collapses into an absent result, it never returns an error.
type Verifier struct {
	tokens     *TokenService
	directory  UserDirectory
	authScheme string
	extractors []jwtware.JWTExtractor
	logger     Logger
}

// NewVerifier builds a Verifier reading tokens as configured by cfg
func NewVerifier(tokens *TokenService, directory UserDirectory, cfg Config) *Verifier {
	scheme := cfg.GetAuthScheme()
	if scheme == "" {
		scheme = jwtware.DefaultAuthScheme
	}

	return &Verifier{
		tokens:     tokens,
		directory:  directory,
		authScheme: scheme,
		extractors: jwtware.GetExtractors(cfg.GetTokenLookup(), scheme),
		logger:     defLogger{},
	}
}

func (v *Verifier) WithLogger(logger Logger) *Verifier {
	v.logger = normalizeLogger(logger)
	return v
}

// Verify authenticates the value of an Authorization header ("JWT <token>").
func (v *Verifier) Verify(ctx context.Context, authorization string) (*AuthContext, bool) {
	raw, err := jwtware.TokenFromScheme(authorization, v.authScheme)
	if err != nil {
		return nil, false
	}
	return v.VerifyToken(ctx, raw)
}

// VerifyRequest runs the configured extractors against the request and
// authenticates the first token found.
func (v *Verifier) VerifyRequest(c *fiber.Ctx) (*AuthContext, bool) {
	raw, err := jwtware.ExtractRawTokenFromContext(c, v.extractors)
	if err != nil || raw == "" {
		return nil, false
	}
	return v.VerifyToken(c.UserContext(), raw)
}

// VerifyToken authenticates a bare access token
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (*AuthContext, bool) {
	claims, err := v.tokens.Validate(raw, TokenTypeAccess)
	if err != nil {
		v.logger.Debug("access token rejected", "error", err, "token", redactToken(raw))
		return nil, false
	}

	user, ok := v.resolve(ctx, claims)
	if !ok {
		return nil, false
	}

	return &AuthContext{
		Identity: NewIdentityFromUser(user),
		Claims:   claims,
	}, true
}

func (v *Verifier) resolve(ctx context.Context, claims *JWTClaims) (*User, bool) {
	user, err := v.directory.FindByID(ctx, claims.UserID())
	if err != nil {
		v.logger.Debug("token subject lookup failed", "sub", claims.Subject(), "error", err)
		return nil, false
	}

	if user == nil || !user.IsActive {
		v.logger.Debug("token subject is not an active user", "sub", claims.Subject())
		return nil, false
	}

	return user, true
}
