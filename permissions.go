package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// IsOwner reports whether the authenticated caller is the user targetID.
// An absent context is never an owner.
func IsOwner(ac *AuthContext, targetID int64) bool {
	if ac == nil || ac.Identity == nil {
		return false
	}
	return ac.Identity.ID() == targetID
}

// IsLoggedOut reports whether no identity was resolved for the request
func IsLoggedOut(ac *AuthContext) bool {
	return ac == nil
}

// HandlerFunc is a fiber handler that receives the verified caller
// explicitly. ac is nil for unauthenticated callers on routes that allow them.
type HandlerFunc func(c *fiber.Ctx, ac *AuthContext) error

// Guard composes the verifier and the predicates into fiber handlers.
// Denials are returned as errors for the app error handler to render:
// ErrUnauthenticated (401) or ErrForbidden (403).
type Guard struct {
	verifier *Verifier
	logger   Logger
}

func NewGuard(verifier *Verifier) *Guard {
	return &Guard{
		verifier: verifier,
		logger:   defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	g.logger = normalizeLogger(logger)
	return g
}

// Optional verifies the caller but lets anonymous requests through
func (g *Guard) Optional(next HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, _ := g.verifier.VerifyRequest(c)
		return next(c, ac)
	}
}

// RequireAuth rejects anonymous callers with ErrUnauthenticated
func (g *Guard) RequireAuth(next HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := g.verifier.VerifyRequest(c)
		if !ok {
			return ErrUnauthenticated
		}
		return next(c, ac)
	}
}

// OnlyOwner lets the request through only when the caller is the user
// whose id is in the route param.
func (g *Guard) OnlyOwner(param string, next HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := g.verifier.VerifyRequest(c)
		if !ok {
			return ErrUnauthenticated
		}

		targetID, err := strconv.ParseInt(c.Params(param), 10, 64)
		if err != nil {
			return fiber.ErrNotFound
		}

		if !IsOwner(ac, targetID) {
			g.logger.Info("owner check denied", "caller", ac.UserID(), "target", targetID)
			return ErrForbidden
		}

		return next(c, ac)
	}
}

// OnlyLoggedOut rejects authenticated callers with ErrForbidden
func (g *Guard) OnlyLoggedOut(next HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, _ := g.verifier.VerifyRequest(c)
		if !IsLoggedOut(ac) {
			g.logger.Info("logged out check denied", "caller", ac.UserID())
			return ErrForbidden
		}
		return next(c, nil)
	}
}
