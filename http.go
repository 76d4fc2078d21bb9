package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultAccessCookieName holds "JWT <access token>"
	DefaultAccessCookieName = "Authorization"
	// DefaultRefreshCookieName holds the bare refresh token
	DefaultRefreshCookieName = "refresh"
)

// SessionAttacher writes minted credential pairs into response cookies
// and clears them on logout.
type SessionAttacher struct {
	tokens        *TokenService
	authScheme    string
	accessCookie  string
	refreshCookie string
	secure        bool
	sameSite      string
	logger        Logger
}

func NewSessionAttacher(tokens *TokenService, cfg Config) *SessionAttacher {
	a := &SessionAttacher{
		tokens:        tokens,
		authScheme:    cfg.GetAuthScheme(),
		accessCookie:  cfg.GetAccessCookieName(),
		refreshCookie: cfg.GetRefreshCookieName(),
		secure:        cfg.GetCookieSecure(),
		sameSite:      cfg.GetCookieSameSite(),
		logger:        defLogger{},
	}

	if a.authScheme == "" {
		a.authScheme = "JWT"
	}
	if a.accessCookie == "" {
		a.accessCookie = DefaultAccessCookieName
	}
	if a.refreshCookie == "" {
		a.refreshCookie = DefaultRefreshCookieName
	}
	if a.sameSite == "" {
		a.sameSite = fiber.CookieSameSiteLaxMode
	}

	return a
}

func (a *SessionAttacher) WithLogger(logger Logger) *SessionAttacher {
	a.logger = normalizeLogger(logger)
	return a
}

// Attach mints a pair for identity and writes both cookies. An absent or
// invalid identity leaves the response untouched and is not an error, so
// failed-auth paths can still respond.
func (a *SessionAttacher) Attach(c *fiber.Ctx, identity Identity) error {
	if !validIdentity(identity) {
		a.logger.Debug("attach skipped, no identity")
		return nil
	}

	pair, err := a.tokens.Mint(identity)
	if err != nil {
		a.logger.Error("attach failed to mint credentials", "error", err)
		return err
	}

	a.AttachPair(c, pair)
	return nil
}

// AttachPair writes an already minted pair into the response cookies
func (a *SessionAttacher) AttachPair(c *fiber.Ctx, pair CredentialPair) {
	a.setCookie(c, a.accessCookie, a.authScheme+" "+pair.Access, a.tokens.AccessDuration(), pair.AccessExpiresAt)
	a.setCookie(c, a.refreshCookie, pair.Refresh, a.tokens.RefreshDuration(), pair.RefreshExpiresAt)
}

// Detach expires both cookies. It is safe to call more than once.
func (a *SessionAttacher) Detach(c *fiber.Ctx) {
	a.cookieDel(c, a.accessCookie)
	a.cookieDel(c, a.refreshCookie)
}

// setCookie expires the cookie together with the token it carries
func (a *SessionAttacher) setCookie(c *fiber.Ctx, name, val string, duration time.Duration, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
	})
}

func (a *SessionAttacher) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
	})
}
