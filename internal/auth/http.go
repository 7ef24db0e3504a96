package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RouteAuthenticator glues the Authenticator and TokenService to the
// HTTP layer: it turns credentials into a session cookie and back out.
type RouteAuthenticator struct {
	auth           *Authenticator
	tokens         *TokenService
	cookieName     string
	cookieDuration time.Duration
	Logger         Logger
}

// NewRouteAuthenticator returns the HTTP session plumbing.
func NewRouteAuthenticator(auther *Authenticator, tokens *TokenService, cfg Config) *RouteAuthenticator {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &RouteAuthenticator{
		auth:           auther,
		tokens:         tokens,
		cookieName:     cfg.GetCookieName(),
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}
}

// Login authenticates, issues a token, and sets the session cookie.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, email, password string) (*SessionClaims, error) {
	claims, err := a.auth.Authenticate(c.Context(), email, password)
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.Issue(claims)
	if err != nil {
		a.Logger.Error("failed to issue session token", "error", err)
		return nil, err
	}

	a.setCookieToken(c, token)
	return claims, nil
}

// RefreshSession re-derives claims from the store and replaces the
// session cookie, e.g. right after onboarding completes.
func (a *RouteAuthenticator) RefreshSession(c *fiber.Ctx, userID string) (*SessionClaims, error) {
	claims, err := a.auth.Refresh(c.Context(), userID)
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.Issue(claims)
	if err != nil {
		return nil, err
	}

	a.setCookieToken(c, token)
	return claims, nil
}

// Logout clears the session cookie.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cookieName)
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookieName,
		Value:    val,
		Expires:  time.Now().Add(a.cookieDuration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
