package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldylocks/server/internal/auth"
)

func TestClassify(t *testing.T) {
	classifier := auth.DefaultClassifier()

	tests := []struct {
		path string
		want auth.RouteClass
	}{
		{"/login", auth.RoutePublicAuth},
		{"/register", auth.RoutePublicAuth},
		{"/api/auth/login", auth.RoutePublicAuth},
		{"/api/auth/signup", auth.RoutePublicAuth},
		{"/public/css/app.css", auth.RoutePublicAuth},
		{"/uploads/photos/abc_1.jpg", auth.RoutePublicAuth},
		{"/favicon.ico", auth.RoutePublicAuth},

		{"/onboarding", auth.RouteOnboarding},
		{"/onboarding-two", auth.RouteOnboarding},
		{"/onboarding/extra", auth.RouteOnboarding},
		{"/api/onboarding/complete", auth.RouteOnboarding},
		{"/api/onboarding-steps", auth.RouteOnboarding},

		{"/", auth.RouteProtected},
		{"/users", auth.RouteProtected},
		{"/my-number", auth.RouteProtected},
		{"/api/users", auth.RouteProtected},
		{"/api/user/profile", auth.RouteProtected},
		// Prefix matches are segment aware.
		{"/loginx", auth.RouteProtected},
		{"/registered", auth.RouteProtected},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.path), "path %s", tt.path)
		})
	}
}

func TestDecide(t *testing.T) {
	anonymous := (*auth.SessionClaims)(nil)
	needsOnboarding := &auth.SessionClaims{UID: "u1", Onboarded: false}
	onboarded := &auth.SessionClaims{UID: "u1", Onboarded: true}

	tests := []struct {
		name   string
		class  auth.RouteClass
		claims *auth.SessionClaims
		want   auth.Decision
	}{
		{"anonymous on public auth", auth.RoutePublicAuth, anonymous, auth.Allow},
		{"anonymous on onboarding", auth.RouteOnboarding, anonymous, auth.RedirectLogin},
		{"anonymous on protected", auth.RouteProtected, anonymous, auth.RedirectLogin},

		{"needs onboarding on public auth", auth.RoutePublicAuth, needsOnboarding, auth.Allow},
		{"needs onboarding on onboarding", auth.RouteOnboarding, needsOnboarding, auth.Allow},
		{"needs onboarding on protected", auth.RouteProtected, needsOnboarding, auth.RedirectOnboarding},

		{"onboarded on public auth", auth.RoutePublicAuth, onboarded, auth.Allow},
		{"onboarded on onboarding", auth.RouteOnboarding, onboarded, auth.RedirectHome},
		{"onboarded on protected", auth.RouteProtected, onboarded, auth.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.Decide(tt.class, tt.claims))
		})
	}
}

// Every (class, claims) pair must produce a decision; Decide never
// panics or falls through.
func TestDecideTotal(t *testing.T) {
	classes := []auth.RouteClass{auth.RoutePublicAuth, auth.RouteOnboarding, auth.RouteProtected}
	states := []*auth.SessionClaims{
		nil,
		{UID: "u1", Onboarded: false},
		{UID: "u1", Onboarded: true},
	}

	for _, class := range classes {
		for _, claims := range states {
			decision := auth.Decide(class, claims)
			assert.Contains(t, []auth.Decision{
				auth.Allow,
				auth.RedirectLogin,
				auth.RedirectOnboarding,
				auth.RedirectHome,
			}, decision)
		}
	}
}

func newGateApp(t *testing.T) (*fiber.App, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService(newTestConfig(), nil)
	require.NoError(t, err)

	gate := auth.NewGate(tokens, "session")

	app := fiber.New()
	app.Use(gate.Middleware())

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/login", ok)
	app.Get("/", ok)
	app.Get("/users", ok)
	app.Get("/onboarding", ok)
	app.Post("/api/user/profile", ok)

	return app, tokens
}

func sessionCookie(t *testing.T, tokens *auth.TokenService, onboarded bool) *http.Cookie {
	t.Helper()

	token, err := tokens.Issue(&auth.SessionClaims{
		UID:       "0195d3c1-0000-7000-8000-000000000001",
		Email:     "goldy@example.com",
		Onboarded: onboarded,
	})
	require.NoError(t, err)

	return &http.Cookie{Name: "session", Value: token}
}

func TestGateMiddleware(t *testing.T) {
	t.Run("anonymous visitor reaches login", func(t *testing.T) {
		app, _ := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("anonymous visitor is sent to login from protected pages", func(t *testing.T) {
		app, _ := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		app, _ := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "garbage.token.value"})
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))
	})

	t.Run("fresh account is held inside onboarding", func(t *testing.T) {
		app, tokens := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(sessionCookie(t, tokens, false))
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/onboarding", res.Header.Get("Location"))
	})

	t.Run("fresh account can use onboarding", func(t *testing.T) {
		app, tokens := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/onboarding", nil)
		req.AddCookie(sessionCookie(t, tokens, false))
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("onboarded account cannot re-enter onboarding", func(t *testing.T) {
		app, tokens := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/onboarding", nil)
		req.AddCookie(sessionCookie(t, tokens, true))
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
	})

	t.Run("onboarded account browses freely", func(t *testing.T) {
		app, tokens := newGateApp(t)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(sessionCookie(t, tokens, true))
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("non-GET redirects use 303", func(t *testing.T) {
		app, tokens := newGateApp(t)

		req := httptest.NewRequest(http.MethodPost, "/api/user/profile", nil)
		req.AddCookie(sessionCookie(t, tokens, false))
		res, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/onboarding", res.Header.Get("Location"))
	})
}
