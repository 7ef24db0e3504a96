package handler_test

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/handler"
	"github.com/goldylocks/server/internal/model"
	"github.com/goldylocks/server/internal/repository"
)

type stubAuthConfig struct{}

func (stubAuthConfig) GetSigningKey() string   { return "test-signing-key" }
func (stubAuthConfig) GetTokenExpiration() int { return 1 }
func (stubAuthConfig) GetIssuer() string       { return "goldylocks-test" }
func (stubAuthConfig) GetAudience() []string   { return []string{"goldylocks:test"} }
func (stubAuthConfig) GetCookieName() string   { return "session" }

// testUserStore narrows the generic repository to the credential store
// surface, mirroring the adapter the server wiring uses.
type testUserStore struct {
	users repository.Users
}

func (s testUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s testUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s testUserStore) TrackFirstLogin(ctx context.Context, user *model.User) error {
	return s.users.TrackFirstLogin(ctx, user)
}

func (s testUserStore) TrackSeen(ctx context.Context, user *model.User) error {
	return s.users.TrackSeen(ctx, user)
}

func setupHandlerDB(t *testing.T) (*bun.DB, repository.Manager) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	require.NoError(t, repository.CreateSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	return db, repository.NewManager(db)
}

func newTestAuther(t *testing.T, repos repository.Manager) *auth.RouteAuthenticator {
	t.Helper()

	tokens, err := auth.NewTokenService(stubAuthConfig{}, nopLogger{})
	require.NoError(t, err)

	auther := auth.NewAuthenticator(testUserStore{users: repos.Users()})
	return auth.NewRouteAuthenticator(auther, tokens, stubAuthConfig{})
}

func TestLoginPostUniformFailureMessage(t *testing.T) {
	ctx := context.Background()
	_, repos := setupHandlerDB(t)

	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	_, err = repos.Users().Register(ctx, &model.User{
		Email:        "goldy@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	ctrl := &handler.AuthController{
		Logger: nopLogger{},
		Repo:   repos,
		Auther: newTestAuther(t, repos),
	}

	app := fiber.New()
	app.Post("/api/auth/login", ctrl.LoginPost)

	attempt := func(email, password string) (*http.Response, string) {
		t.Helper()

		body := strings.NewReader(`{"email":"` + email + `","password":"` + password + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.Header.Set("Content-Type", "application/json")

		res, err := app.Test(req)
		require.NoError(t, err)

		raw, err := io.ReadAll(res.Body)
		require.NoError(t, err)

		return res, string(raw)
	}

	wrongRes, wrongBody := attempt("goldy@example.com", "wrong-password")
	unknownRes, unknownBody := attempt("nobody@example.com", "whatever1")

	assert.Equal(t, http.StatusUnauthorized, wrongRes.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownRes.StatusCode)

	assert.Contains(t, wrongBody, "Invalid email or password")

	// A wrong password and an unknown account must be indistinguishable
	// on the wire, so the response can't be used to enumerate emails.
	assert.Equal(t, wrongBody, unknownBody)

	// No session material leaks on failure.
	assert.Empty(t, wrongRes.Cookies())
	assert.Empty(t, unknownRes.Cookies())
}

func TestLoginPostSetsSessionCookie(t *testing.T) {
	ctx := context.Background()
	_, repos := setupHandlerDB(t)

	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)

	_, err = repos.Users().Register(ctx, &model.User{
		Email:        "goldy@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	ctrl := &handler.AuthController{
		Logger: nopLogger{},
		Repo:   repos,
		Auther: newTestAuther(t, repos),
	}

	app := fiber.New()
	app.Post("/api/auth/login", ctrl.LoginPost)

	body := strings.NewReader(`{"email":"goldy@example.com","password":"right-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	// A never-onboarded account lands on the carousel.
	assert.Contains(t, string(raw), "/onboarding")

	var session *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == "session" {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
}
