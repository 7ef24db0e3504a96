package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) TrackFirstLogin(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) TrackSeen(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// assertUniformMessage verifies the user-facing message never leaks
// which credential check failed.
func assertUniformMessage(t *testing.T, err error) {
	t.Helper()
	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, "Invalid email or password", richErr.Message)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email returns uniform error and writes nothing", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "ghost@example.com").
			Return(nil, repository.NewRecordNotFound()).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "ghost@example.com", "whatever")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assertUniformMessage(t, err)

		store.AssertNotCalled(t, "TrackFirstLogin", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "TrackSeen", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("passwordless account returns uniform error and writes nothing", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "demo@example.com").
			Return(&model.User{ID: uuid.New(), Email: "demo@example.com"}, nil).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "demo@example.com", "whatever")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		store.AssertNotCalled(t, "TrackFirstLogin", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "TrackSeen", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("wrong password returns uniform error and writes nothing", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "goldy@example.com").
			Return(&model.User{
				ID:           uuid.New(),
				Email:        "goldy@example.com",
				PasswordHash: hashOf(t, "correct-password"),
			}, nil).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "goldy@example.com", "wrong-password")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assertUniformMessage(t, err)

		store.AssertNotCalled(t, "TrackFirstLogin", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "TrackSeen", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("first successful login tracks first login", func(t *testing.T) {
		user := &model.User{
			ID:           uuid.New(),
			Email:        "goldy@example.com",
			PasswordHash: hashOf(t, "correct-password"),
			IsOnboarded:  false,
		}

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "goldy@example.com").Return(user, nil).Once()
		store.On("TrackFirstLogin", ctx, user).Return(nil).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "goldy@example.com", "correct-password")

		require.NoError(t, err)
		require.NotNil(t, claims)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, user.Email, claims.Email)
		assert.True(t, claims.FirstLogin)
		assert.True(t, claims.NeedsOnboarding())

		store.AssertNotCalled(t, "TrackSeen", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("repeat login tracks last seen only", func(t *testing.T) {
		seen := time.Now().Add(-time.Hour)
		user := &model.User{
			ID:           uuid.New(),
			Email:        "goldy@example.com",
			PasswordHash: hashOf(t, "correct-password"),
			IsOnboarded:  true,
			FirstLoginAt: &seen,
		}

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "goldy@example.com").Return(user, nil).Once()
		store.On("TrackSeen", ctx, user).Return(nil).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "goldy@example.com", "correct-password")

		require.NoError(t, err)
		require.NotNil(t, claims)
		assert.False(t, claims.FirstLogin)
		assert.True(t, claims.Onboarded)
		assert.False(t, claims.NeedsOnboarding())

		store.AssertNotCalled(t, "TrackFirstLogin", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("tracking failure does not fail the login", func(t *testing.T) {
		user := &model.User{
			ID:           uuid.New(),
			Email:        "goldy@example.com",
			PasswordHash: hashOf(t, "correct-password"),
		}

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "goldy@example.com").Return(user, nil).Once()
		store.On("TrackFirstLogin", ctx, user).Return(errors.New("db is down")).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "goldy@example.com", "correct-password")

		require.NoError(t, err)
		assert.NotNil(t, claims)
		store.AssertExpectations(t)
	})

	t.Run("store failure surfaces as internal error", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "goldy@example.com").
			Return(nil, errors.New("connection refused")).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Authenticate(ctx, "goldy@example.com", "whatever")

		assert.Nil(t, claims)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		store.AssertExpectations(t)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("re-derives claims from the store", func(t *testing.T) {
		id := uuid.New()
		seen := time.Now().Add(-time.Minute)
		user := &model.User{
			ID:           id,
			Email:        "goldy@example.com",
			IsOnboarded:  true,
			FirstLoginAt: &seen,
		}

		store := new(MockUserStore)
		store.On("GetByID", ctx, id.String()).Return(user, nil).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Refresh(ctx, id.String())

		require.NoError(t, err)
		assert.Equal(t, id.String(), claims.UserID())
		assert.True(t, claims.Onboarded)
		assert.False(t, claims.FirstLogin)
		store.AssertExpectations(t)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByID", ctx, "missing").
			Return(nil, repository.NewRecordNotFound()).Once()

		authenticator := auth.NewAuthenticator(store)

		claims, err := authenticator.Refresh(ctx, "missing")

		assert.Nil(t, claims)
		assert.Error(t, err)
		store.AssertExpectations(t)
	})
}
