package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goldylocks/server/internal/model"
)

// Authenticator validates credentials against the user store and derives
// session claims. It owns the first-login/last-seen bookkeeping: exactly
// one store write per successful authentication, none on failure.
type Authenticator struct {
	store  UserStore
	logger Logger
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(store UserStore) *Authenticator {
	return &Authenticator{
		store:  store,
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = logger
	return a
}

// Authenticate checks email/password and returns fresh session claims.
// Unknown email, passwordless account, and wrong password all return
// ErrInvalidCredentials so responses cannot be used to enumerate
// accounts.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*SessionClaims, error) {
	user, err := a.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during authentication")
	}

	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	firstLogin := user.FirstLoginAt == nil
	if firstLogin {
		// The UPDATE is guarded by first_login_at IS NULL, so a concurrent
		// login racing this read never re-sets the timestamp.
		err = a.store.TrackFirstLogin(ctx, user)
	} else {
		err = a.store.TrackSeen(ctx, user)
	}
	if err != nil {
		// Tracking is bookkeeping, not authorization; a failed write must
		// not fail the login.
		a.logger.Error("failed to track login", "user_id", user.ID.String(), "error", err)
	}

	return a.claimsFor(user, firstLogin), nil
}

// Refresh re-derives claims from the current user record. Used after
// onboarding completes so the gate's next decision reflects the new
// state. Refreshed sessions are never first logins.
func (a *Authenticator) Refresh(ctx context.Context, userID string) (*SessionClaims, error) {
	user, err := a.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return a.claimsFor(user, false), nil
}

func (a *Authenticator) claimsFor(user *model.User, firstLogin bool) *SessionClaims {
	return &SessionClaims{
		UID:        user.ID.String(),
		Email:      user.Email,
		Onboarded:  user.IsOnboarded,
		FirstLogin: firstLogin,
	}
}
