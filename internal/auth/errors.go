package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is returned for unknown emails, passwordless
// accounts, and wrong passwords alike. The message is the literal shown
// to users; keeping it uniform prevents account enumeration.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned by the token service for expired sessions.
var ErrTokenExpired = goerrors.New("session token expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers tokens that fail parsing or signature checks.
var ErrTokenMalformed = goerrors.New("invalid session token", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString is the error for empty password input to the hasher.
var ErrNoEmptyString = errors.New("password must not be empty")

// ErrMismatchedHashAndPassword wraps bcrypt's mismatch sentinel.
var ErrMismatchedHashAndPassword = errors.New("hash and password mismatch")

// ErrUnableToFindSession is returned when a request carries no session.
var ErrUnableToFindSession = errors.New("unable to find session")
