package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the authorization-relevant facts embedded in the
// session cookie: identity plus the two flags that drive navigation.
// They are routing hints only, never resource-level permissions.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID        string `json:"uid,omitempty"`
	Email      string `json:"email,omitempty"`
	Onboarded  bool   `json:"onboarded"`
	FirstLogin bool   `json:"first_login,omitempty"`
}

// UserID returns the user ID, falling back to the subject claim.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserUUID parses the user ID as a UUID.
func (c *SessionClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// NeedsOnboarding reports whether the gate must hold this session inside
// the onboarding flow.
func (c *SessionClaims) NeedsOnboarding() bool {
	return !c.Onboarded
}
