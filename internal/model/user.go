package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Gender is a self-described gender identity.
type Gender = string

const (
	GenderMan       Gender = "MAN"
	GenderWoman     Gender = "WOMAN"
	GenderNonBinary Gender = "NON_BINARY"
)

// LookingFor describes who a user wants to be matched with.
type LookingFor = string

const (
	LookingForMen       LookingFor = "MEN"
	LookingForWomen     LookingFor = "WOMEN"
	LookingForNonBinary LookingFor = "NON_BINARY_PEOPLE"
	LookingForEveryone  LookingFor = "EVERYONE"
)

// User is the account model. PasswordHash may be empty for accounts
// provisioned without a password; those can never authenticate.
// FirstLoginAt is written at most once, on the first successful login.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,unique,nullzero" json:"username,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	IsOnboarded   bool       `bun:"is_onboarded,notnull,default:false" json:"is_onboarded"`
	FirstLoginAt  *time.Time `bun:"first_login_at,nullzero" json:"first_login_at,omitempty"`
	LastOnlineAt  *time.Time `bun:"last_online_at,nullzero" json:"last_online_at,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	JobTitle      string     `bun:"job_title" json:"job_title,omitempty"`
	Gender        Gender     `bun:"gender,nullzero" json:"gender,omitempty"`
	LookingFor    LookingFor `bun:"looking_for,nullzero" json:"looking_for,omitempty"`
	LocationLabel string     `bun:"location_label" json:"location_label,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Birthdate     *time.Time `bun:"birthdate,nullzero" json:"birthdate,omitempty"`
	Photos        []*Photo   `bun:"rel:has-many,join:id=user_id" json:"photos,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ValidGender reports whether the value is one of the known identities.
// Empty is allowed, the profile field is optional.
func ValidGender(v string) bool {
	switch v {
	case "", GenderMan, GenderWoman, GenderNonBinary:
		return true
	}
	return false
}

// ValidLookingFor reports whether the value is a known preference.
func ValidLookingFor(v string) bool {
	switch v {
	case "", LookingForMen, LookingForWomen, LookingForNonBinary, LookingForEveryone:
		return true
	}
	return false
}
