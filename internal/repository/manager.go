package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Manager exposes all repositories.
type Manager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Photos() Photos
	Steps() OnboardingSteps
}

type mngr struct {
	db     *bun.DB
	users  Users
	photos Photos
	steps  OnboardingSteps
}

// NewManager builds all repositories over a single bun.DB.
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:     db,
		users:  NewUsersRepository(db),
		photos: NewPhotosRepository(db),
		steps:  NewOnboardingStepsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.photos == nil {
		return errors.New("repository photos should be initialized")
	}

	if m.steps == nil {
		return errors.New("repository steps should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Photos() Photos {
	return m.photos
}

func (m mngr) Steps() OnboardingSteps {
	return m.steps
}
