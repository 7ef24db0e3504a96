package repository

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goldylocks/server/internal/model"
)

// ProfilePatch carries the editable profile fields. Empty strings clear
// the stored value, matching the profile editor's semantics.
type ProfilePatch struct {
	Bio           string
	JobTitle      string
	Gender        string
	LookingFor    string
	LocationLabel string
}

// Users is the user repository.
type Users interface {
	repository.Repository[*model.User]

	Register(ctx context.Context, user *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetWithPhotos(ctx context.Context, id uuid.UUID) (*model.User, error)

	TrackFirstLogin(ctx context.Context, user *model.User) error
	TrackSeen(ctx context.Context, user *model.User) error
	MarkOnboarded(ctx context.Context, id uuid.UUID) error

	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*model.User, error)
	UpdatePhone(ctx context.Context, id uuid.UUID, phone string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string, excludeID uuid.UUID) (*model.User, error)

	ListActive(ctx context.Context, page, perPage int) ([]*model.User, int, error)
}

type users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the bun-backed user repository.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string { return "email" },
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return a.Repository.Create(ctx, user)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	record := &model.User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetWithPhotos(ctx context.Context, id uuid.UUID) (*model.User, error) {
	record := &model.User{}

	err := a.db.NewSelect().
		Model(record).
		Relation("Photos", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sort_order ASC")
		}).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// TrackFirstLogin stamps first_login_at and last_online_at in a single
// write. The IS NULL guard keeps the invariant that first_login_at is
// set at most once, even when two logins race.
func (a *users) TrackFirstLogin(ctx context.Context, user *model.User) error {
	now := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"first_login_at" = ?,
			"last_online_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."first_login_at" IS NULL
			AND "usr"."deleted_at" IS NULL;
	`, now, now, user.ID).Exec(ctx)

	return err
}

// TrackSeen touches last_online_at only.
func (a *users) TrackSeen(ctx context.Context, user *model.User) error {
	now := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"last_online_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, now, user.ID).Exec(ctx)

	return err
}

// MarkOnboarded flips the onboarding flag. Idempotent: completing an
// already-complete onboarding is a no-op, never an error.
func (a *users) MarkOnboarded(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("is_onboarded = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)

	return err
}

func (a *users) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*model.User, error) {
	_, err := a.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("bio = ?", patch.Bio).
		Set("job_title = ?", patch.JobTitle).
		Set("gender = ?", patch.Gender).
		Set("looking_for = ?", patch.LookingFor).
		Set("location_label = ?", patch.LocationLabel).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.GetWithPhotos(ctx, id)
}

func (a *users) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) (*model.User, error) {
	_, err := a.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("phone_number = ?", phone).
		Set("last_online_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.GetByID(ctx, id.String())
}

// FindByPhone locates the owner of a phone number, excluding the given
// user. Used for the duplicate-number check.
func (a *users) FindByPhone(ctx context.Context, phone string, excludeID uuid.UUID) (*model.User, error) {
	record := &model.User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.phone_number = ?", phone).
		Where("?TableAlias.id != ?", excludeID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"phone": phone})
		}
		return nil, err
	}

	return record, nil
}

// ListActive returns a page of the discovery grid, most recently online
// first, with total count for pagination.
func (a *users) ListActive(ctx context.Context, page, perPage int) ([]*model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 20
	}

	var records []*model.User

	count, err := a.db.NewSelect().
		Model(&records).
		Relation("Photos", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("is_main = ?", true)
		}).
		OrderExpr("?TableAlias.last_online_at IS NULL, ?TableAlias.last_online_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)

	if err != nil {
		return nil, 0, err
	}

	return records, count, nil
}
