package repository

import (
	"context"
	"database/sql"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goldylocks/server/internal/model"
)

// Photos is the photo repository. Gallery invariants live here: the
// first upload becomes the main photo, only one photo per user is main,
// and deleting the main photo promotes the lowest-ordered survivor.
type Photos interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Photo, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Photo, error)
	Add(ctx context.Context, photo *model.Photo) (*model.Photo, error)
	SetCaptionAndMain(ctx context.Context, photo *model.Photo) (*model.Photo, error)
	Remove(ctx context.Context, photo *model.Photo) error
}

type photos struct {
	db *bun.DB
}

var _ Photos = (*photos)(nil)

// NewPhotosRepository creates a new repository.
func NewPhotosRepository(db *bun.DB) Photos {
	return &photos{db: db}
}

func (r *photos) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Photo, error) {
	var records []*model.Photo

	err := r.db.NewSelect().
		Model(&records).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return []*model.Photo{}, nil
		}
		return nil, err
	}

	return records, nil
}

// GetOwned fetches a photo only when it belongs to the given user, so
// handlers can't be talked into touching someone else's gallery.
func (r *photos) GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Photo, error) {
	record := &model.Photo{}

	err := r.db.NewSelect().
		Model(record).
		Where("id = ?", id).
		Where("user_id = ?", userID).
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

func (r *photos) Add(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*model.Photo)(nil)).
			Where("user_id = ?", photo.UserID).
			Count(ctx)
		if err != nil {
			return err
		}

		photo.SortOrder = count

		if photo.IsMain {
			if err := demoteMainTx(ctx, tx, photo.UserID, photo.ID); err != nil {
				return err
			}
		}

		// First upload is always the main photo.
		photo.IsMain = photo.IsMain || count == 0

		_, err = tx.NewInsert().Model(photo).Exec(ctx)
		return err
	})

	if err != nil {
		return nil, err
	}

	return photo, nil
}

// SetCaptionAndMain persists caption/is_main edits, demoting the other
// photos when this one becomes main.
func (r *photos) SetCaptionAndMain(ctx context.Context, photo *model.Photo) (*model.Photo, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if photo.IsMain {
			if err := demoteMainTx(ctx, tx, photo.UserID, photo.ID); err != nil {
				return err
			}
		}

		_, err := tx.NewUpdate().
			Model(photo).
			Column("caption", "is_main").
			WherePK().
			Exec(ctx)
		return err
	})

	if err != nil {
		return nil, err
	}

	return photo, nil
}

func (r *photos) Remove(ctx context.Context, photo *model.Photo) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.Photo)(nil)).
			Where("id = ?", photo.ID).
			Exec(ctx)
		if err != nil {
			return err
		}

		if !photo.IsMain {
			return nil
		}

		// Promote the lowest-ordered survivor, if any.
		next := &model.Photo{}
		err = tx.NewSelect().
			Model(next).
			Where("user_id = ?", photo.UserID).
			Order("sort_order ASC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return nil
			}
			return err
		}

		_, err = tx.NewUpdate().
			Model((*model.Photo)(nil)).
			Set("is_main = ?", true).
			Where("id = ?", next.ID).
			Exec(ctx)
		return err
	})
}

func demoteMainTx(ctx context.Context, tx bun.Tx, userID, keepID uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model((*model.Photo)(nil)).
		Set("is_main = ?", false).
		Where("user_id = ?", userID).
		Where("id != ?", keepID).
		Exec(ctx)
	return err
}
