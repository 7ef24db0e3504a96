package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goldylocks/server/internal/model"
)

// OnboardingSteps is the steps store behind the onboarding flow.
type OnboardingSteps interface {
	ListActive(ctx context.Context) ([]*model.OnboardingStep, error)
	ReplaceAll(ctx context.Context, steps []*model.OnboardingStep) error
	Count(ctx context.Context) (int, error)
}

type onboardingSteps struct {
	db *bun.DB
}

var _ OnboardingSteps = (*onboardingSteps)(nil)

// NewOnboardingStepsRepository creates a new repository.
func NewOnboardingStepsRepository(db *bun.DB) OnboardingSteps {
	return &onboardingSteps{db: db}
}

// ListActive returns the visible steps ordered by step number.
func (r *onboardingSteps) ListActive(ctx context.Context) ([]*model.OnboardingStep, error) {
	var records []*model.OnboardingStep

	err := r.db.NewSelect().
		Model(&records).
		Where("is_active = ?", true).
		Order("step_number ASC").
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return []*model.OnboardingStep{}, nil
		}
		return nil, err
	}

	return records, nil
}

// ReplaceAll swaps the step catalog, used by the seeder.
func (r *onboardingSteps) ReplaceAll(ctx context.Context, steps []*model.OnboardingStep) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.OnboardingStep)(nil)).
			Where("1 = 1").
			Exec(ctx)
		if err != nil {
			return err
		}

		for _, step := range steps {
			if step.ID == uuid.Nil {
				step.ID = uuid.New()
			}
		}

		_, err = tx.NewInsert().Model(&steps).Exec(ctx)
		return err
	})
}

func (r *onboardingSteps) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*model.OnboardingStep)(nil)).
		Count(ctx)
}
