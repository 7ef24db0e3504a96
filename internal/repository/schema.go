package repository

import (
	"context"
	"fmt"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/model"
)

// CreateSchema creates the application tables if they do not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*model.User)(nil),
		(*model.Photo)(nil),
		(*model.OnboardingStep)(nil),
	}

	for _, m := range models {
		_, err := db.NewCreateTable().
			Model(m).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

var seedSteps = []*model.OnboardingStep{
	{
		StepNumber:  1,
		Title:       "Welcome to Goldy Locks !",
		Description: "Goldy Locks is the dating app that makes sure things aren't too hot or too cold, thanks to our advanced user ranking system. Im Goldy your personal AI assistant, I'll help you find your perfect match.",
		ImageURL:    "/goldyIntroM.png",
		ImageAlt:    "Introduction to Goldy Locks",
		IsActive:    true,
	},
	{
		StepNumber:  2,
		Title:       "Connecting can be awkward!",
		Description: "You have your first match, but now… what do you say? You don't want to mess up the opportunity of meeting someone great just because you can't put your feelings into words.",
		ImageURL:    "/glv2nervous.png",
		ImageAlt:    "Goldy looking nervous",
		IsActive:    true,
	},
	{
		StepNumber:  3,
		Title:       "Don't worry, Goldy—your personal AI assistant—is here to help!!",
		Description: "Let Goldy scan the match's profile and yours to string together your feelings in a way you may struggle to. Tell Goldy if you want to be flirty, friendly, or just inquisitive, and let it find your words.",
		ImageURL:    "/gLIdea.png",
		ImageAlt:    "Goldy having an idea",
		IsActive:    true,
	},
	{
		StepNumber:  4,
		Title:       "You got this!",
		Description: "Now you can feel confident about expressing your feelings because Goldy always has your back.",
		ImageURL:    "/glv2Confident.png",
		ImageAlt:    "Goldy looking confident",
		IsActive:    true,
	},
}

// Seed loads the onboarding step catalog and a set of demo users. It is
// idempotent: existing data is left alone.
func Seed(ctx context.Context, repos Manager) error {
	count, err := repos.Steps().Count(ctx)
	if err != nil {
		return err
	}

	if count == 0 {
		if err := repos.Steps().ReplaceAll(ctx, seedSteps); err != nil {
			return err
		}
	}

	return seedDemoUsers(ctx, repos.Users())
}

// seedDemoUsers creates 20 browse-only profiles. They populate the
// discovery grid but hold a throwaway hash whose password is never
// stored, so nobody can log in as them.
func seedDemoUsers(ctx context.Context, users Users) error {
	hash := auth.RandomPasswordHash()

	for i := 1; i <= 20; i++ {
		email := fmt.Sprintf("user%d@example.com", i)

		if _, err := users.GetByEmail(ctx, email); err == nil {
			continue
		}

		user := &model.User{
			Email:        email,
			Name:         fmt.Sprintf("User %d", i),
			Bio:          fmt.Sprintf("This is user %d", i),
			PasswordHash: hash,
		}

		// Deterministic IDs keep reseeding stable across runs.
		if id, err := hashid.NewUUID(email); err == nil {
			user.ID = id
		}

		if _, err := users.Register(ctx, user); err != nil {
			return err
		}
	}

	return nil
}
