package model

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OnboardingStep is one screen of the mandatory onboarding flow.
// Steps are served ordered by StepNumber; inactive steps are hidden.
type OnboardingStep struct {
	bun.BaseModel `bun:"table:onboarding_steps,alias:obs"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	StepNumber  int       `bun:"step_number,notnull" json:"step_number"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	ImageURL    string    `bun:"image_url" json:"image_url,omitempty"`
	ImageAlt    string    `bun:"image_alt" json:"image_alt,omitempty"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"-"`
}
