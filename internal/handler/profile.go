package handler

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/model"
	"github.com/goldylocks/server/internal/repository"
)

// ProfileController exposes the signed-in user's profile.
type ProfileController struct {
	Logger auth.Logger
	Repo   repository.Manager
}

func (p *ProfileController) Show(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := p.Repo.Users().GetWithPhotos(c.Context(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		p.Logger.Error("profile fetch failed", "user_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// ProfileUpdateRequest carries the editable profile fields. Empty values
// clear what was stored before.
type ProfileUpdateRequest struct {
	Bio           string `form:"bio" json:"bio"`
	JobTitle      string `form:"jobTitle" json:"jobTitle"`
	Gender        string `form:"gender" json:"gender"`
	LookingFor    string `form:"lookingFor" json:"lookingFor"`
	LocationLabel string `form:"locationLabel" json:"locationLabel"`
}

// Validate will validate the payload
func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.Length(0, 255)),
		validation.Field(&r.JobTitle, validation.Length(0, 200)),
		validation.Field(&r.LocationLabel, validation.Length(0, 200)),
		validation.Field(&r.Gender, validation.By(oneOfEnum(model.ValidGender, "gender"))),
		validation.Field(&r.LookingFor, validation.By(oneOfEnum(model.ValidLookingFor, "lookingFor"))),
	)
}

func (p *ProfileController) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	payload := new(ProfileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "Bio must be 255 characters or less",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	patch := repository.ProfilePatch{
		Bio:           strings.TrimSpace(payload.Bio),
		JobTitle:      strings.TrimSpace(payload.JobTitle),
		Gender:        payload.Gender,
		LookingFor:    payload.LookingFor,
		LocationLabel: strings.TrimSpace(payload.LocationLabel),
	}

	user, err := p.Repo.Users().UpdateProfile(c.Context(), id, patch)
	if err != nil {
		p.Logger.Error("profile update failed", "user_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

func oneOfEnum(valid func(string) bool, field string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if !valid(s) {
			return errors.New("must be a valid " + field)
		}
		return nil
	}
}
