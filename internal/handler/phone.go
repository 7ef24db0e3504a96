package handler

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/repository"
)

// PhoneController manages the account phone number.
type PhoneController struct {
	Logger auth.Logger
	Repo   repository.Manager
}

func (p *PhoneController) Show(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := p.Repo.Users().GetByID(c.Context(), id.String())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		p.Logger.Error("phone fetch failed", "user_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch phone number"})
	}

	return c.JSON(fiber.Map{"phone": user.Phone})
}

// PhoneUpdateRequest is the phone edit payload.
type PhoneUpdateRequest struct {
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	CountryCode string `form:"countryCode" json:"countryCode"`
}

// Validate will validate the payload
func (r PhoneUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PhoneNumber, validation.Required),
		validation.Field(&r.CountryCode, validation.Required),
	)
}

// Update validates the number, rejects numbers owned by another account
// with a 409, and stores the E.164 form.
func (p *PhoneController) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	payload := new(PhoneUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone number and country code are required"})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone number and country code are required"})
	}

	raw := strings.TrimSpace(payload.CountryCode) + " " + strings.TrimSpace(payload.PhoneNumber)

	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid phone number"})
	}

	phone := phonenumbers.Format(parsed, phonenumbers.E164)

	if _, err := p.Repo.Users().FindByPhone(c.Context(), phone, id); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This phone number is already registered to another account",
		})
	} else if !goerrors.IsNotFound(err) {
		p.Logger.Error("phone lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update phone number"})
	}

	user, err := p.Repo.Users().UpdatePhone(c.Context(), id, phone)
	if err != nil {
		p.Logger.Error("phone update failed", "user_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update phone number"})
	}

	return c.JSON(fiber.Map{
		"message": "Phone number updated successfully",
		"user": fiber.Map{
			"id":             user.ID,
			"email":          user.Email,
			"name":           user.Name,
			"phone":          user.Phone,
			"last_online_at": user.LastOnlineAt,
		},
	})
}
