package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/repository"
)

// OnboardingController walks new users through the intro carousel and
// flips the onboarded flag when they finish.
type OnboardingController struct {
	Logger auth.Logger
	Repo   repository.Manager
	Auther *auth.RouteAuthenticator
}

// Steps returns the active step catalog, in order.
func (o *OnboardingController) Steps(c *fiber.Ctx) error {
	steps, err := o.Repo.Steps().ListActive(c.Context())
	if err != nil {
		o.Logger.Error("onboarding steps fetch failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch onboarding steps",
		})
	}

	return c.JSON(steps)
}

// Page renders the carousel at a given step. The cursor clamps to the
// catalog bounds and back navigation disappears on the first card.
func (o *OnboardingController) Page(c *fiber.Ctx) error {
	claims, _ := auth.ClaimsFromFiber(c)

	steps, err := o.Repo.Steps().ListActive(c.Context())
	if err != nil {
		o.Logger.Error("onboarding steps fetch failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"message": "Failed to fetch onboarding steps",
		})
	}

	cursor := c.QueryInt("step", 0)
	if cursor < 0 {
		cursor = 0
	}
	if len(steps) > 0 && cursor > len(steps)-1 {
		cursor = len(steps) - 1
	}

	var current any
	if len(steps) > 0 {
		current = steps[cursor]
	}

	return c.Render("onboarding", fiber.Map{
		"steps":   steps,
		"step":    current,
		"cursor":  cursor,
		"hasPrev": cursor > 0,
		"isLast":  cursor >= len(steps)-1,
		"session": claims,
	})
}

// Complete marks the account onboarded and refreshes the session cookie
// so the very next gate decision already sees the new state.
func (o *OnboardingController) Complete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := o.Repo.Users().MarkOnboarded(c.Context(), id); err != nil {
		// The user still moves on; the flag is retried on their next pass
		// through the flow.
		o.Logger.Error("mark onboarded failed", "user_id", id.String(), "error", err)
	}

	if _, err := o.Auther.RefreshSession(c, id.String()); err != nil {
		o.Logger.Error("session refresh failed", "user_id", id.String(), "error", err)
	}

	if wantsJSON(c) {
		return c.JSON(fiber.Map{"redirect": "/"})
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}
