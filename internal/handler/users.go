package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/repository"
)

// UsersController serves the discovery grid.
type UsersController struct {
	Logger auth.Logger
	Repo   repository.Manager
}

// List returns a page of profiles, most recently online first.
func (u *UsersController) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("perPage", 20)

	users, total, err := u.Repo.Users().ListActive(c.Context(), page, perPage)
	if err != nil {
		u.Logger.Error("user list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
	})
}

// GridPage renders the browse page.
func (u *UsersController) GridPage(c *fiber.Ctx) error {
	claims, _ := auth.ClaimsFromFiber(c)

	users, total, err := u.Repo.Users().ListActive(c.Context(), c.QueryInt("page", 1), 20)
	if err != nil {
		u.Logger.Error("user grid failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"message": "Failed to fetch users",
		})
	}

	return c.Render("users", fiber.Map{
		"users":   users,
		"total":   total,
		"session": claims,
	})
}
