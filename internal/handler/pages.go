package handler

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/repository"
)

// PagesController renders the signed-in pages that are not owned by a
// more specific controller.
type PagesController struct {
	Logger auth.Logger
	Repo   repository.Manager
}

// Home is the landing page after login.
func (p *PagesController) Home(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Redirect("/login", fiber.StatusFound)
	}

	user, err := p.Repo.Users().GetWithPhotos(c.Context(), id)
	if err != nil && !goerrors.IsNotFound(err) {
		p.Logger.Error("home profile fetch failed", "user_id", id.String(), "error", err)
	}

	return c.Render("home", fiber.Map{
		"session":    claims,
		"user":       user,
		"firstLogin": claims.FirstLogin,
	})
}

// MyNumber renders the phone editor page.
func (p *PagesController) MyNumber(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusFound)
	}

	var phone string
	if id, err := claims.UserUUID(); err == nil {
		if user, err := p.Repo.Users().GetByID(c.Context(), id.String()); err == nil {
			phone = user.Phone
		}
	}

	return c.Render("my_number", fiber.Map{
		"session": claims,
		"phone":   phone,
	})
}
