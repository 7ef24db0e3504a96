package handler

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/model"
	"github.com/goldylocks/server/internal/repository"
)

// AuthController serves the login/register pages and the credential API.
type AuthController struct {
	Debug  bool
	Logger auth.Logger
	Repo   repository.Manager
	Auther *auth.RouteAuthenticator
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginShow(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"errors": nil,
		"record": nil,
	})
}

// LoginPost handles credential submission from both the login form and
// the JSON API. Every failure renders the same message so the response
// can't be used to probe which emails exist.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.loginFailure(c, fiber.StatusBadRequest, "Invalid email or password", payload)
	}

	if err := payload.Validate(); err != nil {
		return a.loginFailure(c, fiber.StatusBadRequest, "Invalid email or password", payload)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	claims, err := a.Auther.Login(c, payload.Email, payload.Password)
	if err != nil {
		return a.loginFailure(c, fiber.StatusUnauthorized, "Invalid email or password", payload)
	}

	redirect := "/"
	if claims.NeedsOnboarding() {
		redirect = "/onboarding"
	}

	if wantsJSON(c) {
		return c.JSON(fiber.Map{
			"redirect": redirect,
			"user": fiber.Map{
				"id":    claims.UserID(),
				"email": claims.Email,
			},
		})
	}

	return c.Redirect(redirect, fiber.StatusSeeOther)
}

func (a *AuthController) loginFailure(c *fiber.Ctx, status int, msg string, payload *LoginRequest) error {
	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.Status(status).Render("login", fiber.Map{
		"errors": map[string]string{"authentication": msg},
		"record": fiber.Map{"email": payload.Email},
	})
}

// LogOut clears the session and sends the visitor back to the door.
func (a *AuthController) LogOut(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (a *AuthController) RegistrationShow(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{
		"errors": map[string]string{},
		"record": nil,
	})
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Name     string `form:"name" json:"name"`
	Bio      string `form:"bio" json:"bio"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Name, validation.Length(0, 200)),
		validation.Field(&r.Bio, validation.Length(0, 255)),
	)
}

// SignupPost creates an account. 201 with the new identity on success,
// 409 when the email is taken.
func (a *AuthController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email & password required",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "Email & password required",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if _, err := a.Repo.Users().GetByEmail(c.Context(), payload.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User already exists",
		})
	} else if !goerrors.IsNotFound(err) {
		a.Logger.Error("signup lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		a.Logger.Error("signup hash failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	user := &model.User{
		Email:        payload.Email,
		Name:         payload.Name,
		Bio:          payload.Bio,
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(payload.Email); err == nil {
		user.ID = id
	} else {
		user.ID = uuid.New()
	}

	user, err = a.Repo.Users().Register(c.Context(), user)
	if err != nil {
		a.Logger.Error("signup create failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

// wantsJSON distinguishes fetch calls from form posts.
func wantsJSON(c *fiber.Ctx) bool {
	if c.Is("json") {
		return true
	}
	return c.Accepts("text/html", "application/json") == "application/json"
}
