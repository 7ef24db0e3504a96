package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/repository"
	"github.com/goldylocks/server/internal/storage"
)

// Deps bundles what the controllers need.
type Deps struct {
	Debug  bool
	Logger auth.Logger
	Repo   repository.Manager
	Auther *auth.RouteAuthenticator
	Photos storage.PhotoStore
}

// Register wires every route. The access gate middleware runs before
// any of these, so page handlers can trust the session claims stored on
// the request; API handlers still carry their own 401 guard.
func Register(app *fiber.App, deps Deps) {
	authCtrl := &AuthController{
		Debug:  deps.Debug,
		Logger: deps.Logger,
		Repo:   deps.Repo,
		Auther: deps.Auther,
	}
	pages := &PagesController{Logger: deps.Logger, Repo: deps.Repo}
	profile := &ProfileController{Logger: deps.Logger, Repo: deps.Repo}
	photos := &PhotosController{Logger: deps.Logger, Repo: deps.Repo, Store: deps.Photos}
	phone := &PhoneController{Logger: deps.Logger, Repo: deps.Repo}
	users := &UsersController{Logger: deps.Logger, Repo: deps.Repo}
	onboarding := &OnboardingController{Logger: deps.Logger, Repo: deps.Repo, Auther: deps.Auther}

	app.Get("/login", authCtrl.LoginShow).Name("sign-in.get")
	app.Post("/login", authCtrl.LoginPost).Name("sign-in.post")
	app.Get("/register", authCtrl.RegistrationShow).Name("register.get")
	app.Post("/register", authCtrl.SignupPost).Name("register.post")
	app.Get("/logout", authCtrl.LogOut).Name("sign-out.get")

	app.Get("/", pages.Home).Name("home.get")
	app.Get("/users", users.GridPage).Name("users.get")
	app.Get("/my-number", pages.MyNumber).Name("my-number.get")
	app.Get("/onboarding", onboarding.Page).Name("onboarding.get")

	api := app.Group("/api")

	api.Post("/auth/login", authCtrl.LoginPost).Name("api.sign-in")
	api.Post("/auth/signup", authCtrl.SignupPost).Name("api.sign-up")

	api.Get("/onboarding-steps", onboarding.Steps).Name("api.onboarding-steps")

	// Everything registered from here on requires a session.
	api.Use(auth.RequireSession())

	api.Post("/onboarding/complete", onboarding.Complete).Name("api.onboarding-complete")

	api.Get("/users", users.List).Name("api.users")

	api.Get("/user/profile", profile.Show).Name("api.profile.get")
	api.Put("/user/profile", profile.Update).Name("api.profile.put")

	api.Get("/user/phone", phone.Show).Name("api.phone.get")
	api.Put("/user/phone", phone.Update).Name("api.phone.put")

	api.Post("/user/photos", photos.Upload).Name("api.photos.post")
	api.Put("/user/photos", photos.Update).Name("api.photos.put")
	api.Delete("/user/photos", photos.Delete).Name("api.photos.delete")
}
