package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/config"
	"github.com/goldylocks/server/internal/handler"
	"github.com/goldylocks/server/internal/model"
	"github.com/goldylocks/server/internal/repository"
	"github.com/goldylocks/server/internal/storage"
)

type App struct {
	config *config.Config
	logger *zap.SugaredLogger
	bunDB  *bun.DB
	repo   repository.Manager
	auther *auth.RouteAuthenticator
	gate   *auth.Gate
	photos storage.PhotoStore
	srv    *fiber.App
}

func main() {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer base.Sync()

	logger := base.Sugar()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	if cfg.Debug {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev.Sugar()
		}
	}

	app := &App{
		config: cfg,
		logger: logger,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		logger.Fatalw("persistence setup failed", "error", err)
	}

	if err := WithAuth(app); err != nil {
		logger.Fatalw("auth setup failed", "error", err)
	}

	if err := WithHTTPServer(app); err != nil {
		logger.Fatalw("http setup failed", "error", err)
	}

	go func() {
		if err := app.srv.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatalw("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}

	if err := app.bunDB.Close(); err != nil {
		logger.Errorw("db close error", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	db.RegisterModel((*model.User)(nil))
	db.RegisterModel((*model.Photo)(nil))
	db.RegisterModel((*model.OnboardingStep)(nil))

	if err := repository.CreateSchema(ctx, db); err != nil {
		return err
	}

	repo := repository.NewManager(db)
	repo.MustValidate()

	if err := repository.Seed(ctx, repo); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = repo

	return nil
}

// userStoreAdapter narrows the user repository to the credential store
// surface the authenticator consumes.
type userStoreAdapter struct {
	users repository.Users
}

func (a userStoreAdapter) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return a.users.GetByEmail(ctx, email)
}

func (a userStoreAdapter) GetByID(ctx context.Context, id string) (*model.User, error) {
	return a.users.GetByID(ctx, id)
}

func (a userStoreAdapter) TrackFirstLogin(ctx context.Context, user *model.User) error {
	return a.users.TrackFirstLogin(ctx, user)
}

func (a userStoreAdapter) TrackSeen(ctx context.Context, user *model.User) error {
	return a.users.TrackSeen(ctx, user)
}

// zapAdapter exposes the process logger through the narrow interface
// the auth package asks for.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (z zapAdapter) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }
func (z zapAdapter) Info(msg string, args ...any)  { z.s.Infow(msg, args...) }
func (z zapAdapter) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z zapAdapter) Error(msg string, args ...any) { z.s.Errorw(msg, args...) }

func WithAuth(app *App) error {
	tokens, err := auth.NewTokenService(app.config, zapAdapter{s: app.logger.Named("auth:tokens")})
	if err != nil {
		return err
	}

	authenticator := auth.NewAuthenticator(userStoreAdapter{users: app.repo.Users()}).
		WithLogger(zapAdapter{s: app.logger.Named("auth:authn")})

	app.auther = auth.NewRouteAuthenticator(authenticator, tokens, app.config)
	app.auther.Logger = zapAdapter{s: app.logger.Named("auth:http")}

	app.gate = auth.NewGate(tokens, app.config.GetCookieName()).
		WithLogger(zapAdapter{s: app.logger.Named("auth:gate")})

	return nil
}

func WithHTTPServer(app *App) error {
	photos, err := storage.NewLocalPhotoStore(app.config.PublicDir)
	if err != nil {
		return err
	}
	app.photos = photos

	engine := django.New("./views", ".html")
	engine.Reload(app.config.Debug)

	srv := fiber.New(fiber.Config{
		AppName:           "goldylocks",
		PassLocalsToViews: true,
		Views:             engine,
	})

	srv.Static("/public", app.config.PublicDir)
	srv.Static("/uploads", app.config.PublicDir+"/uploads")

	srv.Use(app.gate.Middleware())

	handler.Register(srv, handler.Deps{
		Debug:  app.config.Debug,
		Logger: zapAdapter{s: app.logger.Named("http")},
		Repo:   app.repo,
		Auther: app.auther,
		Photos: app.photos,
	})

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
