package auth

import (
	"context"
	"fmt"

	"github.com/goldylocks/server/internal/model"
)

// Logger is the minimal logging surface the auth components need.
// cmd/server adapts the process logger to it; defLogger is the fallback.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetCookieName() string
}

// UserStore is the slice of the credential store the authenticator needs.
// TrackFirstLogin and TrackSeen are the only writes a successful login
// performs; failed attempts must not write.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	TrackFirstLogin(ctx context.Context, user *model.User) error
	TrackSeen(ctx context.Context, user *model.User) error
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	if len(args) > 0 {
		msg = msg + " " + fmt.Sprintln(args...)
	} else {
		msg += "\n"
	}
	fmt.Printf("[%s] AUTH %s", level, msg)
}
