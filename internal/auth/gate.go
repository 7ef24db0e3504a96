package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RouteClass is the static classification of a request path. Every path
// maps to exactly one class.
type RouteClass int

const (
	// RoutePublicAuth covers login/register pages, the auth API, and
	// static assets. Always reachable, authenticated or not.
	RoutePublicAuth RouteClass = iota
	// RouteOnboarding covers the onboarding pages and their API.
	RouteOnboarding
	// RouteProtected is everything else.
	RouteProtected
)

func (rc RouteClass) String() string {
	switch rc {
	case RoutePublicAuth:
		return "public-auth"
	case RouteOnboarding:
		return "onboarding"
	default:
		return "protected"
	}
}

// Decision is the gate's verdict for a single request.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectOnboarding
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectOnboarding:
		return "redirect-onboarding"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Classifier buckets paths by prefix. Prefix matching mirrors the
// original route matcher: /onboarding-two is still onboarding, /loginx
// is not login because matches are segment aware.
type Classifier struct {
	publicAuth []string
	onboarding []string
}

// DefaultClassifier returns the classifier for the application's route
// table.
func DefaultClassifier() Classifier {
	return Classifier{
		publicAuth: []string{
			"/login",
			"/register",
			"/api/auth",
			"/public",
			"/uploads",
			"/favicon.ico",
		},
		onboarding: []string{
			"/onboarding",
			"/api/onboarding",
		},
	}
}

// NewClassifier builds a classifier from explicit prefix lists.
func NewClassifier(publicAuth, onboarding []string) Classifier {
	return Classifier{publicAuth: publicAuth, onboarding: onboarding}
}

// Classify maps a request path to its route class.
func (c Classifier) Classify(path string) RouteClass {
	if matchesPrefix(path, c.publicAuth) {
		return RoutePublicAuth
	}
	if matchesPrefix(path, c.onboarding) {
		return RouteOnboarding
	}
	return RouteProtected
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix {
			return true
		}
		if strings.HasPrefix(path, prefix) {
			rest := path[len(prefix):]
			// Segment boundary, or a suffixed page like /onboarding-two.
			if rest[0] == '/' || rest[0] == '-' || rest[0] == '.' || rest[0] == '?' {
				return true
			}
		}
	}
	return false
}

// Decide is the access decision function. It is pure and total: every
// (class, claims) pair maps to exactly one Decision. Rules are evaluated
// in fixed priority order, first match wins:
//
//  1. public-auth routes are always allowed, even for valid sessions
//  2. no valid session: redirect to login
//  3. session needs onboarding and the route is not onboarding:
//     redirect to onboarding
//  4. session is onboarded and the route is onboarding: redirect home
//  5. allow
//
// A nil claims value is the anonymous state; an invalid token must be
// degraded to nil by the caller before reaching here.
func Decide(class RouteClass, claims *SessionClaims) Decision {
	if class == RoutePublicAuth {
		return Allow
	}

	if claims == nil {
		return RedirectLogin
	}

	if claims.NeedsOnboarding() && class != RouteOnboarding {
		return RedirectOnboarding
	}

	if !claims.NeedsOnboarding() && class == RouteOnboarding {
		return RedirectHome
	}

	return Allow
}

// GateRoutes are the redirect targets for each non-allow decision.
type GateRoutes struct {
	Login      string
	Onboarding string
	Home       string
}

// DefaultGateRoutes returns the application defaults.
func DefaultGateRoutes() GateRoutes {
	return GateRoutes{
		Login:      "/login",
		Onboarding: "/onboarding",
		Home:       "/",
	}
}

// Gate runs the access decision on every request. It performs no I/O
// beyond verifying the session cookie; a corrupt or expired token is
// indistinguishable from no token.
type Gate struct {
	tokens     *TokenService
	classifier Classifier
	routes     GateRoutes
	cookieName string
	logger     Logger
}

// NewGate builds the gate middleware host.
func NewGate(tokens *TokenService, cookieName string) *Gate {
	return &Gate{
		tokens:     tokens,
		classifier: DefaultClassifier(),
		routes:     DefaultGateRoutes(),
		cookieName: cookieName,
		logger:     defLogger{},
	}
}

func (g *Gate) WithClassifier(c Classifier) *Gate {
	g.classifier = c
	return g
}

func (g *Gate) WithRoutes(r GateRoutes) *Gate {
	g.routes = r
	return g
}

func (g *Gate) WithLogger(l Logger) *Gate {
	g.logger = l
	return g
}

// ClaimsLocalKey is where the middleware stores verified claims for
// downstream handlers.
const ClaimsLocalKey = "session_claims"

// Middleware intercepts every request and applies Decide. Verification
// failures degrade to the anonymous state rather than erroring.
func (g *Gate) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var claims *SessionClaims

		if raw := c.Cookies(g.cookieName); raw != "" {
			verified, err := g.tokens.Validate(raw)
			if err != nil {
				g.logger.Debug("treating invalid session token as anonymous",
					"path", c.Path(), "error", err)
			} else {
				claims = verified
			}
		}

		class := g.classifier.Classify(c.Path())
		decision := Decide(class, claims)

		if claims != nil {
			c.Locals(ClaimsLocalKey, claims)
		}

		switch decision {
		case RedirectLogin:
			return c.Redirect(g.routes.Login, redirectStatus(c))
		case RedirectOnboarding:
			return c.Redirect(g.routes.Onboarding, redirectStatus(c))
		case RedirectHome:
			return c.Redirect(g.routes.Home, redirectStatus(c))
		default:
			return c.Next()
		}
	}
}

func redirectStatus(c *fiber.Ctx) int {
	if c.Method() == fiber.MethodGet {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
