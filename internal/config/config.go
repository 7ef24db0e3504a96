package config

import (
	"fmt"
	"os"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Config carries the process configuration, loaded from the environment
// with optional .env support.
type Config struct {
	Port            string
	DSN             string
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	CookieName      string
	PublicDir       string
	Debug           bool
}

// Load reads the environment. JWT_SECRET is the only hard requirement;
// everything else has a development default.
func Load() (*Config, error) {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		DSN:             getEnv("DATABASE_DSN", "file:goldylocks.db?cache=shared&_pragma=foreign_keys(1)"),
		SigningKey:      os.Getenv("JWT_SECRET"),
		TokenExpiration: getEnvInt("TOKEN_EXPIRATION_HOURS", 24),
		Issuer:          getEnv("JWT_ISSUER", "goldylocks"),
		CookieName:      getEnv("SESSION_COOKIE", "session"),
		PublicDir:       getEnv("PUBLIC_DIR", "public"),
		Debug:           getEnvBool("DEBUG", false),
	}

	cfg.Audience = []string{getEnv("JWT_AUDIENCE", "goldylocks:web")}

	if cfg.SigningKey == "" {
		return nil, goerrors.New("JWT_SECRET is required", goerrors.CategoryValidation).
			WithTextCode("CONFIG_MISSING_SECRET")
	}

	return cfg, nil
}

// HTTPAddress returns the listen address for the HTTP server.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) GetSigningKey() string   { return c.SigningKey }
func (c *Config) GetTokenExpiration() int { return c.TokenExpiration }
func (c *Config) GetIssuer() string       { return c.Issuer }
func (c *Config) GetAudience() []string   { return c.Audience }
func (c *Config) GetCookieName() string   { return c.CookieName }

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
