// Package config loads the server configuration from a yaml file and
// the environment.
package config

import (
	"net"
	"os"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root server configuration.
// Values are resolved in order: explicit path, CONFIG_PATH, ./local.yaml,
// then environment only. Environment variables always override the file.
type Config struct {
	Env   string     `yaml:"env" env:"ENV" env-default:"local"`
	Debug bool       `yaml:"debug" env:"DEBUG" env-default:"false"`
	HTTP  HTTPConfig `yaml:"http"`
	DB    DBConfig   `yaml:"db"`
	Auth  AuthConfig `yaml:"auth"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns host:port
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

type DBConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-default:"file:logins.db?cache=shared"`
}

// AuthConfig holds token and cookie settings
type AuthConfig struct {
	SigningKey           string        `yaml:"signing_key" env:"AUTH_SIGNING_KEY" env-required:"true"`
	AccessTokenDuration  time.Duration `yaml:"access_token_duration" env:"AUTH_ACCESS_TOKEN_DURATION" env-default:"30m"`
	RefreshTokenDuration time.Duration `yaml:"refresh_token_duration" env:"AUTH_REFRESH_TOKEN_DURATION" env-default:"336h"`
	Issuer               string        `yaml:"issuer" env:"AUTH_ISSUER"`
	Audience             []string      `yaml:"audience" env:"AUTH_AUDIENCE"`
	AuthScheme           string        `yaml:"auth_scheme" env:"AUTH_SCHEME" env-default:"JWT"`
	TokenLookup          string        `yaml:"token_lookup" env:"AUTH_TOKEN_LOOKUP" env-default:"header:Authorization"`
	AccessCookieName     string        `yaml:"access_cookie_name" env:"AUTH_ACCESS_COOKIE" env-default:"Authorization"`
	RefreshCookieName    string        `yaml:"refresh_cookie_name" env:"AUTH_REFRESH_COOKIE" env-default:"refresh"`
	CookieSecure         bool          `yaml:"cookie_secure" env:"AUTH_COOKIE_SECURE" env-default:"false"`
	CookieSameSite       string        `yaml:"cookie_same_site" env:"AUTH_COOKIE_SAME_SITE" env-default:"Lax"`
}

func (a AuthConfig) GetSigningKey() string                  { return a.SigningKey }
func (a AuthConfig) GetAccessTokenDuration() time.Duration  { return a.AccessTokenDuration }
func (a AuthConfig) GetRefreshTokenDuration() time.Duration { return a.RefreshTokenDuration }
func (a AuthConfig) GetIssuer() string                      { return a.Issuer }
func (a AuthConfig) GetAudience() []string                  { return a.Audience }
func (a AuthConfig) GetAuthScheme() string                  { return a.AuthScheme }
func (a AuthConfig) GetTokenLookup() string                 { return a.TokenLookup }
func (a AuthConfig) GetAccessCookieName() string            { return a.AccessCookieName }
func (a AuthConfig) GetRefreshCookieName() string           { return a.RefreshCookieName }
func (a AuthConfig) GetCookieSecure() bool                  { return a.CookieSecure }
func (a AuthConfig) GetCookieSameSite() string              { return a.CookieSameSite }

// MustLoad calls Load and panics on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration. See Config for the lookup order.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "config file not found").
				WithMetadata(map[string]any{"path": path})
		}

		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config").
				WithMetadata(map[string]any{"path": path})
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config from env")
	}

	return &cfg, nil
}
