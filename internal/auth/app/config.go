package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/kelseyhightower/envconfig"
)

// Database drivers selectable with AUTH_DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the runtime configuration, read from the environment.
type Config struct {
	Issuer         string `envconfig:"AUTH_ISSUER" default:"conduit-auth"`
	BootstrapToken string `envconfig:"BOOTSTRAP_TOKEN"` // empty disables bootstrap

	Algorithm       string        `envconfig:"AUTH_ALGORITHM" default:"HS256"`
	SecretKey       string        `envconfig:"AUTH_SECRET_KEY"` // HS256 only; generated when empty
	NumKeys         int           `envconfig:"AUTH_NUM_KEYS" default:"1"`
	AccessTokenTTL  time.Duration `envconfig:"AUTH_ACCESS_TOKEN_TTL" default:"5m"`
	RefreshTokenTTL time.Duration `envconfig:"AUTH_REFRESH_TOKEN_TTL" default:"1440h"`
	ClockLeeway     time.Duration `envconfig:"AUTH_CLOCK_LEEWAY" default:"0s"`

	DatabaseDriver string `envconfig:"AUTH_DATABASE_DRIVER" default:"sqlite"`
	DatabaseFile   string `envconfig:"AUTH_DATABASE_FILE" default:"auth.db"`
	DatabaseURL    string `envconfig:"AUTH_DATABASE_URL"`
	PepperFile     string `envconfig:"AUTH_PEPPER_FILE" default:"pepper"`

	Env                 string        `envconfig:"ENV" default:"dev"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat           string        `envconfig:"LOG_FORMAT" default:"json"`
	Port                int           `envconfig:"PORT" default:"8080"`
	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`
}

// LoadConfig reads Config from the environment and checks it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.Algorithm {
	case jwtx.AlgorithmHS256:
		if c.SecretKey == "" && c.IsProduction() {
			return errors.New("AUTH_SECRET_KEY is required for HS256 in production")
		}
		if c.SecretKey != "" && len(c.SecretKey) < jwtx.MinHS256SecretSize {
			return fmt.Errorf("AUTH_SECRET_KEY must be at least %d bytes", jwtx.MinHS256SecretSize)
		}
	case jwtx.AlgorithmEdDSA:
	default:
		return fmt.Errorf("unsupported AUTH_ALGORITHM %q (supported: HS256, EdDSA)", c.Algorithm)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return errors.New("AUTH_DATABASE_FILE is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("AUTH_DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported AUTH_DATABASE_DRIVER %q (supported: sqlite, postgres)", c.DatabaseDriver)
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.AccessTokenTTL > c.RefreshTokenTTL {
		return errors.New("AUTH_ACCESS_TOKEN_TTL must not exceed AUTH_REFRESH_TOKEN_TTL")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}
