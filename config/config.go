package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Shipped defaults that must be overridden before going to production.
const (
	DefaultJWTSecret     = "default_secret_key_change_in_production"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Maps     MapsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `env:"APP_PORT" envDefault:"8080"`
	Env             string        `env:"APP_ENV" envDefault:"development"`
	BaseURL         string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name       string `env:"DB_NAME" envDefault:"safarway"`
	SSLMode    string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"data/safarway.db"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET" envDefault:"default_secret_key_change_in_production"`
	Expiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
}

// AuthConfig selects how logins are checked. "store" verifies against the users
// table, "demo" accepts any non-empty credentials.
type AuthConfig struct {
	Mode      string        `env:"AUTH_MODE" envDefault:"store"`
	DemoDelay time.Duration `env:"AUTH_DEMO_DELAY" envDefault:"500ms"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@safarway.com"`
	Name     string `env:"ADMIN_NAME" envDefault:"SafarWay Admin"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

type MapsConfig struct {
	APIKey     string `env:"GOOGLE_MAPS_API_KEY"`
	GeocodeURL string `env:"GOOGLE_GEOCODE_URL" envDefault:"https://maps.googleapis.com/maps/api/geocode/json"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads an optional .env file and then parses the environment.
func Load(envFiles ...string) (*Config, error) {
	// .env is optional; missing files are not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.Database.Driver)
	}

	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	switch c.Auth.Mode {
	case "store", "demo":
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q (expected store or demo)", c.Auth.Mode)
	}

	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("using the default JWT_SECRET; set JWT_SECRET in .env")
	}
	if c.Admin.Password == DefaultAdminPassword {
		if c.IsProduction() {
			return fmt.Errorf("ADMIN_PASSWORD must be changed in production")
		}
		log.Warn().Msg("using the default ADMIN_PASSWORD")
	}
	return nil
}

// IsProduction reports whether secure cookies and JSON logs should be used.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// PostgresDSN builds the lib/pq connection string.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
