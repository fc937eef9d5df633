package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full application configuration, read from the environment.
type Config struct {
	HTTP    HTTPConfig
	DB      DBConfig
	Session SessionConfig
	Web     WebConfig
	Log     LogConfig
	Admin   AdminConfig
}

// HTTPConfig configures the listener and its timeouts.
type HTTPConfig struct {
	Port         string        `env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// DBConfig selects the database. The URL scheme picks SQLite or PostgreSQL.
type DBConfig struct {
	// URL is a SQLite file path (or ":memory:") or a postgres:// connection string.
	URL string `env:"DATABASE_URL,DB_PATH" env-default:"finance.db"`
}

// SessionConfig configures session lifetime and the backing store.
type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND" env-default:"sql"`
	Duration     time.Duration `env:"SESSION_DURATION" env-default:"720h"`
	SecureCookie bool          `env:"SECURE_COOKIE" env-default:"false"`
	RedisURL     string        `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

// WebConfig locates templates and static assets.
type WebConfig struct {
	TemplateDir string `env:"TEMPLATE_DIR" env-default:"web/templates"`
	StaticDir   string `env:"STATIC_DIR" env-default:"web/static"`
}

// LogConfig sets the log level and output format.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// AdminConfig seeds a user at startup when both fields are set.
type AdminConfig struct {
	User     string `env:"ADMIN_USER"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.HTTP.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.HTTP.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DB.URL) == "" {
		errors = append(errors, "DATABASE_URL cannot be empty")
	}

	switch c.Session.Backend {
	case "sql":
	case "redis":
		if u, err := url.Parse(c.Session.RedisURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid REDIS_URL '%s': %v", c.Session.RedisURL, err))
		} else if u.Scheme != "redis" && u.Scheme != "rediss" {
			errors = append(errors, fmt.Sprintf("invalid REDIS_URL scheme '%s': must be 'redis' or 'rediss'", u.Scheme))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of [sql redis]", c.Session.Backend))
	}

	if c.Session.Duration < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session duration %v: must be at least 1 minute", c.Session.Duration))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.Log.Format))
	}

	if (c.Admin.User == "") != (c.Admin.Password == "") {
		errors = append(errors, "ADMIN_USER and ADMIN_PASSWORD must be set together")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
