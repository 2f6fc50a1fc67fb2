// Package config loads process configuration from defaults, an optional YAML
// file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TranslatorCloud  = "cloud"
	TranslatorGemini = "gemini"
	TranslatorNoop   = "noop"

	FirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

type Config struct {
	AppEnv      string `koanf:"app_env"`
	Port        string `koanf:"port"`
	LogLevel    string `koanf:"log_level"`
	CORSOrigins string `koanf:"cors_origins"`

	// Database
	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	SQLitePath string `koanf:"sqlite_path"`

	// Identity
	FirebaseProjectID string `koanf:"firebase_project_id"`
	AuthJWKSURL       string `koanf:"auth_jwks_url"`
	AuthDevSecret     string `koanf:"auth_dev_secret"`

	// Translation and LLM
	Translator        string `koanf:"translator"`
	TranslateLocation string `koanf:"translate_location"`
	GoogleCredentials string `koanf:"google_application_credentials"`
	GeminiAPIKey      string `koanf:"gemini_api_key"`
	GeminiModel       string `koanf:"gemini_model"`
	TargetLocales     string `koanf:"target_locales"`

	CatalogCacheTTL    time.Duration `koanf:"catalog_cache_ttl"`
	StoreTimeout       time.Duration `koanf:"store_timeout"`
	AITimeout          time.Duration `koanf:"ai_timeout"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute"`
	LogRetentionDays   int           `koanf:"log_retention_days"`

	SentryDSN string `koanf:"sentry_dsn"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		AppEnv:      "development",
		Port:        "8080",
		LogLevel:    "info",
		CORSOrigins: "*",

		DBDriver:   DriverPostgres,
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBName:     "basetopia",
		DBSSLMode:  "disable",
		SQLitePath: "basetopia.db",

		AuthJWKSURL: FirebaseJWKSURL,

		Translator:        TranslatorCloud,
		TranslateLocation: "global",
		GeminiModel:       "gemini-2.0-flash",
		TargetLocales:     "es,ja",

		CatalogCacheTTL:    5 * time.Minute,
		StoreTimeout:       10 * time.Second,
		AITimeout:          60 * time.Second,
		RateLimitPerMinute: 120,
		LogRetentionDays:   30,
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Locales splits TargetLocales into trimmed, non-empty codes.
func (c *Config) Locales() []string {
	var out []string
	for _, l := range strings.Split(c.TargetLocales, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port must not be empty", ErrInvalidConfig)
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("%w: db_host and db_name are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}

	if c.FirebaseProjectID == "" && c.AuthDevSecret == "" {
		return fmt.Errorf("%w: firebase_project_id or auth_dev_secret is required", ErrInvalidConfig)
	}
	if c.IsProduction() && c.AuthDevSecret != "" {
		return fmt.Errorf("%w: auth_dev_secret must not be set in production", ErrInvalidConfig)
	}

	switch c.Translator {
	case TranslatorCloud:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("%w: cloud translator needs firebase_project_id", ErrInvalidConfig)
		}
	case TranslatorGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: gemini translator needs gemini_api_key", ErrInvalidConfig)
		}
	case TranslatorNoop:
	default:
		return fmt.Errorf("%w: unknown translator %q", ErrInvalidConfig, c.Translator)
	}

	if c.StoreTimeout <= 0 || c.AITimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: rate_limit_per_minute must be positive", ErrInvalidConfig)
	}
	return nil
}
