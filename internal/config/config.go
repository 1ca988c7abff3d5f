package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the server configuration.
type Config struct {
	HTTPAddr         string                   `yaml:"http_addr"`
	DatabaseURL      string                   `yaml:"database_url"`
	Storage          string                   `yaml:"storage"`
	RunMigrations    bool                     `yaml:"run_migrations"`
	JWTSecret        string                   `yaml:"jwt_secret"`
	TokenTTL         time.Duration            `yaml:"token_ttl"`
	AllowAdminSignup bool                     `yaml:"allow_admin_signup"`
	CORSOrigins      []string                 `yaml:"cors_origins"`
	LogLevel         string                   `yaml:"log_level"`
	LogFormat        string                   `yaml:"log_format"`
	Environment      string                   `yaml:"environment"`
	ShutdownTimeout  time.Duration            `yaml:"shutdown_timeout"`
	AuditMemoryLimit int                      `yaml:"audit_memory_limit"`
	Calibration      petrophysics.Calibration `yaml:"calibration"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:         ":5000",
		Storage:          StoragePostgres,
		RunMigrations:    true,
		TokenTTL:         24 * time.Hour,
		CORSOrigins:      []string{"http://localhost:3000"},
		LogLevel:         "info",
		LogFormat:        "text",
		Environment:      "development",
		ShutdownTimeout:  10 * time.Second,
		AuditMemoryLimit: 1000,
		Calibration:      petrophysics.DefaultCalibration(),
	}
}

// Load reads an optional .env file, then the YAML file named by WELLS_CONFIG,
// then environment overrides.
func Load() (Config, error) {
	if path := getenvDefault("WELLS_ENV_FILE", ".env"); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg := Default()
	if path := os.Getenv("WELLS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabaseURL = getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", cfg.DatabaseURL))
	cfg.Storage = strings.ToLower(getenvDefault("WELLS_STORAGE", cfg.Storage))
	cfg.JWTSecret = getenvDefault("JWT_SECRET_KEY", getenvDefault("AUTH_JWT_SECRET", cfg.JWTSecret))
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Environment = getenvDefault("WELLS_ENV", cfg.Environment)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitCSV(origins)
	}

	var err error
	if cfg.TokenTTL, err = getenvDuration("JWT_TTL", cfg.TokenTTL); err != nil {
		return err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.RunMigrations, err = getenvBool("RUN_MIGRATIONS", cfg.RunMigrations); err != nil {
		return err
	}
	if cfg.AllowAdminSignup, err = getenvBool("ALLOW_ADMIN_SIGNUP", cfg.AllowAdminSignup); err != nil {
		return err
	}
	for key, dst := range map[string]*float64{
		"GR_CLEAN":   &cfg.Calibration.GRClean,
		"GR_SHALE":   &cfg.Calibration.GRShale,
		"RHO_MATRIX": &cfg.Calibration.RhoMatrix,
		"RHO_FLUID":  &cfg.Calibration.RhoFluid,
	} {
		if *dst, err = getenvFloat(key, *dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects incomplete configurations.
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET_KEY is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: token ttl must be positive")
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
