package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("WELLS_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"WELLS_CONFIG", "HTTP_ADDR", "DATABASE_URL", "PG_DSN", "WELLS_STORAGE", "JWT_SECRET_KEY",
		"AUTH_JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT", "WELLS_ENV", "CORS_ORIGINS", "JWT_TTL",
		"SHUTDOWN_TIMEOUT", "RUN_MIGRATIONS", "ALLOW_ADMIN_SIGNUP", "GR_CLEAN", "GR_SHALE",
		"RHO_MATRIX", "RHO_FLUID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadMemoryFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("WELLS_STORAGE", "memory")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("GR_SHALE", "150")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 150.0, cfg.Calibration.GRShale)
	assert.Equal(t, 20.0, cfg.Calibration.GRClean)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestYAMLThenEnvOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "wells.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9000"
storage: postgres
database_url: postgres://localhost/wells
jwt_secret: from-yaml
token_ttl: 2h
calibration:
  gr_clean: 15
  gr_shale: 110
  rho_matrix: 2.71
  rho_fluid: 1.1
`), 0o600))
	t.Setenv("WELLS_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, "from-yaml", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 2.71, cfg.Calibration.RhoMatrix)
}

func TestDotEnvFileIsRead(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WELLS_STORAGE=memory\nJWT_SECRET_KEY=dotenv\n"), 0o600))
	t.Setenv("WELLS_ENV_FILE", path)
	os.Unsetenv("WELLS_STORAGE")
	os.Unsetenv("JWT_SECRET_KEY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.JWTSecret)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"postgres without url": func(c *Config) { c.DatabaseURL = "" },
		"unknown storage":      func(c *Config) { c.Storage = "sqlite" },
		"missing secret":       func(c *Config) { c.JWTSecret = "" },
		"degenerate gr":        func(c *Config) { c.Calibration.GRShale = c.Calibration.GRClean },
	}
	for name, mutate := range cases {
		cfg := Default()
		cfg.DatabaseURL = "postgres://localhost/wells"
		cfg.JWTSecret = "x"
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestBadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("WELLS_STORAGE", "memory")
	t.Setenv("JWT_SECRET_KEY", "x")
	t.Setenv("JWT_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)
}
