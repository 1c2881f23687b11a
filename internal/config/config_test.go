package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "catalog:activity", cfg.Redis.ActivityKey)
	assert.Equal(t, int64(500), cfg.Redis.ActivityMax)
	assert.Equal(t, "/uploads", cfg.Uploads.URLPrefix)
	assert.Equal(t, "uploads", filepath.Base(cfg.Uploads.Dir))
	assert.Contains(t, cfg.Uploads.Dir, filepath.Base(dir))
	assert.Equal(t, 18.0, cfg.Pricing.DefaultTaxPercentage)
	assert.NotEmpty(t, cfg.Identity.User)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CATALOG_SERVER_ADDR", ":9090")
	t.Setenv("CATALOG_DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "user:pass@tcp(db:3306)/catalog")
	t.Setenv("CATALOG_PRICING_DEFAULT_TAX_PERCENTAGE", "21")
	t.Setenv("CATALOG_IDENTITY_USER", "alice")
	t.Setenv("CATALOG_REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "user:pass@tcp(db:3306)/catalog", cfg.Database.URL)
	assert.Equal(t, 21.0, cfg.Pricing.DefaultTaxPercentage)
	assert.Equal(t, "alice", cfg.Identity.User)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "server:\n  addr: \":7070\"\nuploads:\n  dir: /var/catalog/images\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/var/catalog/images", cfg.Uploads.Dir)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_PostgresAlias(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CATALOG_DATABASE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Database.Driver)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CATALOG_DATABASE_DRIVER", "sqlite")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
