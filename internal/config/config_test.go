package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, 5, cfg.Retrieval.MaxResults)
	assert.Equal(t, 3, cfg.Retrieval.ProductTopK)
	assert.Equal(t, 0.3, cfg.Resolver.ConfidenceThreshold)
	assert.Equal(t, 5.0, cfg.Resolver.FallbackThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8086, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
cache:
  driver: redis
retrieval:
  max_results: 7
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 7, cfg.Retrieval.MaxResults)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KE_SERVER_PORT", "7070")
	t.Setenv("KE_CACHE_DRIVER", "redis")
	t.Setenv("KE_CACHE_TTL", "5m")
	t.Setenv("KE_LLM_MODEL", "openai/gpt-4o")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "openai/gpt-4o", cfg.LLM.Model)
}

func TestValidate_UnknownCacheDriver(t *testing.T) {
	cfg := Default()
	cfg.Cache.Driver = "memcached"
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadThreshold(t *testing.T) {
	cfg := Default()
	cfg.Resolver.ConfidenceThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "mysql://localhost/foo"
	assert.Error(t, cfg.Validate())
}
