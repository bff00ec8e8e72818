package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxarifado/catalogo/internal/catalog/remote"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	// envconfig only applies defaults to unset variables.
	t.Setenv("CATALOG_API_URL", "")
	require.NoError(t, os.Unsetenv("CATALOG_API_URL"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.CatalogAPIURL)
	assert.Equal(t, 10*time.Second, cfg.CatalogAPITimeout)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 5, cfg.WorkerConcurrency)
	assert.Equal(t, ":9091", cfg.WorkerMetricsAddr)
	assert.Equal(t, remote.QueryByField, cfg.QueryMode())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_API_URL", "https://catalogo.example.com")
	t.Setenv("CATALOG_QUERY_MODE", "search")
	t.Setenv("CATALOG_CACHE_TTL", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, remote.QueryBySearch, cfg.QueryMode())
	assert.Zero(t, cfg.CatalogCacheTTL)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown query mode": {"CATALOG_QUERY_MODE": "graphql"},
		"relative api url":   {"CATALOG_API_URL": "/api"},
		"zero rate limit":    {"RATE_LIMIT_PER_MINUTE": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}
