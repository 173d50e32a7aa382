package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", settings.Addr)
	assert.Equal(t, "redis://localhost:6379/0", settings.RedisURL)
	assert.Equal(t, 300*time.Second, settings.CacheTTL)
	assert.Equal(t, "https://api.keepa.com", settings.CatalogBaseURL)
	assert.Empty(t, settings.CatalogAPIKey)
	assert.Equal(t, 30*time.Second, settings.CatalogTimeout)
	assert.Equal(t, 10_000, settings.SimulationRuns)
	assert.Equal(t, 40, settings.SimulationBins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FBA_ADDR", ":9999")
	t.Setenv("FBA_CATALOG_API_KEY", "secret")
	t.Setenv("FBA_CACHE_TTL", "90s")
	t.Setenv("FBA_SIMULATION_RUNS", "2500")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", settings.Addr)
	assert.Equal(t, "secret", settings.CatalogAPIKey)
	assert.Equal(t, 90*time.Second, settings.CacheTTL)
	assert.Equal(t, 2500, settings.SimulationRuns)
}
