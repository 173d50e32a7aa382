package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings holds everything the service needs at startup. Values come from
// FBA_-prefixed environment variables (optionally via a .env file loaded in
// main) with the defaults below.
type Settings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	RedisURL string        `mapstructure:"redis_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	CatalogBaseURL string        `mapstructure:"catalog_base_url"`
	CatalogAPIKey  string        `mapstructure:"catalog_api_key"`
	CatalogTimeout time.Duration `mapstructure:"catalog_timeout"`

	SimulationRuns int `mapstructure:"simulation_runs"`
	SimulationBins int `mapstructure:"simulation_bins"`
}

func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("FBA")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8000")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache_ttl", 300*time.Second)
	v.SetDefault("catalog_base_url", "https://api.keepa.com")
	v.SetDefault("catalog_api_key", "")
	v.SetDefault("catalog_timeout", 30*time.Second)
	v.SetDefault("simulation_runs", 10_000)
	v.SetDefault("simulation_bins", 40)

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &settings, nil
}
