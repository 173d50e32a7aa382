package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raman-shres/fba-dashboard/pkg/server"
	"github.com/raman-shres/fba-dashboard/pkg/services/analysis"
	"github.com/raman-shres/fba-dashboard/pkg/services/config"
	"github.com/raman-shres/fba-dashboard/pkg/services/pricing"
	"github.com/raman-shres/fba-dashboard/pkg/store/catalog"
	"github.com/raman-shres/fba-dashboard/pkg/store/rediscache"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "web",
		Short: "Start the FBA profit analytics API",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	// .env is optional; env vars win either way.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.CatalogAPIKey == "" {
		logger.Warn().Msg("no catalog api key configured; analyses will run without catalog data")
	}

	cache, err := rediscache.New(settings.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to configure result cache: %w", err)
	}
	defer cache.Close()

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: settings.CatalogBaseURL,
		APIKey:  settings.CatalogAPIKey,
		Timeout: settings.CatalogTimeout,
	})

	analyzer := analysis.NewAnalyzer(catalogClient, cache, pricing.DefaultFeeModel(), analysis.Config{
		CacheTTL:       settings.CacheTTL,
		SimulationRuns: settings.SimulationRuns,
		SimulationBins: settings.SimulationBins,
	})

	api := server.NewWebAPI(server.Config{
		Addr:            settings.Addr,
		ShutdownTimeout: settings.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Analysis: analyzer,
			Logger:   logger,
		},
	})

	return api.Start()
}
