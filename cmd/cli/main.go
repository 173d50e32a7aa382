package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
	"github.com/raman-shres/fba-dashboard/pkg/services/analysis"
	"github.com/raman-shres/fba-dashboard/pkg/services/config"
	"github.com/raman-shres/fba-dashboard/pkg/services/pricing"
	"github.com/raman-shres/fba-dashboard/pkg/store/catalog"
)

var asJSON bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli <items.csv>",
		Short: "Analyze a CSV of asin,cost,price_override rows without the HTTP server",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := analysis.ReadItemsCSV(f)
	if err != nil {
		return err
	}

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: settings.CatalogBaseURL,
		APIKey:  settings.CatalogAPIKey,
		Timeout: settings.CatalogTimeout,
	})

	// One-shot runs gain nothing from a shared cache; skip Redis entirely.
	analyzer := analysis.NewAnalyzer(catalogClient, analysis.NopCache{}, pricing.DefaultFeeModel(), analysis.Config{
		SimulationRuns: settings.SimulationRuns,
		SimulationBins: settings.SimulationBins,
	})

	resp, err := analyzer.Analyze(ctx, items)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printTable(resp.Data)
	return nil
}

func printTable(results []api.AnalysisResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ASIN\tPRICE\tCOST\tPROFIT/UNIT\tROI\tRISK\tEST SALES/MO\tP5\tP50\tP95")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.4f\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			r.ASIN, r.Price, r.Cost, r.ProfitPerUnit, r.ROI, r.RiskBand,
			r.EstMonthlySales, r.Sim.P5, r.Sim.P50, r.Sim.P95)
	}
	w.Flush()
}
