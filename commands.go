package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"caregrid-listings/config"
	"caregrid-listings/external/catalog"
	"caregrid-listings/external/google"
	"caregrid-listings/external/website"
	"caregrid-listings/models"
	"caregrid-listings/services"
	"caregrid-listings/storage"
	"caregrid-listings/utils"
)

// createRunCmd creates the full pipeline command.
func createRunCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	var (
		input      string
		output     string
		publish    bool
		skipEnrich bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, clean, deduplicate, enrich and write clinic listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runPipeline(cmd.Context(), cfg, logger, input, output, publish, skipEnrich); err != nil {
				return fmt.Errorf("processing failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", cfg.InputPath, "input CSV or JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", cfg.OutputDir, "output directory")
	cmd.Flags().BoolVar(&publish, "publish", true, "publish READY listings when API_BASE is set")
	cmd.Flags().BoolVar(&skipEnrich, "skip-enrich", false, "skip geocoding and website checks")
	return cmd
}

// createPublishCmd creates a command that re-publishes a ready file.
func createPublishCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish READY listings from a previously written file",
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := storage.ReadListings(from)
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			logger.Info("Loaded %d listings from %s", len(listings), from)
			result := newPublisher(cfg, logger).Publish(cmd.Context(), listings)
			printPublishResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", filepath.Join(cfg.OutputDir, storage.ReadyFile), "ready listings JSON file")
	return cmd
}

// createCheckEnvCmd creates a command that validates configuration.
func createCheckEnvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Validate environment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Geocoding : %s\n", enabled(cfg.GoogleMapsAPIKey != ""))
			fmt.Printf("Publishing: %s\n", enabled(cfg.PublishEnabled()))
			fmt.Printf("Postgres  : %s\n", enabled(cfg.DatabaseURL != ""))
			fmt.Printf("Website checks: %s mode\n", cfg.ReachabilityMode)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration invalid:\n%w", err)
			}
			fmt.Println("✅ Configuration is valid")
			return nil
		},
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *utils.Logger,
	input, output string, publish, skipEnrich bool) error {

	logger.Info("=== CareGrid Listings Manager starting ===")

	rows, err := storage.LoadRows(input)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	logger.Info("[loader] Loaded %d records from %s", len(rows), input)

	var enricher *services.Enricher
	if !skipEnrich {
		checker, closeChecker := newChecker(cfg, logger)
		defer closeChecker()
		geocoder := google.NewGeocoder(cfg.GeocodeURL, cfg.GoogleMapsAPIKey, cfg.GeocodeTimeout,
			utils.NewThrottle(cfg.GeocodeRateLimitMs))
		enricher = services.NewEnricher(geocoder, checker, cfg.DemoDomains, logger)
	}

	listings, err := services.NewPipeline(enricher, logger).Run(ctx, rows)
	if err != nil {
		return err
	}

	summary, err := storage.NewOutputWriter(output).Write(listings)
	if err != nil {
		return err
	}

	insights := services.NewInsightService(logger)
	report := insights.Generate(len(rows), listings)
	insights.Print(os.Stdout, report)

	logger.Info("[output] Output files written:")
	logger.Info("[output]   %s", summary.AllPath)
	logger.Info("[output]   %s (%d ready records)", summary.ReadyPath, summary.Ready)
	logger.Info("[output]   %s (%d records need review)", summary.ReviewPath, summary.Review)
	if report.FirstReady != nil {
		if preview, err := json.MarshalIndent(report.FirstReady, "", "  "); err == nil {
			logger.Debug("[output] Preview of first ready record:\n%s", preview)
		}
	}

	if cfg.DatabaseURL != "" {
		saveToPostgres(ctx, cfg, logger, listings)
	}

	if publish && summary.Ready > 0 {
		printPublishResult(newPublisher(cfg, logger).Publish(ctx, listings))
	}

	logger.Info("✅ Processing complete!")
	return nil
}

// newChecker picks the reachability checker. A browser that fails to start
// falls back to HEAD requests.
func newChecker(cfg *config.Config, logger *utils.Logger) (services.ReachabilityChecker, func()) {
	if cfg.ReachabilityMode == config.ReachabilityBrowser {
		bc, err := website.NewBrowserChecker(cfg.ChromeBin, cfg.ReachabilityTimeout)
		if err == nil {
			return bc, bc.Close
		}
		logger.Warn("[enricher] Browser checks unavailable (%v), using HEAD requests", err)
	}
	return website.NewHeadChecker(cfg.ReachabilityTimeout), func() {}
}

func newPublisher(cfg *config.Config, logger *utils.Logger) *services.Publisher {
	if !cfg.PublishEnabled() {
		return services.NewPublisher(nil, logger)
	}
	return services.NewPublisher(catalog.NewClient(cfg.APIBase, cfg.APIToken, cfg.PublishTimeout), logger)
}

func saveToPostgres(ctx context.Context, cfg *config.Config, logger *utils.Logger, listings []*models.Listing) {
	pg, err := storage.NewPostgresWriter(ctx, cfg.DatabaseURL, cfg.DBConnectRetries, logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		return
	}
	defer pg.Close()

	if err := pg.Save(ctx, listings); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Listings stored in PostgreSQL (table: clinics)")
}

func printPublishResult(r *models.PublishResult) {
	fmt.Printf("\nPublished: %d\n", r.Published)
	fmt.Printf("Failed: %d\n", r.Failed)
	fmt.Printf("Skipped: %d\n", r.Skipped)
	if len(r.Failures) > 0 {
		fmt.Println("\n❌ Failed records:")
		for _, f := range r.Failures {
			fmt.Printf("  - %s: %s\n", f.Record, f.Error)
		}
	}
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
