package main

import (
	"fmt"
	"os"
	"time"

	"github.com/de-tools/report-bridge/pkg/server"
	"github.com/de-tools/report-bridge/pkg/services/acquire"
	"github.com/de-tools/report-bridge/pkg/services/config"
	"github.com/de-tools/report-bridge/pkg/services/locator"
	"github.com/de-tools/report-bridge/pkg/services/normalizer"
	reportstore "github.com/de-tools/report-bridge/pkg/store/reports"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Report Bridge web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an optional config file (settings default from the environment)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create downloads dir: %w", err)
	}

	logger.Info().
		Str("downloads_dir", cfg.DownloadsDir).
		Str("scraper_url", cfg.ScraperURL).
		Msg("configuration loaded")

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Locator:    locator.NewExplorer(cfg.DownloadsDir),
			Normalizer: normalizer.New(),
			Acquirer: acquire.NewClient(acquire.Config{
				BaseURL: cfg.ScraperURL,
				Timeout: cfg.ScraperTimeout,
			}),
			Store: reportstore.NewStore(cfg.DownloadsDir),
		},
	})

	return webAPI.Start()
}
