package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/report-bridge/pkg/models/domain"
	"github.com/de-tools/report-bridge/pkg/services/acquire"
	"github.com/de-tools/report-bridge/pkg/services/config"
	"github.com/de-tools/report-bridge/pkg/services/locator"
	"github.com/de-tools/report-bridge/pkg/services/normalizer"
	reportstore "github.com/de-tools/report-bridge/pkg/store/reports"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	kindFlag string
	outDir   string
	cfgPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "report-bridge",
		Short: "Normalize and fetch portal report exports",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an optional config file")

	normalizeCmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Normalize a downloaded spreadsheet and print the records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runNormalize,
	}
	normalizeCmd.Flags().StringVarP(&kindFlag, "kind", "k", "",
		"Report kind: catalog, stock-detail or shrinkage-sales")
	normalizeCmd.Flags().StringVarP(&outDir, "out", "o", "",
		"Directory to persist the records in as a JSON document")

	fetchCmd := &cobra.Command{
		Use:   "fetch <kind>",
		Short: "Trigger a fresh export run, then normalize and persist it",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}

	showCmd := &cobra.Command{
		Use:   "show <kind>",
		Short: "Print the persisted JSON document for a report kind",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	rootCmd.AddCommand(normalizeCmd, fetchCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	_ = godotenv.Load()
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func runNormalize(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := logger.WithContext(cmd.Context())

	// An empty or unknown kind means no per-column overrides.
	kind, _ := domain.ParseReportKind(kindFlag)

	records, err := normalizer.New().Normalize(ctx, args[0], kind)
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := reportstore.NewStore(outDir).Save(ctx, kind, records); err != nil {
			logger.Warn().Err(err).Msg("persisting records failed; printing them anyway")
		}
	}

	return printRecords(records)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := logger.WithContext(cmd.Context())

	kind, ok := domain.ParseReportKind(args[0])
	if !ok {
		return fmt.Errorf("unknown report kind %q (want one of %v)", args[0], domain.Kinds())
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client := acquire.NewClient(acquire.Config{
		BaseURL: cfg.ScraperURL,
		Timeout: cfg.ScraperTimeout,
	})
	if err := client.Acquire(ctx, kind); err != nil {
		return err
	}

	path, err := locator.NewExplorer(cfg.DownloadsDir).FindLatest(ctx, kind)
	if err != nil {
		return err
	}

	records, err := normalizer.New().Normalize(ctx, path, kind)
	if err != nil {
		return err
	}

	if err := reportstore.NewStore(cfg.DownloadsDir).Save(ctx, kind, records); err != nil {
		logger.Warn().Err(err).Msg("persisting records failed; printing them anyway")
	}

	logger.Info().Int("records", len(records)).Str("path", path).Msg("export normalized")
	return printRecords(records)
}

func runShow(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := logger.WithContext(cmd.Context())

	kind, ok := domain.ParseReportKind(args[0])
	if !ok {
		return fmt.Errorf("unknown report kind %q (want one of %v)", args[0], domain.Kinds())
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	document, err := reportstore.NewStore(cfg.DownloadsDir).Load(ctx, kind)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(document)
	return err
}

func printRecords(records []domain.Record) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
