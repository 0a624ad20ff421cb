package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollis/finadvisor/internal/analytics"
	"github.com/mhollis/finadvisor/internal/catalog"
	"github.com/mhollis/finadvisor/internal/config"
	"github.com/mhollis/finadvisor/internal/pipeline"
	"github.com/mhollis/finadvisor/internal/recommend"
	"github.com/mhollis/finadvisor/internal/store"
	"github.com/mhollis/finadvisor/internal/trace"
)

var (
	runAsOf    string
	runUsers   []string
	runWorkers int
	runCatalog string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process users and print the recommendation report as JSON",
	Long: `Runs the full decision flow for the selected users: signal extraction
over the 30- and 180-day windows, persona classification, recommendation
selection with guardrails, and an audit trace per user.

Without --user the batch covers every known user. The report is written to
stdout; any per-user failure makes the exit status nonzero while the rest of
the batch still completes.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringVar(&runAsOf, "as-of", "", "Run date in YYYY-MM-DD (default today, UTC)")
	runCmd.Flags().StringArrayVar(&runUsers, "user", nil, "User ID to process (repeatable; default all users)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent workers (default from BATCH_WORKERS)")
	runCmd.Flags().StringVar(&runCatalog, "catalog", "", "Catalog YAML path (default from CATALOG_PATH, else embedded)")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	asOf, err := resolveAsOf(runAsOf)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profiles, err := store.NewPostgresStore(ctx, cfg.Relational.DSN, cfg.Relational.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			logger.Warn("closing profile store failed", zap.Error(err))
		}
	}()

	txns, err := analytics.NewNeo4jStore(ctx, analytics.Options{
		URI:            cfg.Analytics.URI,
		Database:       cfg.Analytics.Database,
		Username:       cfg.Analytics.Username,
		Password:       cfg.Analytics.Password,
		MaxConnections: cfg.Analytics.MaxConnections,
	})
	if err != nil {
		return fmt.Errorf("open analytics store: %w", err)
	}
	defer func() {
		if err := txns.Close(context.Background()); err != nil {
			logger.Warn("closing analytics store failed", zap.Error(err))
		}
	}()

	traces, err := trace.NewMongoWriter(ctx, trace.MongoOptions{
		URI:        cfg.Trace.MongoURI,
		Database:   cfg.Trace.Database,
		Collection: cfg.Trace.Collection,
	})
	if err != nil {
		return fmt.Errorf("open trace store: %w", err)
	}
	defer func() {
		if err := traces.Close(context.Background()); err != nil {
			logger.Warn("closing trace store failed", zap.Error(err))
		}
	}()

	catalogPath := cfg.Catalog.Path
	if runCatalog != "" {
		catalogPath = runCatalog
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("version", cat.Version()), zap.Int("entries", cat.Len()))

	selector := recommend.NewSelector(cat, logger)
	pipe := pipeline.New(profiles, txns, traces, selector, logger)

	userIDs := runUsers
	if len(userIDs) == 0 {
		userIDs, err = profiles.ListUserIDs(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
	}

	workers := resolveWorkers(cfg, runWorkers)
	runner := pipeline.NewRunner(pipe, workers, logger)

	start := time.Now()
	report, runErr := runner.Run(ctx, userIDs, asOf)
	logger.Info("batch run finished",
		zap.String("run", report.RunID),
		zap.Int("processed", len(report.Results)),
		zap.Int("failed", len(report.Failures)),
		zap.String("duration", time.Since(start).String()))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return runErr
}

func resolveAsOf(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --as-of %q: %w", raw, err)
	}
	return asOf, nil
}

func resolveWorkers(cfg config.Config, flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Batch.Workers
}
