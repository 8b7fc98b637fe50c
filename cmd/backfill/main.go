// Command backfill resolves placeholder circuit names for one season from
// the secondary reference source. The pass is idempotent; circuits the
// reference source does not know keep the placeholder and are reported as
// unresolved.
//
// Flags:
//
//	--year  season to backfill (required)
//
// Exit codes: 0 = success (unresolved circuits are not failures),
// 1 = the pass could not complete.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/adapter/provider/jolpica"
	"github.com/pitwall/f1-backend/internal/app"
	"github.com/pitwall/f1-backend/internal/app/backfill"
	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/pkg/ctxutil"
)

// Compile-time interface assertions.
var (
	_ backfill.CircuitSource = (*jolpica.Provider)(nil)
	_ backfill.CircuitRepo   = (*circuit.Repo)(nil)
)

func main() {
	yearFlag := flag.Int("year", 0, "season to backfill (required)")
	flag.Parse()

	if *yearFlag == 0 {
		log.Fatal("--year is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	runID := ctxutil.NewRunID()
	logger := app.NewLogger(cfg.Log).With("run_id", runID)
	logger.Info("starting backfill", slog.Int("year", *yearFlag), slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(context.Background(), runID), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	src := jolpica.NewProvider(cfg.Jolpica, logger)
	corrector := backfill.NewCorrector(logger, src, circuit.New(pool))

	report, err := corrector.BackfillCircuitNames(ctx, *yearFlag)
	if err != nil {
		logger.Error("backfill aborted", slog.Int("year", *yearFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("backfill completed",
		slog.Int("year", report.Year),
		slog.Int("scanned", report.Scanned),
		slog.Int("corrected", report.Corrected),
		slog.Int("unresolved", report.Unresolved),
	)
}
