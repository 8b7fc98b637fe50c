// Command seed ingests one season from the primary source into the store.
// Re-running it for the same season is safe and converges on the same rows;
// sessions the source does not know yet are skipped and picked up by a
// later run.
//
// Flags:
//
//	--year      season to seed (required)
//	--no-laps   skip lap timing rows
//
// Exit codes: 0 = success or partial success with skips, 1 = any session
// failed after retries or the run aborted.
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
	"github.com/pitwall/f1-backend/internal/adapter/postgres/driver"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/lap"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/result"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/round"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/season"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/session"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/team"
	"github.com/pitwall/f1-backend/internal/adapter/provider/openf1"
	"github.com/pitwall/f1-backend/internal/app"
	"github.com/pitwall/f1-backend/internal/app/seeder"
	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/pkg/ctxutil"
)

// Compile-time interface assertions.
var (
	_ seeder.SeasonSource = (*openf1.Provider)(nil)
	_ seeder.TxRunner     = (*postgres.TxManager)(nil)
)

func main() {
	yearFlag := flag.Int("year", 0, "season to seed (required)")
	noLapsFlag := flag.Bool("no-laps", false, "skip lap timing rows")
	flag.Parse()

	if *yearFlag == 0 {
		log.Fatal("--year is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *noLapsFlag {
		cfg.Seed.IncludeLaps = false
	}

	runID := ctxutil.NewRunID()
	logger := app.NewLogger(cfg.Log).With("run_id", runID)
	logger.Info("starting seed", slog.Int("year", *yearFlag), slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(context.Background(), runID), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repos := seeder.Repos{
		Seasons:  season.New(pool),
		Circuits: circuit.New(pool),
		Rounds:   round.New(pool),
		Sessions: session.New(pool),
		Teams:    team.New(pool),
		Drivers:  driver.New(pool),
		Results:  result.New(pool),
		Laps:     lap.New(pool),
	}

	src := openf1.NewProvider(cfg.OpenF1, logger)
	pipeline := seeder.NewPipeline(logger, src, repos, postgres.NewTxManager(pool), cfg.Seed)

	report, err := pipeline.SeedSeason(ctx, *yearFlag)
	if err != nil {
		logger.Error("seed run aborted", slog.Int("year", *yearFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed run completed",
		slog.Int("year", report.Year),
		slog.Int("rounds", report.Rounds),
		slog.Int("failed_rounds", len(report.FailedRounds)),
		slog.Int("seeded", report.Seeded()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", report.Duration),
	)

	if report.HasFailures() {
		os.Exit(1)
	}
}
