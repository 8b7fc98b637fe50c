// Command verify runs read-only health checks over one seeded season:
// every round has sessions, every race has results, no placeholder circuit
// names remain, and no orphaned result/lap rows exist. It never mutates
// state.
//
// Flags:
//
//	--year  season to verify (required)
//
// Exit codes: 0 = all checks passed, 1 = any check failed or could not run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/lap"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/result"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/round"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/session"
	"github.com/pitwall/f1-backend/internal/app"
	"github.com/pitwall/f1-backend/internal/app/verify"
	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/pkg/ctxutil"
)

func main() {
	yearFlag := flag.Int("year", 0, "season to verify (required)")
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
	logger.Info("starting verify", slog.Int("year", *yearFlag), slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(context.Background(), runID), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	verifier := verify.NewVerifier(logger,
		round.New(pool),
		session.New(pool),
		circuit.New(pool),
		result.New(pool),
		lap.New(pool),
	)

	report, err := verifier.VerifySeason(ctx, *yearFlag)
	if err != nil {
		logger.Error("verification aborted", slog.Int("year", *yearFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, c := range report.Checks {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %-22s %s\n", status, c.Name, c.Detail)
	}

	if !report.Passed() {
		os.Exit(1)
	}
}
