// Package main provides the batch combat simulator: it loads content, then
// plays many seeded encounters concurrently and reports the aggregate outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/centaur/internal/config"
	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/command"
	"github.com/cory-johannsen/centaur/internal/game/dice"
	"github.com/cory-johannsen/centaur/internal/game/encounter"
	"github.com/cory-johannsen/centaur/internal/observability"
	"github.com/cory-johannsen/centaur/internal/simulation"
	"github.com/cory-johannsen/centaur/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	enemy := flag.String("enemy", "", "enemy ID to fight; overrides simulation.enemy")
	seed := flag.Int64("seed", -1, "base seed; overrides simulation.seed")
	encounters := flag.Int("n", 0, "number of encounters; overrides simulation.encounters")
	record := flag.Bool("record", false, "log every resolved turn at debug level")
	listCommands := flag.Bool("commands", false, "print the action script commands and exit")
	flag.Parse()

	if *listCommands {
		fmt.Print(command.DefaultRegistry().Help())
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *enemy != "" {
		cfg.Simulation.Enemy = *enemy
	}
	if *seed >= 0 {
		cfg.Simulation.Seed = *seed
	}
	if *encounters > 0 {
		cfg.Simulation.Encounters = *encounters
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	content, err := simulation.LoadContent(cfg.Content, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer content.Close()

	calc := combat.NewCalculator(cfg.Combat.Tuning(), content.Statuses, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logRecorder, archiveRecorder encounter.Recorder
		pool                         *postgres.Pool
	)
	if *record {
		logRecorder = encounter.NewLogRecorder(logger)
	}
	if cfg.Database.Enabled {
		pool, err = postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		archiveRecorder = postgres.NewArchiveRecorder(postgres.NewArchive(pool.DB()), cfg.Database.WriteTimeout, logger)
	}
	runner := simulation.NewRunner(content, calc, encounter.Recorders(logRecorder, archiveRecorder), logger)

	baseSeed := cfg.Simulation.Seed
	if baseSeed == 0 {
		baseSeed = dice.NewSeed()
	}

	logger.Info("starting simulation",
		zap.String("enemy", cfg.Simulation.Enemy),
		zap.String("path", cfg.Simulation.Path),
		zap.String("terrain", cfg.Simulation.Terrain),
		zap.Int("encounters", cfg.Simulation.Encounters),
		zap.Int("concurrency", cfg.Simulation.Concurrency),
		zap.Int64("seed", baseSeed),
	)
	sum, err := runner.Run(ctx, cfg.Simulation, baseSeed)
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
	printSummary(cfg.Simulation.Enemy, baseSeed, sum, time.Since(start))
	if pool != nil {
		st := pool.Stats()
		logger.Info("archive pool",
			zap.Int64("acquires", st.Acquires),
			zap.Int32("total_conns", st.Total),
			zap.Int32("idle_conns", st.Idle),
		)
	}
}

func printSummary(enemy string, seed int64, sum simulation.Summary, elapsed time.Duration) {
	pct := func(n int) float64 { return 100 * float64(n) / float64(max(1, sum.Encounters)) }
	fmt.Printf("%d encounters vs %s (seed %d) in %s\n", sum.Encounters, enemy, seed, elapsed.Round(time.Millisecond))
	fmt.Printf("  victories %5d (%5.1f%%)\n", sum.Victories, pct(sum.Victories))
	fmt.Printf("  defeats   %5d (%5.1f%%)\n", sum.Defeats, pct(sum.Defeats))
	fmt.Printf("  fled      %5d (%5.1f%%)\n", sum.Fled, pct(sum.Fled))
	fmt.Printf("  abandoned %5d (%5.1f%%)\n", sum.Abandoned, pct(sum.Abandoned))
	fmt.Printf("  turns %d, rejected actions %d\n", sum.Turns, sum.Rejected)
	fmt.Printf("  loot: %d currency\n", sum.Currency)
	ids := make([]string, 0, len(sum.Items))
	for id := range sum.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("    %-16s x%d\n", id, sum.Items[id])
	}
}
