package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oasis-observatory/oasis-generator/internal/assembler"
	"github.com/oasis-observatory/oasis-generator/internal/config"
	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/schema"
	"github.com/oasis-observatory/oasis-generator/internal/store"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply when omitted)")
	count := flag.Int("count", 1, "number of scenarios to generate")
	dbPath := flag.String("db", "", "override database path")
	strategy := flag.String("strategy", "", "override model selection strategy (priority|random|round_robin)")
	preferred := flag.String("preferred", "", "override preferred model")
	seed := flag.Int64("seed", 0, "rng seed (0 = time-based)")
	flag.Parse()

	if *count <= 0 {
		fmt.Fprintln(os.Stderr, "usage: generate-batch [--config path] [--count N] [--db path] [--strategy name] [--preferred model] [--seed N]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	if *preferred != "" {
		cfg.PreferredModel = *preferred
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	strat, _ := narrative.ParseStrategy(cfg.Strategy)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	validator, err := schema.NewValidator()
	if err != nil {
		log.Fatalf("failed to compile schema: %v", err)
	}

	rng := rand.New(rand.NewSource(seedOr(*seed)))
	backend := narrative.NewBackend(cfg.Models, cfg.Generator(), cfg.MinNarrativeLength, rng)

	asm := assembler.New(assembler.Config{
		Backend:     backend,
		Validator:   validator,
		Store:       st,
		Policy:      cfg.TimelinePolicy(),
		Strategy:    strat,
		Preferred:   cfg.PreferredModel,
		MaxAttempts: cfg.MaxAttempts,
		Rng:         rng,
	})

	// Number new records after everything already stored.
	existing, err := st.Count()
	if err != nil {
		log.Fatalf("failed to count scenarios: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := asm.GenerateBatch(ctx, *count, existing+1, 0)
	if err != nil {
		log.Fatalf("batch aborted after %d records: %v", len(res.Generated), err)
	}

	fmt.Printf("generated %d/%d scenarios in %s (%d skipped)\n",
		len(res.Generated), *count, time.Since(start).Round(time.Second), res.Skipped)
	for _, rec := range res.Generated {
		fmt.Printf("  %s  %s\n", rec.ID, rec.Title)
	}
}

// #endregion

// #region helpers

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

func seedOr(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// #endregion
