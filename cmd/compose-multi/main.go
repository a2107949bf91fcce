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

	"github.com/oasis-observatory/oasis-generator/internal/config"
	"github.com/oasis-observatory/oasis-generator/internal/multi"
	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/store"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply when omitted)")
	systems := flag.Int("systems", 2, "number of stored scenarios to compose over")
	reports := flag.Int("reports", 1, "number of composed reports to generate")
	dbPath := flag.String("db", "", "override database path")
	flag.Parse()

	if *systems < 2 || *reports <= 0 {
		fmt.Fprintln(os.Stderr, "usage: compose-multi [--config path] [--systems N>=2] [--reports N] [--db path]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	strat, _ := narrative.ParseStrategy(cfg.Strategy)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	if n, err := st.Count(); err != nil {
		log.Fatalf("failed to count scenarios: %v", err)
	} else if n < *systems {
		log.Fatalf("store holds %d scenarios, need %d; run generate-batch first", n, *systems)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	backend := narrative.NewBackend(cfg.Models, cfg.Generator(), cfg.MinNarrativeLength, rng)
	composer := multi.New(st, st, backend, strat, cfg.PreferredModel, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cursor := 0
	for i := 0; i < *reports; i++ {
		composed, next, err := composer.Compose(ctx, *systems, cursor)
		cursor = next
		if err != nil {
			log.Fatalf("compose %d/%d: %v", i+1, *reports, err)
		}
		fmt.Printf("  %s  %s\n", composed.ID, composed.Title)
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

// #endregion
