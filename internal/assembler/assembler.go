// Package assembler coordinates one full scenario generation cycle: sample
// parameters, synthesize a timeline, request a narrative, check consistency,
// validate against the record schema, and persist. Rejected attempts restart
// the cycle with freshly sampled parameters, up to a configured attempt cap.
package assembler

// #region imports
import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/oasis-observatory/oasis-generator/internal/abbrev"
	"github.com/oasis-observatory/oasis-generator/internal/consistency"
	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/scenario"
	"github.com/oasis-observatory/oasis-generator/internal/store"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region interfaces

// NarrativeBackend produces story text for a request.
type NarrativeBackend interface {
	Generate(ctx context.Context, req narrative.Request) (narrative.Result, error)
}

// Validator checks an assembled record against the scenario schema.
type Validator interface {
	Validate(rec *scenario.Scenario) error
}

// Recorder persists accepted records and the per-attempt log.
type Recorder interface {
	Save(rec *scenario.Scenario) error
	LogAttempt(rec store.AttemptRecord) error
}

// #endregion

// #region assembler-struct

// Config wires an Assembler. Zero values select defaults: 3 attempts, the
// full consistency rule set, the default timeline policy, a time-seeded rng,
// and the real clock.
type Config struct {
	Backend     NarrativeBackend
	Validator   Validator
	Store       Recorder
	Check       func(p params.Set, narrative string) consistency.Verdict
	Policy      timeline.Policy
	Strategy    narrative.Strategy
	Preferred   string
	MaxAttempts int
	Rng         *rand.Rand
	Now         func() time.Time
}

// Assembler runs generation cycles. It is not safe for concurrent use; run
// one Assembler per worker.
type Assembler struct {
	backend     NarrativeBackend
	validator   Validator
	store       Recorder
	check       func(p params.Set, narrative string) consistency.Verdict
	policy      timeline.Policy
	strategy    narrative.Strategy
	preferred   string
	maxAttempts int
	rng         *rand.Rand
	now         func() time.Time
}

// New creates a fully wired assembler.
func New(cfg Config) *Assembler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if len(cfg.Policy.HorizonWeights) == 0 {
		cfg.Policy = timeline.DefaultPolicy()
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Check == nil {
		cfg.Check = consistency.Check
	}
	return &Assembler{
		backend:     cfg.Backend,
		validator:   cfg.Validator,
		store:       cfg.Store,
		check:       cfg.Check,
		policy:      cfg.Policy,
		strategy:    cfg.Strategy,
		preferred:   cfg.Preferred,
		maxAttempts: cfg.MaxAttempts,
		rng:         cfg.Rng,
		now:         cfg.Now,
	}
}

// #endregion

// #region generate

// Result is the outcome of one generation cycle. Scenario is nil when every
// attempt was rejected; that is an absence, not an error.
type Result struct {
	Scenario *scenario.Scenario
	Cursor   int
	Attempts int
}

// Generate runs up to MaxAttempts full cycles for one record. seq is the
// record's sequence number within its batch (used in the title); cursor is
// the caller-owned round-robin position, returned advanced.
//
// Schema validation and persistence failures are fatal and abort the cycle
// with an error. Narrative and consistency failures reject the attempt and
// restart with fresh parameters.
func (a *Assembler) Generate(ctx context.Context, seq, cursor int) (Result, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return Result{Cursor: cursor, Attempts: attempt - 1}, fmt.Errorf("generate: %w", ctx.Err())
		}

		p := params.Sample(a.rng)
		phases := timeline.New(a.policy, a.rng).Synthesize(a.now())
		title := abbrev.Title(p, seq)

		res, err := a.backend.Generate(ctx, narrative.Request{
			Title:     title,
			Params:    p,
			Timeline:  phases,
			Strategy:  a.strategy,
			Preferred: a.preferred,
			Cursor:    cursor,
		})
		cursor = res.Cursor

		if err != nil {
			if ctx.Err() != nil {
				return Result{Cursor: cursor, Attempts: attempt}, fmt.Errorf("generate: %w", ctx.Err())
			}
			log.Printf("[ASM] title=%s attempt=%d/%d narrative failed: %v", title, attempt, a.maxAttempts, err)
			a.logAttempt(store.AttemptRecord{
				Title:   title,
				Attempt: attempt,
				Outcome: "narrative_failed",
				Reason:  err.Error(),
			})
			continue
		}

		if verdict := a.check(p, res.Narrative); !verdict.OK {
			reason := strings.Join(verdict.Failures, "; ")
			log.Printf("[ASM] title=%s attempt=%d/%d inconsistent: %s", title, attempt, a.maxAttempts, reason)
			a.logAttempt(store.AttemptRecord{
				Title:   title,
				Attempt: attempt,
				Model:   res.Model,
				Outcome: "inconsistent",
				Reason:  reason,
			})
			continue
		}

		rec := scenario.Assemble(title, p, phases, res.Narrative, a.now())

		if err := a.validator.Validate(rec); err != nil {
			a.logAttempt(store.AttemptRecord{
				Title:   title,
				Attempt: attempt,
				Model:   res.Model,
				Outcome: "validation_failed",
				Reason:  err.Error(),
			})
			return Result{Cursor: cursor, Attempts: attempt}, fmt.Errorf("record %s: %w", title, err)
		}

		if err := a.store.Save(rec); err != nil {
			a.logAttempt(store.AttemptRecord{
				Title:   title,
				Attempt: attempt,
				Model:   res.Model,
				Outcome: "save_failed",
				Reason:  err.Error(),
			})
			return Result{Cursor: cursor, Attempts: attempt}, fmt.Errorf("record %s: %w", title, err)
		}

		a.logAttempt(store.AttemptRecord{
			ScenarioID: rec.ID,
			Title:      title,
			Attempt:    attempt,
			Model:      res.Model,
			Outcome:    "accepted",
		})
		log.Printf("[ASM] title=%s accepted on attempt %d/%d (model=%s)", title, attempt, a.maxAttempts, res.Model)
		return Result{Scenario: rec, Cursor: cursor, Attempts: attempt}, nil
	}

	log.Printf("[ASM] seq=%d rejected after %d attempts, skipping record", seq, a.maxAttempts)
	return Result{Cursor: cursor, Attempts: a.maxAttempts}, nil
}

func (a *Assembler) logAttempt(rec store.AttemptRecord) {
	if err := a.store.LogAttempt(rec); err != nil {
		log.Printf("[ASM] failed to log attempt: %v", err)
	}
}

// #endregion

// #region batch

// BatchResult summarizes one batch run.
type BatchResult struct {
	Generated []*scenario.Scenario
	Skipped   int
	Cursor    int
}

// GenerateBatch produces count records sequentially, numbering them from
// startSeq and threading the round-robin cursor through every cycle. Records
// whose attempts are exhausted are skipped; fatal errors abort the batch with
// the partial result.
func (a *Assembler) GenerateBatch(ctx context.Context, count, startSeq, cursor int) (BatchResult, error) {
	out := BatchResult{Cursor: cursor}
	for i := 0; i < count; i++ {
		res, err := a.Generate(ctx, startSeq+i, out.Cursor)
		out.Cursor = res.Cursor
		if err != nil {
			return out, err
		}
		if res.Scenario == nil {
			out.Skipped++
			continue
		}
		out.Generated = append(out.Generated, res.Scenario)
	}
	return out, nil
}

// #endregion
