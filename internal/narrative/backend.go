package narrative

// #region imports
import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// #endregion

// #region constants

// DefaultMinLength is the minimum accepted narrative length in characters.
// Shorter completions are counted as backend failures, not content failures.
const DefaultMinLength = 100

// #endregion

// #region backend

// Backend drives the configured model list with per-model timeout, retry,
// and fallback. It holds no mutable cross-call state: the round-robin
// cursor lives in the Request/Result pair.
type Backend struct {
	models    []ModelConfig
	gen       TextGenerator
	minLength int
	rng       *rand.Rand
}

// NewBackend creates a backend over the given model list and generator.
// minLength <= 0 selects DefaultMinLength; a nil rng gets a time-seeded
// source (used only by the random strategy).
func NewBackend(models []ModelConfig, gen TextGenerator, minLength int, rng *rand.Rand) *Backend {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Backend{models: models, gen: gen, minLength: minLength, rng: rng}
}

// #endregion

// #region generate

// Generate produces a narrative for the request, attempting candidate models
// in strategy order. Every per-model failure (timeout, missing runtime,
// non-zero exit, short output) is recoverable; only total exhaustion is
// reported, as an error wrapping ErrAllModelsFailed. The returned cursor is
// always advanced by one, success or not.
func (b *Backend) Generate(ctx context.Context, req Request) (Result, error) {
	next := req.Cursor + 1

	candidates := Order(b.models, req.Strategy, req.Cursor, req.Preferred, b.rng)
	if len(candidates) == 0 {
		return Result{Cursor: next}, fmt.Errorf("%w: no models configured", ErrAllModelsFailed)
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Title, req.Params, req.Timeline)
	}

	var lastErr error
	for _, m := range candidates {
		timeout := m.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		for attempt := 1; attempt <= m.MaxRetries+1; attempt++ {
			if ctx.Err() != nil {
				return Result{Cursor: next}, fmt.Errorf("generate: %w", ctx.Err())
			}

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			out, err := b.gen.Generate(callCtx, m.Name, prompt)
			cancel()

			if err != nil {
				log.Printf("[NARR] model=%s attempt=%d/%d failed: %v", m.Name, attempt, m.MaxRetries+1, err)
				lastErr = err
				continue
			}
			if len(out) < b.minLength {
				log.Printf("[NARR] model=%s attempt=%d/%d output too short (%d < %d chars)",
					m.Name, attempt, m.MaxRetries+1, len(out), b.minLength)
				lastErr = fmt.Errorf("%w: %d chars", ErrShortNarrative, len(out))
				continue
			}

			return Result{Narrative: out, Model: m.Name, Cursor: next}, nil
		}
	}

	return Result{Cursor: next}, fmt.Errorf("%w (last: %v)", ErrAllModelsFailed, lastErr)
}

// #endregion
