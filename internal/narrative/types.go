// Package narrative turns a title, parameter set, and timeline into story
// text by driving an external text-generation runtime through an ordered
// model fallback chain with per-model timeouts and retries.
package narrative

// #region imports
import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region strategy

// Strategy selects the order in which configured models are attempted.
type Strategy string

const (
	StrategyPriority   Strategy = "priority"
	StrategyRandom     Strategy = "random"
	StrategyRoundRobin Strategy = "round_robin"
)

// ParseStrategy maps a config string to a Strategy, defaulting to priority.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyPriority, StrategyRandom, StrategyRoundRobin:
		return Strategy(s), nil
	case "":
		return StrategyPriority, nil
	}
	return StrategyPriority, errors.New("unknown selection strategy: " + s)
}

// #endregion

// #region model-config

// ModelConfig describes one configured model. MaxRetries counts retries
// after the first attempt, so a model is tried MaxRetries+1 times.
type ModelConfig struct {
	Name       string        `yaml:"name"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// UnmarshalYAML accepts timeouts as duration strings ("10m", "90s").
func (m *ModelConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name       string `yaml:"name"`
		Timeout    string `yaml:"timeout"`
		MaxRetries int    `yaml:"max_retries"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	m.Name = raw.Name
	m.MaxRetries = raw.MaxRetries
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("model %q: bad timeout %q: %w", raw.Name, raw.Timeout, err)
		}
		m.Timeout = d
	}
	return nil
}

// #endregion

// #region errors

// Recoverable per-model failure modes. The backend treats every one of these
// identically: log, count the attempt, move on.
var (
	ErrTimeout         = errors.New("generation timed out")
	ErrNotFound        = errors.New("generator executable not found")
	ErrModelFailed     = errors.New("model invocation failed")
	ErrShortNarrative  = errors.New("narrative below minimum length")
	ErrAllModelsFailed = errors.New("all models and retries exhausted")
)

// #endregion

// #region request-result

// Request is one narrative generation call. Cursor is the caller-owned
// round-robin position; it is advanced in the Result on every call so
// successive calls rotate their starting model.
type Request struct {
	Title     string
	Params    params.Set
	Timeline  []timeline.Phase
	Strategy  Strategy
	Preferred string
	Cursor    int

	// Prompt overrides the built single-scenario prompt when non-empty.
	// Used by multi-scenario composition.
	Prompt string
}

// Result is the outcome of a successful generation.
type Result struct {
	Narrative string
	Model     string
	Cursor    int
}

// #endregion
