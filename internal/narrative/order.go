package narrative

// #region imports
import (
	"math/rand"
	"time"
)

// #endregion

// #region order

// Order computes the candidate attempt sequence for one call. Pure: the same
// inputs always yield the same order (random strategy draws from rng).
//
// A configured preferred model is always moved to the front regardless of
// strategy; the result is deduplicated by name keeping first occurrence.
func Order(models []ModelConfig, strategy Strategy, cursor int, preferred string, rng *rand.Rand) []ModelConfig {
	if len(models) == 0 {
		return nil
	}

	ordered := make([]ModelConfig, 0, len(models)+1)
	if preferred != "" {
		if m, ok := byName(models, preferred); ok {
			ordered = append(ordered, m)
		}
	}

	switch strategy {
	case StrategyRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		for _, i := range rng.Perm(len(models)) {
			ordered = append(ordered, models[i])
		}
	case StrategyRoundRobin:
		start := cursor % len(models)
		if start < 0 {
			start += len(models)
		}
		for i := range models {
			ordered = append(ordered, models[(start+i)%len(models)])
		}
	default: // priority
		ordered = append(ordered, models...)
	}

	return dedupe(ordered)
}

// #endregion

// #region helpers

func byName(models []ModelConfig, name string) (ModelConfig, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// dedupe drops later duplicates by model name, preserving first occurrence.
func dedupe(models []ModelConfig) []ModelConfig {
	seen := make(map[string]bool, len(models))
	out := make([]ModelConfig, 0, len(models))
	for _, m := range models {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		out = append(out, m)
	}
	return out
}

// #endregion
