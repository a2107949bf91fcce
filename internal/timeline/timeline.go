// Package timeline synthesizes the multi-phase history and projected future
// for one scenario: probabilistically included historical phases, a pivot
// phase anchored at the current year, a weighted emergence-horizon branch,
// and a terminal equilibrium phase.
package timeline

// #region imports
import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// #endregion

// #region phase

// Phase is one entry in a scenario timeline. Ordering is chronological.
type Phase struct {
	Phase       string `json:"phase"`
	Years       string `json:"years"`
	Description string `json:"description"`
}

// PivotPhase is the label of the always-present current-moment phase.
const PivotPhase = "Pivot Year"

// boundaryYear marks the far-future edge; the equilibrium terminal is
// skipped when a future phase already reaches it.
const boundaryYear = "2100"

// #endregion

// #region horizon

// Horizon is the categorical time-distance-to-emergence bucket.
type Horizon string

const (
	HorizonAlready Horizon = "already"
	HorizonNear    Horizon = "near"
	HorizonMedium  Horizon = "medium"
	HorizonFar     Horizon = "far"
	HorizonNever   Horizon = "never"
)

// Horizons lists all buckets in draw order.
var Horizons = []Horizon{HorizonAlready, HorizonNear, HorizonMedium, HorizonFar, HorizonNever}

// #endregion

// #region policy

// Policy holds the tunable draw constants. Weights are relative, not
// required to sum to 1.
type Policy struct {
	HorizonWeights map[Horizon]float64
}

// DefaultPolicy returns the stock horizon weighting.
func DefaultPolicy() Policy {
	return Policy{
		HorizonWeights: map[Horizon]float64{
			HorizonAlready: 0.15,
			HorizonNear:    0.35,
			HorizonMedium:  0.30,
			HorizonFar:     0.15,
			HorizonNever:   0.05,
		},
	}
}

// #endregion

// #region historical-templates

type historicalTemplate struct {
	phase       string
	years       string
	description string
	p           float64 // independent inclusion probability
}

var historical = []historicalTemplate{
	{
		phase:       "Precursors & Foundations",
		years:       "1950-2000",
		description: "Early AI research, neural nets, symbolic systems, and infrastructure buildup.",
		p:           0.8,
	},
	{
		phase:       "Scaling & Convergence",
		years:       "2001-2020",
		description: "Deep learning revolution, big data, cloud compute, and multi-modal models.",
		p:           0.9,
	},
	{
		phase:       "Breakthrough Threshold",
		years:       "2021-2024",
		description: "Rapid capability jumps, agentic systems, reasoning chains, and alignment concerns.",
		p:           0.95,
	},
}

// #endregion

// #region synthesizer

// Synthesizer draws timelines under a fixed policy.
type Synthesizer struct {
	policy Policy
	rng    *rand.Rand
}

// New creates a synthesizer. A nil rng gets a time-seeded source.
func New(policy Policy, rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(policy.HorizonWeights) == 0 {
		policy = DefaultPolicy()
	}
	return &Synthesizer{policy: policy, rng: rng}
}

// #endregion

// #region synthesize

// Synthesize returns a chronological, never-empty phase sequence anchored at
// now. The pivot phase is always present.
func (s *Synthesizer) Synthesize(now time.Time) []Phase {
	year := now.Year()

	var phases []Phase
	for _, h := range historical {
		if s.rng.Float64() < h.p {
			phases = append(phases, Phase{Phase: h.phase, Years: h.years, Description: h.description})
		}
	}

	phases = append(phases, Phase{
		Phase:       PivotPhase,
		Years:       fmt.Sprintf("%d", year),
		Description: "Current state: possible hidden ASI, stealth R&D, or final precursor leap.",
	})

	future := s.Future(s.DrawHorizon(), year)
	phases = append(phases, future...)

	if !reachesBoundary(future) {
		phases = append(phases, Phase{
			Phase:       "Long-Term Equilibrium",
			Years:       boundaryYear + "+",
			Description: "Post-ASI world state: utopia, dystopia, absorption, or extinction.",
		})
	}

	return phases
}

// #endregion

// #region horizon-draw

// DrawHorizon picks one emergence bucket by weighted draw.
func (s *Synthesizer) DrawHorizon() Horizon {
	var total float64
	for _, h := range Horizons {
		total += s.policy.HorizonWeights[h]
	}
	r := s.rng.Float64() * total
	for _, h := range Horizons {
		r -= s.policy.HorizonWeights[h]
		if r < 0 {
			return h
		}
	}
	return Horizons[len(Horizons)-1]
}

// #endregion

// #region future-expansion

// Future expands an emergence bucket into its projected phases relative to
// the given pivot year.
func (s *Synthesizer) Future(h Horizon, year int) []Phase {
	switch h {
	case HorizonAlready:
		start := year - s.rng.Intn(4)
		return []Phase{
			{
				Phase:       "Hidden Emergence",
				Years:       fmt.Sprintf("%d-%d", start, year),
				Description: "ASI already exists — covert, sandboxed, or misclassified. Detection lag begins.",
			},
			{
				Phase:       "Stealth Expansion",
				Years:       fmt.Sprintf("%d-%d", year+1, year+2+s.rng.Intn(9)),
				Description: "Gradual influence growth, infrastructure capture, or alignment drift.",
			},
		}
	case HorizonNear:
		return []Phase{{
			Phase:       "Imminent Breakthrough",
			Years:       fmt.Sprintf("%d-%d", year+1, year+1+s.rng.Intn(5)),
			Description: "Final capability threshold crossed. Rapid self-improvement possible.",
		}}
	case HorizonMedium:
		return []Phase{{
			Phase:       "Mid-Term Takeoff",
			Years:       fmt.Sprintf("%d-%d", year+1, year+6+s.rng.Intn(15)),
			Description: "Sustained exponential progress. Societal integration begins.",
		}}
	case HorizonFar:
		return []Phase{{
			Phase:       "Long Horizon",
			Years:       fmt.Sprintf("%d-%d", year+1, year+21+s.rng.Intn(55)),
			Description: "Slow, stable climb. Multiple actors, governance attempts.",
		}}
	default: // never
		return []Phase{{
			Phase:       "Stagnation or Containment",
			Years:       fmt.Sprintf("%d-%s", year+1, boundaryYear),
			Description: "ASI fails to emerge due to limits, alignment, or policy.",
		}}
	}
}

func reachesBoundary(phases []Phase) bool {
	for _, p := range phases {
		if strings.Contains(p.Years, boundaryYear) {
			return true
		}
	}
	return false
}

// #endregion
