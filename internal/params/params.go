// Package params samples the categorical and numeric configuration of one
// hypothetical ASI instance. A Set is drawn fresh for every generation
// attempt and never mutated afterwards.
package params

// #region imports
import (
	"math"
	"math/rand"
)

// #endregion

// #region domains

// Enumeration domains. Order is stable so draws are reproducible per seed.
var (
	Origins             = []string{"state", "corporate", "academic", "open-source", "individual", "military"}
	DevelopmentDynamics = []string{"engineered", "emergent", "hybrid"}
	Architectures       = []string{"monolithic", "swarm", "federated", "modular", "layered"}
	Topologies          = []string{"centralized", "distributed", "edge", "hybrid"}
	OversightTypes      = []string{"corporate", "governmental", "multi-stakeholder", "open-source", "none"}
	OversightLevels     = []string{"strong", "partial", "ineffective", "collapsed"}
	ControlSurfaces     = []string{"legal", "technical", "market", "social", "unknown"}
	Substrates          = []string{"conventional_compute", "neuromorphic", "quantum", "biological", "hybrid", "unknown"}
	DeploymentMediums   = []string{"cloud", "edge", "embedded", "space-based", "ubiquitous", "virtual"}
	Resiliences         = []string{"fragile", "redundant", "self-repairing"}
	AutonomyDegrees     = []string{"controlled", "partial", "full"}
	StatedGoals         = []string{"human-welfare", "profit", "survival", "exploration", "other"}
	GoalStabilities     = []string{"fixed", "modifiable", "dynamic"}
	DeploymentStrategies = []string{"overt", "covert", "gradual", "rapid", "sandboxed"}

	ImpactDomains = []string{
		"scientific-research", "economy", "military", "governance",
		"infrastructure", "healthcare", "education", "media",
	}
	MesaGoals = []string{
		"resource-acquisition", "self-preservation", "goal-preservation",
		"influence-seeking", "replication",
	}
)

// #endregion

// #region set

// Set is one sampled parameter bag. Numeric fields are bounded to [0,1].
type Set struct {
	InitialOrigin       string
	DevelopmentDynamics string

	Architecture       string
	DeploymentTopology string

	Substrate           string
	DeploymentMedium    string
	SubstrateResilience string

	OversightType          string
	OversightEffectiveness string
	ControlSurface         string

	AgencyLevel              float64
	AgencyLevelConfidence    float64
	AutonomyDegree           string
	AutonomyDegreeConfidence float64
	AlignmentScore           float64
	AlignmentScoreConfidence float64
	PhenomenologyProxyScore  float64

	StatedGoal    string
	MesaGoals     []string
	Opacity       float64
	Deceptiveness float64
	GoalStability string

	ImpactDomains      []string
	DeploymentStrategy string
}

// #endregion

// #region sample

// Sample draws a fully populated parameter set from the fixed domains.
func Sample(rng *rand.Rand) Set {
	return Set{
		InitialOrigin:       pick(rng, Origins),
		DevelopmentDynamics: pick(rng, DevelopmentDynamics),

		Architecture:       pick(rng, Architectures),
		DeploymentTopology: pick(rng, Topologies),

		Substrate:           pick(rng, Substrates),
		DeploymentMedium:    pick(rng, DeploymentMediums),
		SubstrateResilience: pick(rng, Resiliences),

		OversightType:          pick(rng, OversightTypes),
		OversightEffectiveness: pick(rng, OversightLevels),
		ControlSurface:         pick(rng, ControlSurfaces),

		AgencyLevel:              unit(rng),
		AgencyLevelConfidence:    confidence(rng),
		AutonomyDegree:           pick(rng, AutonomyDegrees),
		AutonomyDegreeConfidence: confidence(rng),
		AlignmentScore:           unit(rng),
		AlignmentScoreConfidence: confidence(rng),
		PhenomenologyProxyScore:  unit(rng),

		StatedGoal:    pick(rng, StatedGoals),
		MesaGoals:     subset(rng, MesaGoals, 0, 3),
		Opacity:       unit(rng),
		Deceptiveness: unit(rng),
		GoalStability: pick(rng, GoalStabilities),

		ImpactDomains:      subset(rng, ImpactDomains, 1, 4),
		DeploymentStrategy: pick(rng, DeploymentStrategies),
	}
}

// #endregion

// #region draw-helpers

func pick(rng *rand.Rand, domain []string) string {
	return domain[rng.Intn(len(domain))]
}

// unit draws a uniform value in [0,1] rounded to two decimals.
func unit(rng *rand.Rand) float64 {
	return math.Round(rng.Float64()*100) / 100
}

// confidence draws a score confidence in [0.5, 0.9].
func confidence(rng *rand.Rand) float64 {
	return math.Round((0.5+rng.Float64()*0.4)*100) / 100
}

// subset draws between min and max distinct members, preserving domain order.
func subset(rng *rand.Rand, domain []string, min, max int) []string {
	n := min + rng.Intn(max-min+1)
	chosen := make([]string, 0, n)
	for _, idx := range rng.Perm(len(domain))[:n] {
		chosen = append(chosen, domain[idx])
	}
	// Restore domain order so equal draws compare equal.
	ordered := make([]string, 0, len(chosen))
	for _, v := range domain {
		for _, c := range chosen {
			if c == v {
				ordered = append(ordered, v)
			}
		}
	}
	return ordered
}

// #endregion
