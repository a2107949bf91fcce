package scenario

// #region imports
import (
	"time"

	"github.com/google/uuid"

	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region assemble

// Assemble builds a fully populated record from an accepted attempt: fresh
// identifier, current timestamps, the parameters reorganized into the
// grouped shape, the timeline, the narrative, and the default assessment
// block.
func Assemble(title string, p params.Set, phases []timeline.Phase, narrative string, now time.Time) *Scenario {
	ts := now.UTC().Format(time.RFC3339)

	return &Scenario{
		ID:    uuid.New().String(),
		Title: title,
		Metadata: Metadata{
			Created:     ts,
			LastUpdated: ts,
			Version:     1,
			Source:      "generated",
		},
		Origin: Origin{
			InitialOrigin:       p.InitialOrigin,
			DevelopmentDynamics: p.DevelopmentDynamics,
		},
		Architecture: Architecture{
			Type:               p.Architecture,
			DeploymentTopology: p.DeploymentTopology,
		},
		Substrate: Substrate{
			Type:             p.Substrate,
			DeploymentMedium: p.DeploymentMedium,
			Resilience:       p.SubstrateResilience,
		},
		OversightStructure: OversightStructure{
			Type:           p.OversightType,
			Effectiveness:  p.OversightEffectiveness,
			ControlSurface: p.ControlSurface,
		},
		CoreCapabilities: CoreCapabilities{
			AgencyLevel:              p.AgencyLevel,
			AgencyLevelConfidence:    p.AgencyLevelConfidence,
			AutonomyDegree:           p.AutonomyDegree,
			AutonomyDegreeConfidence: p.AutonomyDegreeConfidence,
			AlignmentScore:           p.AlignmentScore,
			AlignmentScoreConfidence: p.AlignmentScoreConfidence,
			PhenomenologyProxyScore:  p.PhenomenologyProxyScore,
		},
		GoalsAndBehavior: GoalsAndBehavior{
			StatedGoal:    p.StatedGoal,
			MesaGoals:     emptyIfNil(p.MesaGoals),
			Opacity:       p.Opacity,
			Deceptiveness: p.Deceptiveness,
			GoalStability: p.GoalStability,
		},
		ImpactAndControl: ImpactAndControl{
			ImpactDomains:      emptyIfNil(p.ImpactDomains),
			DeploymentStrategy: p.DeploymentStrategy,
		},
		ScenarioContent: Content{
			Title:     title,
			Narrative: narrative,
			Timeline:  Timeline{Phases: phases},
		},
		QuantitativeAssessment: DefaultAssessment(),
		ObservableEvidence: ObservableEvidence{
			KeyIndicators:     []string{},
			SupportingSignals: []string{},
		},
	}
}

// DefaultAssessment returns the fixed-shape initial scoring block.
func DefaultAssessment() QuantitativeAssessment {
	return QuantitativeAssessment{
		Probability: Probability{
			EmergenceProbability: 0.4,
			DetectionConfidence:  0.5,
			ProjectionConfidence: 0.6,
			Trend:                "stable",
			LastUpdateReason:     "initial generation",
		},
		RiskAssessment: RiskAssessment{
			Existential: RiskScore{Score: 3, Weight: 0.6},
			Economic:    RiskScore{Score: 2, Weight: 0.2},
			Social:      RiskScore{Score: 3, Weight: 0.1},
			Political:   RiskScore{Score: 2, Weight: 0.1},
		},
	}
}

// emptyIfNil keeps set-valued fields serializing as [] rather than null,
// which the schema requires.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// #endregion
