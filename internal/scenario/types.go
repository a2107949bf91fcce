// Package scenario defines the persisted record shape for one generated ASI
// scenario and its assembly from the sampled inputs.
package scenario

// #region imports
import (
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region record

// Scenario is the unit of persistence. The identifier is generated fresh per
// accepted attempt and never changes afterwards.
type Scenario struct {
	ID                     string                 `json:"id"`
	Title                  string                 `json:"title"`
	Metadata               Metadata               `json:"metadata"`
	Origin                 Origin                 `json:"origin"`
	Architecture           Architecture           `json:"architecture"`
	Substrate              Substrate              `json:"substrate"`
	OversightStructure     OversightStructure     `json:"oversight_structure"`
	CoreCapabilities       CoreCapabilities       `json:"core_capabilities"`
	GoalsAndBehavior       GoalsAndBehavior       `json:"goals_and_behavior"`
	ImpactAndControl       ImpactAndControl       `json:"impact_and_control"`
	ScenarioContent        Content                `json:"scenario_content"`
	QuantitativeAssessment QuantitativeAssessment `json:"quantitative_assessment"`
	ObservableEvidence     ObservableEvidence     `json:"observable_evidence"`
}

// Metadata carries record provenance.
type Metadata struct {
	Created     string `json:"created"`
	LastUpdated string `json:"last_updated"`
	Version     int    `json:"version"`
	Source      string `json:"source"`
}

// Origin groups how the system came to exist.
type Origin struct {
	InitialOrigin       string `json:"initial_origin"`
	DevelopmentDynamics string `json:"development_dynamics"`
}

// Architecture groups the structural shape of the system.
type Architecture struct {
	Type               string `json:"type"`
	DeploymentTopology string `json:"deployment_topology"`
}

// Substrate groups the physical/computational base.
type Substrate struct {
	Type             string `json:"type"`
	DeploymentMedium string `json:"deployment_medium"`
	Resilience       string `json:"resilience"`
}

// OversightStructure groups the control regime.
type OversightStructure struct {
	Type           string `json:"type"`
	Effectiveness  string `json:"effectiveness"`
	ControlSurface string `json:"control_surface"`
}

// CoreCapabilities groups the quantified capability scores.
type CoreCapabilities struct {
	AgencyLevel              float64 `json:"agency_level"`
	AgencyLevelConfidence    float64 `json:"agency_level_confidence"`
	AutonomyDegree           string  `json:"autonomy_degree"`
	AutonomyDegreeConfidence float64 `json:"autonomy_degree_confidence"`
	AlignmentScore           float64 `json:"alignment_score"`
	AlignmentScoreConfidence float64 `json:"alignment_score_confidence"`
	PhenomenologyProxyScore  float64 `json:"phenomenology_proxy_score"`
}

// GoalsAndBehavior groups goal structure and behavioral traits.
type GoalsAndBehavior struct {
	StatedGoal    string   `json:"stated_goal"`
	MesaGoals     []string `json:"mesa_goals"`
	Opacity       float64  `json:"opacity"`
	Deceptiveness float64  `json:"deceptiveness"`
	GoalStability string   `json:"goal_stability"`
}

// ImpactAndControl groups where and how the system is deployed.
type ImpactAndControl struct {
	ImpactDomains      []string `json:"impact_domains"`
	DeploymentStrategy string   `json:"deployment_strategy"`
}

// Content holds the generated story and its timeline.
type Content struct {
	Title     string   `json:"title"`
	Narrative string   `json:"narrative"`
	Timeline  Timeline `json:"timeline"`
}

// Timeline wraps the phase sequence.
type Timeline struct {
	Phases []timeline.Phase `json:"phases"`
}

// #endregion

// #region assessment

// QuantitativeAssessment is the fixed-shape numeric scoring block. Values
// are assessment defaults, not derived from the narrative.
type QuantitativeAssessment struct {
	Probability    Probability    `json:"probability"`
	RiskAssessment RiskAssessment `json:"risk_assessment"`
}

// Probability bundles emergence and detection confidence scores.
type Probability struct {
	EmergenceProbability float64 `json:"emergence_probability"`
	DetectionConfidence  float64 `json:"detection_confidence"`
	ProjectionConfidence float64 `json:"projection_confidence"`
	Trend                string  `json:"trend"`
	LastUpdateReason     string  `json:"last_update_reason"`
}

// RiskAssessment scores each risk axis with a weight.
type RiskAssessment struct {
	Existential RiskScore `json:"existential"`
	Economic    RiskScore `json:"economic"`
	Social      RiskScore `json:"social"`
	Political   RiskScore `json:"political"`
}

// RiskScore is one weighted risk axis.
type RiskScore struct {
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
}

// ObservableEvidence lists indicators supporting the scenario. Empty at
// generation time; populated by downstream analysis.
type ObservableEvidence struct {
	KeyIndicators     []string `json:"key_indicators"`
	SupportingSignals []string `json:"supporting_signals"`
}

// #endregion
