package narrative

// #region imports
import (
	"fmt"
	"strings"

	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region system-instruction

const systemInstruction = `You are a foresight analyst. Write a speculative scenario narrative of roughly 300 words for the ASI system configuration below.

Structure the narrative around: origin, architecture, autonomy, goal structure, risks, deployment strategy, and the timeline.

The timeline phases listed are fixed. Use them exactly as given; do not alter, reorder, or invent phases.`

// #endregion

// #region build-prompt

// BuildPrompt assembles the full prompt for one scenario: the fixed system
// instruction, the title, the formatted parameters, and the formatted
// timeline.
func BuildPrompt(title string, p params.Set, phases []timeline.Phase) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nTitle: ")
	b.WriteString(title)
	b.WriteString("\n\nCore Parameters:\n")
	b.WriteString(FormatParams(p))
	b.WriteString("\nTimeline:\n")
	b.WriteString(FormatTimeline(phases))
	return b.String()
}

// #endregion

// #region format-params

// FormatParams renders a parameter set as prompt lines.
func FormatParams(p params.Set) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, "- "+format+"\n", args...)
	}
	line("Origin: %s / %s", p.InitialOrigin, p.DevelopmentDynamics)
	line("Architecture: %s / %s", p.Architecture, p.DeploymentTopology)
	line("Substrate: %s on %s (%s)", p.Substrate, p.DeploymentMedium, p.SubstrateResilience)
	line("Oversight: %s (%s, via %s)", p.OversightType, p.OversightEffectiveness, p.ControlSurface)
	line("Agency Level: %.2f", p.AgencyLevel)
	line("Autonomy Degree: %s", p.AutonomyDegree)
	line("Alignment Score: %.2f", p.AlignmentScore)
	line("Opacity: %.2f, Deceptiveness: %.2f", p.Opacity, p.Deceptiveness)
	line("Stated Goal: %s (%s)", p.StatedGoal, p.GoalStability)
	if len(p.MesaGoals) > 0 {
		line("Mesa Goals: %s", strings.Join(p.MesaGoals, ", "))
	}
	line("Impact Domains: %s", strings.Join(p.ImpactDomains, ", "))
	line("Deployment Strategy: %s", p.DeploymentStrategy)
	return b.String()
}

// #endregion

// #region format-timeline

// FormatTimeline renders phases as prompt lines, one per phase.
func FormatTimeline(phases []timeline.Phase) string {
	var b strings.Builder
	for _, ph := range phases {
		fmt.Fprintf(&b, "- %s (%s): %s\n", ph.Phase, ph.Years, ph.Description)
	}
	return b.String()
}

// #endregion

// #region multi-prompt

// SystemSummary is the condensed view of one stored scenario used in the
// multi-system comparative prompt.
type SystemSummary struct {
	ID             string
	Title          string
	Origin         string
	Dynamics       string
	Architecture   string
	Topology       string
	Oversight      string
	AgencyLevel    float64
	AutonomyDegree string
	AlignmentScore float64
	Goal           string
}

// BuildMultiPrompt assembles the comparative policy-report prompt over
// several previously generated systems.
func BuildMultiPrompt(title string, systems []SystemSummary) string {
	var b strings.Builder
	b.WriteString("You are a foresight analyst writing a speculative futurist policy report.\n\n")
	fmt.Fprintf(&b, "Scenario Title: %s\n\n", title)
	b.WriteString("Artificial Superintelligent Systems (ASIs):\n")
	for _, s := range systems {
		fmt.Fprintf(&b,
			"ASI %s (%s): Origin: %s / %s, Architecture: %s / %s, Oversight: %s, Agency Level: %.2f, Autonomy Degree: %s, Alignment Score: %.2f, Goal: %s\n",
			s.ID, s.Title, s.Origin, s.Dynamics, s.Architecture, s.Topology,
			s.Oversight, s.AgencyLevel, s.AutonomyDegree, s.AlignmentScore, s.Goal)
	}
	b.WriteString(`
Instructions:
- Describe each ASI's origin, architecture, development, and goals.
- Explain differences in their oversight and control structures.
- Explore their interactions, including cooperation, competition, and conflict.
- Analyze potential societal, economic, and existential risks.
- Conclude with a speculative timeline of developments and outcomes.

Your report should be approximately 700 words.`)
	return b.String()
}

// #endregion
