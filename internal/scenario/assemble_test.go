package scenario

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

func TestAssemble_GroupsParameters(t *testing.T) {
	p := params.Sample(rand.New(rand.NewSource(11)))
	phases := []timeline.Phase{{Phase: "Pivot Year", Years: "2026", Description: "now"}}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	rec := Assemble("T-001", p, phases, "narrative text", now)

	if rec.ID == "" {
		t.Error("missing identifier")
	}
	if rec.Origin.InitialOrigin != p.InitialOrigin {
		t.Errorf("origin %q, want %q", rec.Origin.InitialOrigin, p.InitialOrigin)
	}
	if rec.OversightStructure.Type != p.OversightType {
		t.Errorf("oversight %q, want %q", rec.OversightStructure.Type, p.OversightType)
	}
	if rec.CoreCapabilities.AgencyLevel != p.AgencyLevel {
		t.Errorf("agency %v, want %v", rec.CoreCapabilities.AgencyLevel, p.AgencyLevel)
	}
	if rec.ScenarioContent.Narrative != "narrative text" {
		t.Error("narrative not embedded")
	}
	if len(rec.ScenarioContent.Timeline.Phases) != 1 {
		t.Error("timeline not embedded")
	}
	if rec.Metadata.Created != "2026-08-31T12:00:00Z" {
		t.Errorf("created %q", rec.Metadata.Created)
	}
	if rec.Metadata.Created != rec.Metadata.LastUpdated {
		t.Error("created and last_updated must match at assembly")
	}
	if rec.Metadata.Version != 1 || rec.Metadata.Source != "generated" {
		t.Errorf("metadata %+v", rec.Metadata)
	}
}

func TestAssemble_FreshIdentifiers(t *testing.T) {
	p := params.Sample(rand.New(rand.NewSource(3)))
	now := time.Now()
	a := Assemble("T", p, nil, "n", now)
	b := Assemble("T", p, nil, "n", now)
	if a.ID == b.ID {
		t.Error("identifiers must be freshly generated per assembly")
	}
}

func TestAssemble_SetFieldsSerializeAsArrays(t *testing.T) {
	p := params.Set{} // nil MesaGoals / ImpactDomains
	phases := []timeline.Phase{{Phase: "Pivot Year", Years: "2026", Description: "now"}}
	rec := Assemble("T", p, phases, "n", time.Now())
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, field := range []string{`"mesa_goals":[]`, `"impact_domains":[]`, `"key_indicators":[]`} {
		if !strings.Contains(s, field) {
			t.Errorf("serialized record missing %s", field)
		}
	}
	if strings.Contains(s, "null") {
		t.Error("record must not serialize null members")
	}
}

func TestDefaultAssessment_FixedShape(t *testing.T) {
	a := DefaultAssessment()
	if a.Probability.EmergenceProbability != 0.4 || a.Probability.Trend != "stable" {
		t.Errorf("probability block %+v", a.Probability)
	}
	totalWeight := a.RiskAssessment.Existential.Weight + a.RiskAssessment.Economic.Weight +
		a.RiskAssessment.Social.Weight + a.RiskAssessment.Political.Weight
	if totalWeight < 0.999 || totalWeight > 1.001 {
		t.Errorf("risk weights sum to %v, want 1", totalWeight)
	}
}
