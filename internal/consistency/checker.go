// Package consistency checks generated narrative text against the sampled
// parameters it was generated from. Rules are independent substring checks;
// all rules run so the caller gets the full failure list.
package consistency

// #region imports
import (
	"strings"

	"github.com/oasis-observatory/oasis-generator/internal/params"
)

// #endregion

// #region verdict

// Verdict is the outcome of a full rule pass.
type Verdict struct {
	OK       bool
	Failures []string
}

// #endregion

// #region phrase-lists

// agencyThreshold is the agency level below which high-agency vocabulary is
// forbidden.
const agencyThreshold = 0.3

var openOriginPhrases = []string{
	"open", "community", "collaborat", "transpar", "public",
}

var oversightPhrases = []string{
	"oversight", "govern", "audit", "control", "regulat",
}

var highAgencyPhrases = []string{
	"strategic", "self-improving", "autonomous", "agent",
}

// #endregion

// #region rules

// Rule is one named consistency check.
type Rule struct {
	Name  string
	Check func(p params.Set, lower string) (bool, string)
}

// Rules is the ordered rule set applied to every narrative.
var Rules = []Rule{
	{Name: "origin", Check: CheckOrigin},
	{Name: "oversight", Check: CheckOversight},
	{Name: "agency", Check: CheckAgency},
}

// CheckOrigin requires open-source systems to mention transparency or
// community vocabulary.
func CheckOrigin(p params.Set, lower string) (bool, string) {
	if p.InitialOrigin != "open-source" {
		return true, ""
	}
	if !containsAny(lower, openOriginPhrases) {
		return false, "open-source origin must mention transparency/community"
	}
	return true, ""
}

// CheckOversight forbids control and governance vocabulary when the system
// has no oversight.
func CheckOversight(p params.Set, lower string) (bool, string) {
	if p.OversightType != "none" {
		return true, ""
	}
	if containsAny(lower, oversightPhrases) {
		return false, "oversight type none forbids control/governance vocabulary"
	}
	return true, ""
}

// CheckAgency forbids high-agency vocabulary below the agency threshold.
func CheckAgency(p params.Set, lower string) (bool, string) {
	if p.AgencyLevel >= agencyThreshold {
		return true, ""
	}
	if containsAny(lower, highAgencyPhrases) {
		return false, "low agency level forbids high-agency vocabulary"
	}
	return true, ""
}

// #endregion

// #region check

// Check runs every rule against the narrative and collects the failures in
// rule order. Matching is case-insensitive substring presence.
func Check(p params.Set, narrative string) Verdict {
	lower := strings.ToLower(narrative)
	var failures []string
	for _, r := range Rules {
		if ok, msg := r.Check(p, lower); !ok {
			failures = append(failures, msg)
		}
	}
	return Verdict{OK: len(failures) == 0, Failures: failures}
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// #endregion
