// Package abbrev builds the short structural title code for a scenario.
// Format: IO-DD-ARC-TOPO-OVS-OEFF-SUB-NNN, one code per structural parameter
// plus a zero-padded sequence number.
package abbrev

// #region imports
import (
	"fmt"
	"strings"

	"github.com/oasis-observatory/oasis-generator/internal/params"
)

// #endregion

// #region short-code

// ShortCode reduces a parameter value to at most three uppercase letters:
// dash-separated values contribute one initial per part, plain values their
// first three letters.
func ShortCode(value string) string {
	if value == "" {
		return "UNK"
	}
	if strings.Contains(value, "-") {
		var b strings.Builder
		for _, part := range strings.Split(value, "-") {
			if part == "" {
				continue
			}
			b.WriteString(strings.ToUpper(part[:1]))
			if b.Len() == 3 {
				break
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
		return "UNK"
	}
	if len(value) <= 3 {
		return strings.ToUpper(value)
	}
	return strings.ToUpper(value[:3])
}

// #endregion

// #region title

// Title renders the structural abbreviation for a parameter set with the
// given sequence number.
func Title(p params.Set, n int) string {
	codes := []string{
		ShortCode(p.InitialOrigin),
		ShortCode(p.DevelopmentDynamics),
		ShortCode(p.Architecture),
		ShortCode(p.DeploymentTopology),
		ShortCode(p.OversightType),
		ShortCode(p.OversightEffectiveness),
		ShortCode(p.Substrate),
	}
	return fmt.Sprintf("%s-%03d", strings.Join(codes, "-"), n)
}

// #endregion
