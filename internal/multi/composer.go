// Package multi composes comparative scenarios over several previously
// generated systems: it draws stored records at random, condenses each into
// a summary, and requests one policy-report narrative covering all of them.
package multi

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/scenario"
	"github.com/oasis-observatory/oasis-generator/internal/store"
)

// #endregion

// #region interfaces

// Source supplies stored single-system records.
type Source interface {
	Random(n int) ([]*scenario.Scenario, error)
}

// Sink persists composed records.
type Sink interface {
	SaveMulti(rec store.MultiRecord) error
}

// Backend produces the comparative narrative.
type Backend interface {
	Generate(ctx context.Context, req narrative.Request) (narrative.Result, error)
}

// #endregion

// #region record

// System is the condensed per-system block embedded in a composed record.
type System struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Origin         string  `json:"origin"`
	Dynamics       string  `json:"development_dynamics"`
	Architecture   string  `json:"architecture"`
	Topology       string  `json:"deployment_topology"`
	Oversight      string  `json:"oversight_type"`
	AgencyLevel    float64 `json:"agency_level"`
	AutonomyDegree string  `json:"autonomy_degree"`
	AlignmentScore float64 `json:"alignment_score"`
	Goal           string  `json:"stated_goal"`
}

// Content holds the composed report text.
type Content struct {
	Title     string `json:"title"`
	Narrative string `json:"narrative"`
}

// Composed is one multi-system scenario record.
type Composed struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Metadata     scenario.Metadata `json:"metadata"`
	ASIs         []System          `json:"asis"`
	Content      Content           `json:"scenario_content"`
	Observations []string          `json:"observations"`
}

// Summarize condenses a stored record into its per-system block.
func Summarize(rec *scenario.Scenario) System {
	return System{
		ID:             rec.ID,
		Title:          rec.Title,
		Origin:         rec.Origin.InitialOrigin,
		Dynamics:       rec.Origin.DevelopmentDynamics,
		Architecture:   rec.Architecture.Type,
		Topology:       rec.Architecture.DeploymentTopology,
		Oversight:      rec.OversightStructure.Type,
		AgencyLevel:    rec.CoreCapabilities.AgencyLevel,
		AutonomyDegree: rec.CoreCapabilities.AutonomyDegree,
		AlignmentScore: rec.CoreCapabilities.AlignmentScore,
		Goal:           rec.GoalsAndBehavior.StatedGoal,
	}
}

// #endregion

// #region composer

// Composer builds and persists multi-system scenarios.
type Composer struct {
	src       Source
	sink      Sink
	backend   Backend
	strategy  narrative.Strategy
	preferred string
	now       func() time.Time
}

// New creates a composer. A nil now selects the real clock.
func New(src Source, sink Sink, backend Backend, strategy narrative.Strategy, preferred string, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{src: src, sink: sink, backend: backend, strategy: strategy, preferred: preferred, now: now}
}

// Compose draws count stored systems, generates one comparative report over
// them, and persists the composed record. cursor is the caller-owned
// round-robin position, returned advanced. At least two stored systems are
// required.
func (c *Composer) Compose(ctx context.Context, count, cursor int) (*Composed, int, error) {
	if count < 2 {
		return nil, cursor, fmt.Errorf("compose: need at least 2 systems, asked for %d", count)
	}
	records, err := c.src.Random(count)
	if err != nil {
		return nil, cursor, fmt.Errorf("compose: draw systems: %w", err)
	}
	if len(records) < 2 {
		return nil, cursor, fmt.Errorf("compose: need at least 2 stored scenarios, have %d", len(records))
	}

	systems := make([]System, len(records))
	summaries := make([]narrative.SystemSummary, len(records))
	titles := make([]string, len(records))
	for i, rec := range records {
		systems[i] = Summarize(rec)
		summaries[i] = narrative.SystemSummary(systems[i])
		titles[i] = rec.Title
	}
	title := strings.Join(titles, " vs ")

	res, err := c.backend.Generate(ctx, narrative.Request{
		Title:     title,
		Strategy:  c.strategy,
		Preferred: c.preferred,
		Cursor:    cursor,
		Prompt:    narrative.BuildMultiPrompt(title, summaries),
	})
	cursor = res.Cursor
	if err != nil {
		return nil, cursor, fmt.Errorf("compose %s: %w", title, err)
	}

	now := c.now().UTC().Format(time.RFC3339)
	composed := &Composed{
		ID:    uuid.New().String(),
		Title: title,
		Metadata: scenario.Metadata{
			Created:     now,
			LastUpdated: now,
			Version:     1,
			Source:      "composed",
		},
		ASIs:         systems,
		Content:      Content{Title: title, Narrative: res.Narrative},
		Observations: []string{},
	}

	row, err := encode(composed)
	if err != nil {
		return nil, cursor, err
	}
	if err := c.sink.SaveMulti(row); err != nil {
		return nil, cursor, fmt.Errorf("compose %s: %w", title, err)
	}
	return composed, cursor, nil
}

func encode(rec *Composed) (store.MultiRecord, error) {
	row := store.MultiRecord{ID: rec.ID, Title: rec.Title}
	for _, part := range []struct {
		dst *json.RawMessage
		src any
	}{
		{&row.Metadata, rec.Metadata},
		{&row.ASIs, rec.ASIs},
		{&row.Content, rec.Content},
		{&row.Observations, rec.Observations},
	} {
		raw, err := json.Marshal(part.src)
		if err != nil {
			return store.MultiRecord{}, fmt.Errorf("encode composed record: %w", err)
		}
		*part.dst = raw
	}
	return row, nil
}

// #endregion
