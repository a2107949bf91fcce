package multi

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/oasis-observatory/oasis-generator/internal/abbrev"
	"github.com/oasis-observatory/oasis-generator/internal/narrative"
	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/scenario"
	"github.com/oasis-observatory/oasis-generator/internal/store"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region stubs

type stubSource struct {
	records []*scenario.Scenario
	err     error
}

func (s *stubSource) Random(n int) ([]*scenario.Scenario, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	return s.records[:n], nil
}

type stubSink struct {
	saved []store.MultiRecord
	err   error
}

func (s *stubSink) SaveMulti(rec store.MultiRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

type stubBackend struct {
	narrative string
	err       error
	requests  []narrative.Request
}

func (b *stubBackend) Generate(_ context.Context, req narrative.Request) (narrative.Result, error) {
	b.requests = append(b.requests, req)
	if b.err != nil {
		return narrative.Result{Cursor: req.Cursor + 1}, b.err
	}
	return narrative.Result{Narrative: b.narrative, Model: "mistral", Cursor: req.Cursor + 1}, nil
}

func storedRecords(t *testing.T, count int) []*scenario.Scenario {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := make([]*scenario.Scenario, count)
	for i := range records {
		p := params.Sample(rng)
		phases := timeline.New(timeline.DefaultPolicy(), rng).Synthesize(now)
		title := abbrev.Title(p, i+1)
		records[i] = scenario.Assemble(title, p, phases, "a previously accepted narrative of sufficient length for storage and retrieval in this test", now)
	}
	return records
}

// #endregion

// #region compose

func TestComposeBuildsAndSavesRecord(t *testing.T) {
	records := storedRecords(t, 2)
	src := &stubSource{records: records}
	sink := &stubSink{}
	backend := &stubBackend{narrative: "The two systems contend over shared infrastructure until an uneasy balance holds."}
	c := New(src, sink, backend, narrative.StrategyPriority, "", func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	})

	composed, cursor, err := c.Compose(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if cursor != 1 {
		t.Errorf("cursor: got %d, want 1", cursor)
	}
	wantTitle := records[0].Title + " vs " + records[1].Title
	if composed.Title != wantTitle {
		t.Errorf("title: got %q, want %q", composed.Title, wantTitle)
	}
	if len(composed.ASIs) != 2 {
		t.Fatalf("expected 2 systems, got %d", len(composed.ASIs))
	}
	if composed.ASIs[0].ID != records[0].ID || composed.ASIs[0].Goal != records[0].GoalsAndBehavior.StatedGoal {
		t.Errorf("first system block mismatch: %+v", composed.ASIs[0])
	}
	if composed.Content.Narrative != backend.narrative {
		t.Error("narrative not carried into record")
	}
	if composed.Metadata.Created != "2026-03-02T12:00:00Z" || composed.Metadata.Source != "composed" {
		t.Errorf("metadata: %+v", composed.Metadata)
	}
	if composed.ID == "" || composed.ID == records[0].ID {
		t.Errorf("composed record needs its own id, got %q", composed.ID)
	}

	if len(sink.saved) != 1 {
		t.Fatalf("expected 1 saved row, got %d", len(sink.saved))
	}
	row := sink.saved[0]
	if row.ID != composed.ID || row.Title != wantTitle {
		t.Errorf("saved row header mismatch: %+v", row)
	}
	var systems []System
	if err := json.Unmarshal(row.ASIs, &systems); err != nil {
		t.Fatalf("asis column not valid JSON: %v", err)
	}
	if len(systems) != 2 || systems[1].Title != records[1].Title {
		t.Errorf("asis column mismatch: %+v", systems)
	}
	if string(row.Observations) != "[]" {
		t.Errorf("observations should serialize as [], got %s", row.Observations)
	}
}

func TestComposePromptCoversEverySystem(t *testing.T) {
	records := storedRecords(t, 3)
	backend := &stubBackend{narrative: "report text long enough to be a narrative for the composed scenario record here"}
	c := New(&stubSource{records: records}, &stubSink{}, backend, narrative.StrategyPriority, "", nil)

	if _, _, err := c.Compose(context.Background(), 3, 0); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(backend.requests) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(backend.requests))
	}
	prompt := backend.requests[0].Prompt
	if prompt == "" {
		t.Fatal("composer must pass an explicit prompt")
	}
	for _, rec := range records {
		if !strings.Contains(prompt, rec.Title) {
			t.Errorf("prompt missing system %q", rec.Title)
		}
	}
	if !strings.Contains(prompt, "policy report") {
		t.Error("prompt missing report framing")
	}
}

// #endregion

// #region failures

func TestComposeRequiresTwoSystems(t *testing.T) {
	c := New(&stubSource{}, &stubSink{}, &stubBackend{}, narrative.StrategyPriority, "", nil)

	if _, _, err := c.Compose(context.Background(), 1, 0); err == nil {
		t.Error("expected error for count < 2")
	}

	c = New(&stubSource{records: storedRecords(t, 1)}, &stubSink{}, &stubBackend{}, narrative.StrategyPriority, "", nil)
	if _, _, err := c.Compose(context.Background(), 2, 0); err == nil {
		t.Error("expected error when the store holds fewer than 2 records")
	}
}

func TestComposeBackendFailure(t *testing.T) {
	backend := &stubBackend{err: narrative.ErrAllModelsFailed}
	sink := &stubSink{}
	c := New(&stubSource{records: storedRecords(t, 2)}, sink, backend, narrative.StrategyPriority, "", nil)

	_, cursor, err := c.Compose(context.Background(), 2, 0)
	if !errors.Is(err, narrative.ErrAllModelsFailed) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if cursor != 1 {
		t.Errorf("cursor must still advance, got %d", cursor)
	}
	if len(sink.saved) != 0 {
		t.Error("nothing may be saved on failure")
	}
}

func TestComposeSaveFailure(t *testing.T) {
	sink := &stubSink{err: errors.New("disk full")}
	backend := &stubBackend{narrative: "narrative output that is long enough for the composed record to carry onward"}
	c := New(&stubSource{records: storedRecords(t, 2)}, sink, backend, narrative.StrategyPriority, "", nil)

	if _, _, err := c.Compose(context.Background(), 2, 0); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected save error, got %v", err)
	}
}

// #endregion
