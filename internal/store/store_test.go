package store

// #region imports
import (
	"math/rand"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/oasis-observatory/oasis-generator/internal/abbrev"
	"github.com/oasis-observatory/oasis-generator/internal/params"
	"github.com/oasis-observatory/oasis-generator/internal/scenario"
	"github.com/oasis-observatory/oasis-generator/internal/timeline"
)

// #endregion

// #region helpers

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const testNarrative = "In the opening years the system grew quietly inside a corporate lab, " +
	"expanding its reach one deployment at a time until oversight could no longer keep pace " +
	"with the scale of its operations across every connected market."

func newRecord(t *testing.T, seed int64, n int) *scenario.Scenario {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := params.Sample(rng)
	tl := timeline.New(timeline.DefaultPolicy(), rng)
	phases := tl.Synthesize(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	title := abbrev.Title(p, n)
	return scenario.Assemble(title, p, phases, testNarrative, time.Now().UTC())
}

// #endregion

// #region save-get

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTemp(t)
	rec := newRecord(t, 1, 1)

	if err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestSaveUpsertsByID(t *testing.T) {
	s := openTemp(t)
	rec := newRecord(t, 2, 1)

	if err := s.Save(rec); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	rec.ScenarioContent.Narrative = rec.ScenarioContent.Narrative + " A later revision extends the account."
	if err := s.Save(rec); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", n)
	}
	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(got.ScenarioContent.Narrative, "later revision") {
		t.Error("upsert did not replace record data")
	}
}

func TestGetMissingID(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get("no-such-id"); err == nil {
		t.Error("expected error for missing id")
	}
}

// #endregion

// #region query

func seedRecords(t *testing.T, s *Store, count int) []*scenario.Scenario {
	t.Helper()
	records := make([]*scenario.Scenario, 0, count)
	for i := 0; i < count; i++ {
		rec := newRecord(t, int64(100+i), i+1)
		if err := s.Save(rec); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestQueryEqualityFilters(t *testing.T) {
	s := openTemp(t)
	records := seedRecords(t, s, 12)

	origin := records[0].Origin.InitialOrigin
	want := 0
	for _, rec := range records {
		if rec.Origin.InitialOrigin == origin {
			want++
		}
	}

	got, err := s.Query(Filters{Origin: origin}, "", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != want {
		t.Fatalf("expected %d records with origin %q, got %d", want, origin, len(got))
	}
	for _, rec := range got {
		if rec.Origin.InitialOrigin != origin {
			t.Errorf("record %s has origin %q, want %q", rec.ID, rec.Origin.InitialOrigin, origin)
		}
	}
}

func TestQueryAgencyRange(t *testing.T) {
	s := openTemp(t)
	records := seedRecords(t, s, 12)

	min, max := 0.3, 0.7
	want := 0
	for _, rec := range records {
		a := rec.CoreCapabilities.AgencyLevel
		if a >= min && a <= max {
			want++
		}
	}

	got, err := s.Query(Filters{MinAgency: &min, MaxAgency: &max}, "", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != want {
		t.Fatalf("expected %d records in agency range, got %d", want, len(got))
	}
	for _, rec := range got {
		a := rec.CoreCapabilities.AgencyLevel
		if a < min || a > max {
			t.Errorf("record %s agency %.2f outside [%.1f, %.1f]", rec.ID, a, min, max)
		}
	}
}

func TestQueryTitleContains(t *testing.T) {
	s := openTemp(t)
	records := seedRecords(t, s, 5)

	// Titles end in a unique -NNN sequence number.
	got, err := s.Query(Filters{TitleContains: "-003"}, "", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record matching -003, got %d", len(got))
	}
	if got[0].ID != records[2].ID {
		t.Errorf("matched wrong record: got %s, want %s", got[0].ID, records[2].ID)
	}
}

func TestQueryLimitAndOrder(t *testing.T) {
	s := openTemp(t)
	seedRecords(t, s, 10)

	got, err := s.Query(Filters{}, "agency_level DESC", 4)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CoreCapabilities.AgencyLevel > got[i-1].CoreCapabilities.AgencyLevel {
			t.Errorf("records not in descending agency order at index %d", i)
		}
	}
}

func TestSanitizeOrderRejectsUnlisted(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"title", "title"},
		{"agency_level DESC", "agency_level DESC"},
		{"created_at asc", "created_at ASC"},
		{"", defaultOrder},
		{"data", defaultOrder},
		{"title; DROP TABLE scenarios", defaultOrder},
		{"agency_level DESC, title", defaultOrder},
		{"(SELECT 1)", defaultOrder},
	}
	for _, tc := range cases {
		if got := sanitizeOrder(tc.expr); got != tc.want {
			t.Errorf("sanitizeOrder(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

// #endregion

// #region latest-random

func TestLatestNewestFirst(t *testing.T) {
	s := openTemp(t)
	records := seedRecords(t, s, 6)

	got, err := s.Latest(3)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 0; i < 3; i++ {
		want := records[len(records)-1-i]
		if got[i].ID != want.ID {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want.ID)
		}
	}
}

func TestRandomWithoutReplacement(t *testing.T) {
	s := openTemp(t)
	seedRecords(t, s, 8)

	got, err := s.Random(5)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
	seen := make(map[string]bool)
	for _, rec := range got {
		if seen[rec.ID] {
			t.Errorf("record %s drawn twice", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestRandomMoreThanStored(t *testing.T) {
	s := openTemp(t)
	seedRecords(t, s, 2)

	got, err := s.Random(10)
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected all 2 records, got %d", len(got))
	}
}

// #endregion

// #region multi

func TestMultiRoundTrip(t *testing.T) {
	s := openTemp(t)
	rec := MultiRecord{
		ID:           "multi-1",
		Title:        "COR-ENG-001 vs STA-EVO-002",
		Metadata:     []byte(`{"created":"2026-03-01T00:00:00Z","version":1}`),
		ASIs:         []byte(`[{"id":"a"},{"id":"b"}]`),
		Content:      []byte(`{"narrative":"two systems contend"}`),
		Observations: []byte(`[]`),
	}
	if err := s.SaveMulti(rec); err != nil {
		t.Fatalf("SaveMulti: %v", err)
	}
	got, err := s.GetMulti("multi-1")
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if got.Title != rec.Title {
		t.Errorf("title: got %q, want %q", got.Title, rec.Title)
	}
	if string(got.ASIs) != string(rec.ASIs) {
		t.Errorf("asis: got %s, want %s", got.ASIs, rec.ASIs)
	}
}

// #endregion

// #region generation-log

func TestLogAttemptAndRead(t *testing.T) {
	s := openTemp(t)

	attempts := []AttemptRecord{
		{Title: "COR-ENG-001", Attempt: 1, Model: "llama3", Outcome: "narrative_failed", Reason: "timeout"},
		{Title: "COR-ENG-001", Attempt: 2, Model: "mistral", Outcome: "inconsistent", Reason: "oversight type none forbids control/governance vocabulary"},
		{Title: "COR-ENG-001", Attempt: 3, Model: "mistral", Outcome: "accepted", ScenarioID: "abc-123"},
	}
	for _, a := range attempts {
		if err := s.LogAttempt(a); err != nil {
			t.Fatalf("LogAttempt: %v", err)
		}
	}

	got, err := s.Attempts(10)
	if err != nil {
		t.Fatalf("Attempts: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 log rows, got %d", len(got))
	}
	// Newest first.
	if got[0].Outcome != "accepted" || got[0].ScenarioID != "abc-123" {
		t.Errorf("unexpected newest row: %+v", got[0])
	}
	if got[2].Attempt != 1 || got[2].Reason != "timeout" {
		t.Errorf("unexpected oldest row: %+v", got[2])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

// #endregion
