// Package store persists validated scenario records in SQLite and answers
// filtered queries over the indexed record columns. It also keeps a
// per-attempt generation log for post-hoc inspection of retry behavior.
package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/oasis-observatory/oasis-generator/internal/scenario"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	initial_origin   TEXT NOT NULL,
	oversight_type   TEXT NOT NULL,
	stated_goal      TEXT NOT NULL,
	agency_level     REAL NOT NULL,
	alignment_score  REAL NOT NULL,
	data             TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_origin    ON scenarios(initial_origin);
CREATE INDEX IF NOT EXISTS idx_scenarios_oversight ON scenarios(oversight_type);
CREATE INDEX IF NOT EXISTS idx_scenarios_goal      ON scenarios(stated_goal);
CREATE INDEX IF NOT EXISTS idx_scenarios_created   ON scenarios(created_at);

CREATE TABLE IF NOT EXISTS multi_scenarios (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	metadata          TEXT NOT NULL,
	asis              TEXT NOT NULL,
	scenario_content  TEXT NOT NULL,
	observations      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS generation_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario_id  TEXT,
	title        TEXT NOT NULL,
	attempt      INTEGER NOT NULL,
	model        TEXT,
	outcome      TEXT NOT NULL,
	reason       TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion

// #region store-struct

// Store manages scenario persistence in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion

// #region save

// Save writes one record, upserting by identifier. Identifiers are freshly
// generated per attempt, so in practice every save is an insert.
func (s *Store) Save(rec *scenario.Scenario) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO scenarios
		(id, title, created_at, initial_origin, oversight_type, stated_goal, agency_level, alignment_score, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			initial_origin = excluded.initial_origin,
			oversight_type = excluded.oversight_type,
			stated_goal = excluded.stated_goal,
			agency_level = excluded.agency_level,
			alignment_score = excluded.alignment_score,
			data = excluded.data`,
		rec.ID,
		rec.Title,
		rec.Metadata.Created,
		rec.Origin.InitialOrigin,
		rec.OversightStructure.Type,
		rec.GoalsAndBehavior.StatedGoal,
		rec.CoreCapabilities.AgencyLevel,
		rec.CoreCapabilities.AlignmentScore,
		string(raw),
	)
	if err != nil {
		return fmt.Errorf("save scenario %s: %w", rec.ID, err)
	}
	return nil
}

// #endregion

// #region get

// Get retrieves one record by identifier.
func (s *Store) Get(id string) (*scenario.Scenario, error) {
	var raw string
	err := s.db.QueryRow(`SELECT data FROM scenarios WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("get scenario %s: %w", id, err)
	}
	return decode(raw)
}

// #endregion

// #region query

// Filters holds the named predicates applied to the indexed columns. Zero
// values mean "no constraint".
type Filters struct {
	Origin        string   // equality on initial_origin
	OversightType string   // equality on oversight_type
	StatedGoal    string   // equality on stated_goal
	TitleContains string   // substring on title
	MinAgency     *float64 // range on agency_level
	MaxAgency     *float64
	MinAlignment  *float64 // range on alignment_score
	MaxAlignment  *float64
}

// orderColumns is the allowlist for raw order-by expressions.
var orderColumns = map[string]bool{
	"id": true, "title": true, "created_at": true,
	"initial_origin": true, "oversight_type": true, "stated_goal": true,
	"agency_level": true, "alignment_score": true, "rowid": true,
}

const defaultOrder = "created_at DESC"

// Query returns up to limit records matching the filters, sorted by orderBy.
// An orderBy outside the indexed-column allowlist falls back to the default
// ordering; limit <= 0 means no limit.
func (s *Store) Query(f Filters, orderBy string, limit int) ([]*scenario.Scenario, error) {
	var conds []string
	var args []any

	eq := func(col, val string) {
		if val != "" {
			conds = append(conds, col+" = ?")
			args = append(args, val)
		}
	}
	eq("initial_origin", f.Origin)
	eq("oversight_type", f.OversightType)
	eq("stated_goal", f.StatedGoal)
	if f.TitleContains != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+f.TitleContains+"%")
	}
	rng := func(col string, min, max *float64) {
		if min != nil {
			conds = append(conds, col+" >= ?")
			args = append(args, *min)
		}
		if max != nil {
			conds = append(conds, col+" <= ?")
			args = append(args, *max)
		}
	}
	rng("agency_level", f.MinAgency, f.MaxAgency)
	rng("alignment_score", f.MinAlignment, f.MaxAlignment)

	q := "SELECT data FROM scenarios"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + sanitizeOrder(orderBy)
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryData(q, args...)
}

// sanitizeOrder accepts "col" or "col ASC|DESC" over allowlisted columns.
func sanitizeOrder(expr string) string {
	fields := strings.Fields(strings.TrimSpace(expr))
	switch len(fields) {
	case 1:
		if orderColumns[strings.ToLower(fields[0])] {
			return fields[0]
		}
	case 2:
		dir := strings.ToUpper(fields[1])
		if orderColumns[strings.ToLower(fields[0])] && (dir == "ASC" || dir == "DESC") {
			return fields[0] + " " + dir
		}
	}
	return defaultOrder
}

// #endregion

// #region latest-random-count

// Latest returns the n most recently inserted records, newest first.
func (s *Store) Latest(n int) ([]*scenario.Scenario, error) {
	return s.queryData(`SELECT data FROM scenarios ORDER BY rowid DESC LIMIT ?`, n)
}

// Random returns up to n records drawn uniformly without replacement.
func (s *Store) Random(n int) ([]*scenario.Scenario, error) {
	return s.queryData(`SELECT data FROM scenarios ORDER BY RANDOM() LIMIT ?`, n)
}

// Count returns the number of stored scenarios.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scenarios: %w", err)
	}
	return n, nil
}

// #endregion

// #region scan-helpers

func (s *Store) queryData(q string, args ...any) ([]*scenario.Scenario, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var records []*scenario.Scenario
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec, err := decode(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func decode(raw string) (*scenario.Scenario, error) {
	var rec scenario.Scenario
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return &rec, nil
}

// #endregion

// #region multi

// MultiRecord is one composed multi-system scenario row. The JSON columns
// mirror the composed record's sections.
type MultiRecord struct {
	ID           string
	Title        string
	Metadata     json.RawMessage
	ASIs         json.RawMessage
	Content      json.RawMessage
	Observations json.RawMessage
}

// SaveMulti upserts one composed record.
func (s *Store) SaveMulti(rec MultiRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO multi_scenarios (id, title, metadata, asis, scenario_content, observations)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			metadata = excluded.metadata,
			asis = excluded.asis,
			scenario_content = excluded.scenario_content,
			observations = excluded.observations`,
		rec.ID, rec.Title,
		string(rec.Metadata), string(rec.ASIs), string(rec.Content), string(rec.Observations),
	)
	if err != nil {
		return fmt.Errorf("save multi scenario %s: %w", rec.ID, err)
	}
	return nil
}

// GetMulti retrieves one composed record by identifier.
func (s *Store) GetMulti(id string) (MultiRecord, error) {
	var rec MultiRecord
	var meta, asis, content, obs string
	err := s.db.QueryRow(`
		SELECT id, title, metadata, asis, scenario_content, observations
		FROM multi_scenarios WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Title, &meta, &asis, &content, &obs)
	if err != nil {
		return MultiRecord{}, fmt.Errorf("get multi scenario %s: %w", id, err)
	}
	rec.Metadata = json.RawMessage(meta)
	rec.ASIs = json.RawMessage(asis)
	rec.Content = json.RawMessage(content)
	rec.Observations = json.RawMessage(obs)
	return rec, nil
}

// #endregion

// #region generation-log

// AttemptRecord is one generation_log row: the outcome of a single attempt
// within the assembler's retry loop.
type AttemptRecord struct {
	ScenarioID string // empty unless the attempt was accepted and saved
	Title      string
	Attempt    int
	Model      string
	Outcome    string // accepted | narrative_failed | inconsistent | validation_failed | save_failed
	Reason     string
	CreatedAt  time.Time
}

// LogAttempt appends one attempt to the generation log.
func (s *Store) LogAttempt(rec AttemptRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO generation_log (scenario_id, title, attempt, model, outcome, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(rec.ScenarioID),
		rec.Title,
		rec.Attempt,
		nullIfEmpty(rec.Model),
		rec.Outcome,
		nullIfEmpty(rec.Reason),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log attempt: %w", err)
	}
	return nil
}

// Attempts returns the most recent generation log rows, newest first.
func (s *Store) Attempts(limit int) ([]AttemptRecord, error) {
	rows, err := s.db.Query(`
		SELECT scenario_id, title, attempt, model, outcome, reason, created_at
		FROM generation_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generation log: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		var scenarioID, model, reason sql.NullString
		var createdStr string
		if err := rows.Scan(&scenarioID, &rec.Title, &rec.Attempt, &model, &rec.Outcome, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		rec.ScenarioID = scenarioID.String
		rec.Model = model.String
		rec.Reason = reason.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion
