package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/oasis-observatory/oasis-generator/internal/scenario"
	"github.com/oasis-observatory/oasis-generator/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to scenarios.db")
	last := flag.Int("last", 20, "show N most recent scenarios")
	id := flag.String("id", "", "show single scenario detail")
	origin := flag.String("origin", "", "filter by initial origin")
	oversight := flag.String("oversight", "", "filter by oversight type")
	goal := flag.String("goal", "", "filter by stated goal")
	title := flag.String("title", "", "filter by title substring")
	minAgency := flag.Float64("min-agency", -1, "filter by minimum agency level")
	maxAgency := flag.Float64("max-agency", -1, "filter by maximum agency level")
	orderBy := flag.String("order", "", "sort column, optionally with ASC/DESC")
	showLog := flag.Int("log", 0, "show N most recent generation log rows instead")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/scenarios.db [--last N] [--id uuid] [--origin o] [--oversight t] [--goal g] [--title s] [--min-agency f] [--max-agency f] [--order col] [--log N] [--json]")
		os.Exit(2)
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *showLog > 0:
		err = runLogMode(st, *showLog, *jsonOut)
	case *id != "":
		err = runDetailMode(st, *id, *jsonOut)
	default:
		filters := store.Filters{
			Origin:        *origin,
			OversightType: *oversight,
			StatedGoal:    *goal,
			TitleContains: *title,
		}
		if *minAgency >= 0 {
			filters.MinAgency = minAgency
		}
		if *maxAgency >= 0 {
			filters.MaxAgency = maxAgency
		}
		err = runListMode(st, filters, *orderBy, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt string  `json:"created_at"`
	Origin    string  `json:"initial_origin"`
	Oversight string  `json:"oversight_type"`
	Goal      string  `json:"stated_goal"`
	Agency    float64 `json:"agency_level"`
	Alignment float64 `json:"alignment_score"`
}

func runListMode(st *store.Store, filters store.Filters, orderBy string, limit int, jsonOut bool) error {
	records, err := st.Query(filters, orderBy, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no scenarios found")
		return nil
	}

	rows := make([]listRow, len(records))
	for i, rec := range records {
		rows[i] = listRow{
			ID:        rec.ID,
			Title:     rec.Title,
			CreatedAt: rec.Metadata.Created,
			Origin:    rec.Origin.InitialOrigin,
			Oversight: rec.OversightStructure.Type,
			Goal:      rec.GoalsAndBehavior.StatedGoal,
			Agency:    rec.CoreCapabilities.AgencyLevel,
			Alignment: rec.CoreCapabilities.AlignmentScore,
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-36s  %-28s  %-12s  %-18s  %-13s  %6s  %6s\n",
		"ID", "TITLE", "ORIGIN", "OVERSIGHT", "GOAL", "AGENCY", "ALIGN")
	for _, r := range rows {
		fmt.Printf("%-36s  %-28s  %-12s  %-18s  %-13s  %6.2f  %6.2f\n",
			r.ID, truncate(r.Title, 28), r.Origin, r.Oversight, r.Goal, r.Agency, r.Alignment)
	}
	fmt.Printf("\n%d scenarios\n", len(rows))
	return nil
}

// #endregion

// #region detail-mode

func runDetailMode(st *store.Store, id string, jsonOut bool) error {
	rec, err := st.Get(id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(rec)
	}
	printDetail(rec)
	return nil
}

func printDetail(rec *scenario.Scenario) {
	fmt.Printf("ID:        %s\n", rec.ID)
	fmt.Printf("Title:     %s\n", rec.Title)
	fmt.Printf("Created:   %s\n", rec.Metadata.Created)
	fmt.Printf("Origin:    %s / %s\n", rec.Origin.InitialOrigin, rec.Origin.DevelopmentDynamics)
	fmt.Printf("Arch:      %s / %s\n", rec.Architecture.Type, rec.Architecture.DeploymentTopology)
	fmt.Printf("Substrate: %s on %s (%s)\n", rec.Substrate.Type, rec.Substrate.DeploymentMedium, rec.Substrate.Resilience)
	fmt.Printf("Oversight: %s (%s, via %s)\n", rec.OversightStructure.Type, rec.OversightStructure.Effectiveness, rec.OversightStructure.ControlSurface)
	fmt.Printf("Agency:    %.2f  Alignment: %.2f  Autonomy: %s\n",
		rec.CoreCapabilities.AgencyLevel, rec.CoreCapabilities.AlignmentScore, rec.CoreCapabilities.AutonomyDegree)
	fmt.Printf("Goal:      %s (%s)\n", rec.GoalsAndBehavior.StatedGoal, rec.GoalsAndBehavior.GoalStability)
	if len(rec.GoalsAndBehavior.MesaGoals) > 0 {
		fmt.Printf("Mesa:      %s\n", strings.Join(rec.GoalsAndBehavior.MesaGoals, ", "))
	}
	fmt.Printf("Domains:   %s\n", strings.Join(rec.ImpactAndControl.ImpactDomains, ", "))

	fmt.Println("\nTimeline:")
	for _, ph := range rec.ScenarioContent.Timeline.Phases {
		fmt.Printf("  %-22s %-12s %s\n", ph.Phase, ph.Years, ph.Description)
	}

	fmt.Println("\nNarrative:")
	fmt.Println(rec.ScenarioContent.Narrative)
}

// #endregion

// #region log-mode

func runLogMode(st *store.Store, limit int, jsonOut bool) error {
	attempts, err := st.Attempts(limit)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintln(os.Stderr, "no generation log rows found")
		return nil
	}
	if jsonOut {
		return printJSON(attempts)
	}

	fmt.Printf("%-20s  %-28s  %3s  %-10s  %-18s  %s\n", "CREATED", "TITLE", "ATT", "MODEL", "OUTCOME", "REASON")
	for _, a := range attempts {
		fmt.Printf("%-20s  %-28s  %3d  %-10s  %-18s  %s\n",
			a.CreatedAt.Format("2006-01-02 15:04:05"), truncate(a.Title, 28),
			a.Attempt, a.Model, a.Outcome, truncate(a.Reason, 60))
	}
	return nil
}

// #endregion

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// #endregion
