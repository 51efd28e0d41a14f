package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/danielpatrickdp/persona-forge/internal/logging"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/session"
	"github.com/danielpatrickdp/persona-forge/internal/state"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to persona.db")
	last := flag.Int("last", 20, "show N most recent journal rows")
	snapshot := flag.Int("snapshot", -1, "show single snapshot detail (0-based)")
	keys := flag.Bool("keys", false, "list stored keys instead of the session")
	journal := flag.Bool("journal", false, "show the history journal")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/persona.db [--snapshot n] [--keys] [--journal [--last N]] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *keys:
		err = runKeysMode(store, *jsonOut)
	case *journal:
		err = runJournalMode(store, *last, *jsonOut)
	case *snapshot >= 0:
		err = runDetailMode(store, *snapshot, *jsonOut)
	default:
		err = runListMode(store, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	Index      int    `json:"index"`
	Current    bool   `json:"current"`
	Step       string `json:"step"`
	Messages   int    `json:"vibe_messages"`
	HasPersona bool   `json:"has_persona"`
	DraftLen   int    `json:"draft_chars"`
	HasReport  bool   `json:"has_report"`
	SimTurns   int    `json:"simulation_turns"`
}

func loadSession(store *state.Store) (session.Record, error) {
	raw, ok, err := store.Get(state.KeySession)
	if err != nil {
		return session.Record{}, err
	}
	if !ok {
		return session.Record{}, fmt.Errorf("no saved session in this database")
	}
	return session.Decode(raw)
}

func summarize(i int, s persona.State, cursor int) listRow {
	return listRow{
		Index:      i,
		Current:    i == cursor,
		Step:       string(s.Step),
		Messages:   len(s.VibeMessages),
		HasPersona: s.StructuredPersona != nil,
		DraftLen:   utf8.RuneCountInString(s.CurrentDraft),
		HasReport:  s.AnalysisReport != nil,
		SimTurns:   len(s.SimulationHistory),
	}
}

func runListMode(store *state.Store, jsonOut bool) error {
	rec, err := loadSession(store)
	if err != nil {
		return err
	}

	rows := make([]listRow, len(rec.History))
	for i, s := range rec.History {
		rows[i] = summarize(i, s, rec.Index)
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("  %-5s  %-20s  %5s  %-7s  %6s  %-6s  %s\n",
		"Index", "Step", "Msgs", "Persona", "Draft", "Report", "Sim")
	fmt.Printf("  %-5s+-%-20s+-%5s+-%-7s+-%6s+-%-6s+-%s\n",
		"-----", "--------------------", "-----", "-------", "------", "------", "---")
	for _, r := range rows {
		mark := " "
		if r.Current {
			mark = ">"
		}
		fmt.Printf("%s %-5d  %-20s  %5d  %-7s  %6d  %-6s  %d\n",
			mark, r.Index, r.Step, r.Messages, yesNo(r.HasPersona), r.DraftLen, yesNo(r.HasReport), r.SimTurns)
	}
	fmt.Printf("\n%d snapshots, cursor at %d\n", len(rows), rec.Index)
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(store *state.Store, index int, jsonOut bool) error {
	rec, err := loadSession(store)
	if err != nil {
		return err
	}
	if index >= len(rec.History) {
		return fmt.Errorf("snapshot %d out of range (have %d)", index, len(rec.History))
	}
	s := rec.History[index]

	if jsonOut {
		return printJSON(s)
	}

	r := summarize(index, s, rec.Index)
	fmt.Printf("Snapshot:   %d\n", r.Index)
	fmt.Printf("Current:    %v\n", r.Current)
	fmt.Printf("Step:       %s\n", r.Step)
	fmt.Printf("Simulation: %s\n", s.SimulationType)
	fmt.Printf("Modifying:  %v\n", s.IsModifying)

	if len(s.VibeMessages) > 0 {
		fmt.Printf("\nVibe messages:\n")
		for _, m := range s.VibeMessages {
			fmt.Printf("  %-6s %s\n", m.Role, clip(m.Text, 100))
		}
	}

	if p := s.StructuredPersona; p != nil {
		fmt.Printf("\nPersona:\n")
		for _, sec := range persona.Sections {
			text, _ := p.Section(sec)
			fmt.Printf("  %-12s %s\n", sec, clip(text, 80))
		}
	}

	if rep := s.AnalysisReport; rep != nil {
		fmt.Printf("\nAnalysis:\n")
		fmt.Printf("  conflicts: %d  depth gaps: %d  completeness: %.0f  bias: %v\n",
			len(rep.LogicalConflicts), len(rep.DepthAssessment.MissingElements),
			rep.DepthAssessment.CompletenessScore, rep.BiasAnalysis.BiasDetected)
	}

	if s.CurrentDraft != "" {
		fmt.Printf("\nDraft:\n%s\n", s.CurrentDraft)
	}
	return nil
}

// #endregion detail-mode

// #region keys-mode

type keyRow struct {
	Key       string `json:"key"`
	Bytes     int    `json:"bytes"`
	UpdatedAt string `json:"updated_at"`
}

func runKeysMode(store *state.Store, jsonOut bool) error {
	recs, err := store.List()
	if err != nil {
		return err
	}
	rows := make([]keyRow, len(recs))
	for i, r := range recs {
		rows[i] = keyRow{Key: r.Key, Bytes: len(r.Value), UpdatedAt: r.UpdatedAt.Format("2006-01-02T15:04:05Z")}
	}
	if jsonOut {
		return printJSON(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no keys stored")
		return nil
	}
	for _, r := range rows {
		fmt.Printf("%-36s  %8d  %s\n", r.Key, r.Bytes, r.UpdatedAt)
	}
	return nil
}

// #endregion keys-mode

// #region journal-mode

func runJournalMode(store *state.Store, last int, jsonOut bool) error {
	entries, err := logging.Recent(store.DB(), last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "journal is empty")
		return nil
	}

	fmt.Printf("%-20s  %-8s  %-9s  %-20s  %s\n", "Time", "Session", "Action", "Step", "Cursor")
	for _, e := range entries {
		fmt.Printf("%-20s  %-8s  %-9s  %-20s  %s\n",
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), shortID(e.SessionID), e.Action, e.Step,
			strconv.Itoa(e.Cursor)+"/"+strconv.Itoa(e.Length))
	}
	return nil
}

// #endregion journal-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// #endregion output
