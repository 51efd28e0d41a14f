package logging

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TABLE history_journal (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		action     TEXT NOT NULL,
		step       TEXT NOT NULL,
		cursor     INTEGER NOT NULL,
		length     INTEGER NOT NULL,
		detail     TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-action-tests
func TestLogAction_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := JournalEntry{
		SessionID: "s1",
		Action:    "push",
		Step:      "crystallize",
		Cursor:    1,
		Length:    2,
		Detail:    "structured persona",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogAction(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM history_journal").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var action, step string
	db.QueryRow("SELECT action, step FROM history_journal").Scan(&action, &step)
	if action != "push" {
		t.Errorf("expected action 'push', got %q", action)
	}
	if step != "crystallize" {
		t.Errorf("expected step 'crystallize', got %q", step)
	}
}

func TestLogAction_ZeroCreatedAtAndEmptyDetail(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	err := LogAction(db, JournalEntry{SessionID: "s1", Action: "undo", Step: "vibe-entry"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var created string
	var detail sql.NullString
	db.QueryRow("SELECT created_at, detail FROM history_journal").Scan(&created, &detail)
	if created == "" {
		t.Error("expected created_at to be filled")
	}
	if detail.Valid {
		t.Errorf("expected NULL detail, got %q", detail.String)
	}
}

func TestLogAction_ClosedDB(t *testing.T) {
	db := setupDB(t)
	db.Close()

	if err := LogAction(db, JournalEntry{Action: "push"}); err == nil {
		t.Fatal("expected error on closed DB")
	}
}

// #endregion log-action-tests

// #region journal-tests
func TestJournal_RecordAndRecent(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	j := NewJournal(db, "session-42")
	for i, action := range []string{"push", "push", "undo"} {
		if err := j.Record(JournalEntry{Action: action, Step: "vibe-entry", Cursor: i, Length: 2}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := Recent(db, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "undo" {
		t.Errorf("expected newest first, got %q", entries[0].Action)
	}
	if entries[0].SessionID != "session-42" {
		t.Errorf("expected session id to be stamped, got %q", entries[0].SessionID)
	}
	if j.SessionID() != "session-42" {
		t.Errorf("unexpected session id %q", j.SessionID())
	}
}

// #endregion journal-tests

// #region setup-tests
func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("debug", "json", &buf)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info().Str("k", "v").Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Errorf("expected JSON line, got %q", buf.String())
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug global level, got %v", zerolog.GlobalLevel())
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestSetup_Errors(t *testing.T) {
	if _, err := Setup("loud", "json", nil); err == nil {
		t.Error("expected bad level error")
	}
	if _, err := Setup("info", "xml", nil); err == nil {
		t.Error("expected bad format error")
	}
}

// #endregion setup-tests
