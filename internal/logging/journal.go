package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region journal-entry
// JournalEntry is a single row in the history_journal table.
type JournalEntry struct {
	SessionID string
	Action    string // "push" | "undo" | "redo" | "reset" | "load" | "director"
	Step      string
	Cursor    int
	Length    int
	Detail    string
	CreatedAt time.Time
}
// #endregion journal-entry

// #region journal
// Journal appends history actions to SQLite.
type Journal struct {
	db        *sql.DB
	sessionID string
}

// NewJournal returns a journal writing rows tagged with sessionID.
func NewJournal(db *sql.DB, sessionID string) *Journal {
	return &Journal{db: db, sessionID: sessionID}
}

// SessionID returns the id stamped on every row.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record writes one entry, filling the session id and timestamp if unset.
func (j *Journal) Record(entry JournalEntry) error {
	if entry.SessionID == "" {
		entry.SessionID = j.sessionID
	}
	return LogAction(j.db, entry)
}
// #endregion journal

// #region log-action
// LogAction writes a journal entry to the history_journal table.
func LogAction(db *sql.DB, entry JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO history_journal (session_id, action, step, cursor, length, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.Action,
		entry.Step,
		entry.Cursor,
		entry.Length,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}
// #endregion log-action

// #region recent
// Recent returns the newest journal entries, newest first.
func Recent(db *sql.DB, limit int) ([]JournalEntry, error) {
	rows, err := db.Query(
		`SELECT session_id, action, step, cursor, length, detail, created_at
		 FROM history_journal ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent journal: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var detail sql.NullString
		var created string
		if err := rows.Scan(&e.SessionID, &e.Action, &e.Step, &e.Cursor, &e.Length, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
