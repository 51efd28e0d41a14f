// Package session saves the history stack after every change and restores it
// on startup.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/logging"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// #region record
// Record is the persisted shape of a session.
type Record struct {
	History []persona.State `json:"history"`
	Index   int             `json:"index"`
}

// Trivial reports whether the record holds nothing worth saving: a single
// snapshot without progress.
func (r Record) Trivial() bool {
	if len(r.History) > 1 {
		return false
	}
	return len(r.History) == 0 || !r.History[0].HasProgress()
}
// #endregion record

// #region persister
// Recorder receives a journal entry per observed change.
type Recorder interface {
	Record(entry logging.JournalEntry) error
}

// Persister mirrors a history stack into a KV store.
type Persister struct {
	stack   *history.Stack
	kv      state.KV
	journal Recorder
	log     zerolog.Logger

	mu     sync.Mutex
	cancel func()
}

// Option configures a Persister.
type Option func(*Persister)

// WithJournal journals every observed change.
func WithJournal(j Recorder) Option {
	return func(p *Persister) { p.journal = j }
}

// WithLogger replaces the disabled default logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Persister) { p.log = l }
}

// New returns a persister for stack backed by kv. Call Restore then Start.
func New(stack *history.Stack, kv state.KV, opts ...Option) *Persister {
	p := &Persister{stack: stack, kv: kv, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
// #endregion persister

// #region lifecycle
// Start subscribes to the stack. Every later change is saved.
func (p *Persister) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	p.cancel = p.stack.Subscribe(p.onChange)
}

// Stop unsubscribes from the stack.
func (p *Persister) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Persister) onChange(ch history.Change) {
	if err := p.Save(); err != nil {
		p.log.Warn().Err(err).Str("action", string(ch.Action)).Msg("session save failed")
	}
	if p.journal == nil {
		return
	}
	entry := logging.JournalEntry{
		Action: string(ch.Action),
		Step:   string(ch.State.Step),
		Cursor: ch.Index,
		Length: ch.Len,
	}
	if err := p.journal.Record(entry); err != nil {
		p.log.Warn().Err(err).Msg("journal write failed")
	}
}
// #endregion lifecycle

// #region save
// Save writes the current stack unless the session is trivial.
func (p *Persister) Save() error {
	snaps, index := p.stack.Snapshots()
	rec := Record{History: snaps, Index: index}
	if rec.Trivial() {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := p.kv.Set(state.KeySession, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
// #endregion save

// #region restore
// Restore loads the persisted session into the stack. A missing record
// leaves a fresh session; a corrupt one is removed and also leaves a fresh
// session. It reports whether a saved session was adopted.
func (p *Persister) Restore() bool {
	raw, ok, err := p.kv.Get(state.KeySession)
	if err != nil {
		p.log.Warn().Err(err).Msg("session read failed")
		p.stack.Reset()
		return false
	}
	if !ok {
		p.stack.Reset()
		return false
	}

	rec, err := Decode(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("discarding corrupt session")
		if rmErr := p.kv.Remove(state.KeySession); rmErr != nil {
			p.log.Warn().Err(rmErr).Msg("remove corrupt session failed")
		}
		p.stack.Reset()
		return false
	}

	p.stack.Load(rec.History, rec.Index)
	p.log.Debug().Int("snapshots", len(rec.History)).Int("index", rec.Index).Msg("session restored")
	return true
}

// Decode validates the stored shape: history must be a non-empty array of
// snapshots and index must be a number.
func Decode(raw string) (Record, error) {
	var shape struct {
		History json.RawMessage `json:"history"`
		Index   json.RawMessage `json:"index"`
	}
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return Record{}, fmt.Errorf("parse session: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(shape.History)), "[") {
		return Record{}, fmt.Errorf("session history is not an array")
	}

	var rec Record
	if err := json.Unmarshal(shape.History, &rec.History); err != nil {
		return Record{}, fmt.Errorf("parse session history: %w", err)
	}
	if len(rec.History) == 0 {
		return Record{}, fmt.Errorf("session history is empty")
	}
	var index float64
	if raw := strings.TrimSpace(string(shape.Index)); raw == "" || raw == "null" {
		return Record{}, fmt.Errorf("session index is not a number")
	}
	if err := json.Unmarshal(shape.Index, &index); err != nil {
		return Record{}, fmt.Errorf("session index is not a number")
	}
	rec.Index = int(index)

	for i := range rec.History {
		normalize(&rec.History[i])
	}
	return rec, nil
}

// normalize fills collections an older or hand-edited record left out.
func normalize(s *persona.State) {
	if s.Step == "" || !s.Step.Valid() {
		s.Step = persona.StepVibeEntry
	}
	if s.VibeMessages == nil {
		s.VibeMessages = []persona.ChatMessage{}
	}
	if s.SimulationHistory == nil {
		s.SimulationHistory = []persona.SimulationTurn{}
	}
	if s.SimulationType == "" {
		s.SimulationType = persona.SimulationChat
	}
}
// #endregion restore

// #region reset
// Reset clears the stack to one empty snapshot and, when clear is set,
// deletes the persisted record.
func (p *Persister) Reset(clear bool) error {
	p.stack.Reset()
	if !clear {
		return nil
	}
	if err := p.kv.Remove(state.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
// #endregion reset
