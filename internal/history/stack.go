// Package history keeps the ordered persona snapshots and the cursor that
// selects the current one.
package history

import (
	"slices"
	"sync"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// #region types
// Action names the mutation that produced a Change.
type Action string

const (
	ActionPush     Action = "push"
	ActionUndo     Action = "undo"
	ActionRedo     Action = "redo"
	ActionReset    Action = "reset"
	ActionDirector Action = "director"
	ActionLoad     Action = "load"
)

// Change is delivered to observers after every mutation.
type Change struct {
	Action Action
	Index  int
	Len    int
	State  persona.State
}

// Observer receives changes in mutation order.
type Observer func(Change)
// #endregion types

// #region stack
// Stack owns the snapshots. All snapshots handed out are deep copies.
type Stack struct {
	// writeMu is held across a mutation and its delivery so observers see
	// changes in mutation order. Observers must not mutate the stack.
	writeMu sync.Mutex

	mu        sync.RWMutex
	snapshots []persona.State
	cursor    int

	obsMu     sync.Mutex
	observers map[int]Observer
	nextID    int
}

// New returns a stack holding one empty snapshot at cursor 0.
func New() *Stack {
	return &Stack{
		snapshots: []persona.State{persona.Empty()},
		observers: make(map[int]Observer),
	}
}
// #endregion stack

// #region reads
// Current returns the snapshot at the cursor, or an empty snapshot when the
// cursor does not point into the stack.
func (s *Stack) Current() persona.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked().Clone()
}

func (s *Stack) currentLocked() persona.State {
	if s.cursor < 0 || s.cursor >= len(s.snapshots) {
		return persona.Empty()
	}
	return s.snapshots[s.cursor]
}

// Index returns the cursor.
func (s *Stack) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Len returns the number of snapshots.
func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

func (s *Stack) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor > 0
}

func (s *Stack) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor < len(s.snapshots)-1
}

// Snapshots returns a copy of the whole stack and the cursor.
func (s *Stack) Snapshots() ([]persona.State, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]persona.State, len(s.snapshots))
	for i, snap := range s.snapshots {
		out[i] = snap.Clone()
	}
	return out, s.cursor
}
// #endregion reads

// #region writes
// Push merges updates over the current snapshot, drops every snapshot after
// the cursor and appends the result as the new tip.
func (s *Stack) Push(updates ...persona.Update) persona.State {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	merged := s.currentLocked().Apply(updates...)
	s.appendLocked(merged)
	ch := s.changeLocked(ActionPush)
	s.mu.Unlock()

	s.emit(ch)
	return merged.Clone()
}

// Undo moves the cursor back one snapshot. It reports false at the start of
// history.
func (s *Stack) Undo() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.cursor <= 0 {
		s.mu.Unlock()
		return false
	}
	s.cursor--
	ch := s.changeLocked(ActionUndo)
	s.mu.Unlock()

	s.emit(ch)
	return true
}

// Redo moves the cursor forward one snapshot. It reports false at the tip.
func (s *Stack) Redo() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.cursor >= len(s.snapshots)-1 {
		s.mu.Unlock()
		return false
	}
	s.cursor++
	ch := s.changeLocked(ActionRedo)
	s.mu.Unlock()

	s.emit(ch)
	return true
}

// SetStep pushes a step change unless the current snapshot is already there.
func (s *Stack) SetStep(step persona.Step) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	cur := s.currentLocked()
	if cur.Step == step {
		s.mu.Unlock()
		return false
	}
	s.appendLocked(cur.Apply(persona.WithStep(step)))
	ch := s.changeLocked(ActionPush)
	s.mu.Unlock()

	s.emit(ch)
	return true
}

// Reset replaces the stack with a single empty snapshot.
func (s *Stack) Reset() {
	s.replace(ActionReset, []persona.State{persona.Empty()}, 0)
}

// InitDirectorMode starts a new history at the director step with the given
// draft, skipping the vibe and crystallize phases.
func (s *Stack) InitDirectorMode(draft string) {
	snap := persona.Empty().Apply(
		persona.WithStep(persona.StepRefineDirector),
		persona.WithDraft(draft),
	)
	s.replace(ActionDirector, []persona.State{snap}, 0)
}

// Load adopts a restored stack. An empty stack becomes a single empty
// snapshot and the cursor is clamped into range.
func (s *Stack) Load(snapshots []persona.State, index int) {
	if len(snapshots) == 0 {
		snapshots = []persona.State{persona.Empty()}
	}
	cp := make([]persona.State, len(snapshots))
	for i, snap := range snapshots {
		cp[i] = snap.Clone()
	}
	if index < 0 {
		index = 0
	}
	if index >= len(cp) {
		index = len(cp) - 1
	}
	s.replace(ActionLoad, cp, index)
}

// appendLocked truncates everything after the cursor and appends snap.
func (s *Stack) appendLocked(snap persona.State) {
	keep := s.cursor + 1
	if keep > len(s.snapshots) || keep < 0 {
		keep = len(s.snapshots)
	}
	s.snapshots = append(s.snapshots[:keep:keep], snap)
	s.cursor = len(s.snapshots) - 1
}

func (s *Stack) replace(action Action, snapshots []persona.State, cursor int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.snapshots = snapshots
	s.cursor = cursor
	ch := s.changeLocked(action)
	s.mu.Unlock()

	s.emit(ch)
}
// #endregion writes

// #region observers
// Subscribe registers fn for every later change and returns a function that
// removes it.
func (s *Stack) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Stack) changeLocked(action Action) Change {
	return Change{
		Action: action,
		Index:  s.cursor,
		Len:    len(s.snapshots),
		State:  s.currentLocked().Clone(),
	}
}

// emit runs outside s.mu so observers may read the stack. Observers are
// called in subscription order.
func (s *Stack) emit(ch Change) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Observer, len(ids))
	for i, id := range ids {
		fns[i] = s.observers[id]
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
// #endregion observers
