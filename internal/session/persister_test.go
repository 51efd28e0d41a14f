package session

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/logging"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

type recorder struct {
	entries []logging.JournalEntry
}

func (r *recorder) Record(e logging.JournalEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func chat(text string) []persona.ChatMessage {
	return []persona.ChatMessage{{Role: persona.RoleUser, Text: text}}
}

func TestTrivialSessionIsNotSaved(t *testing.T) {
	kv := state.NewMemoryStore()
	stack := history.New()
	p := New(stack, kv)
	p.Start()
	defer p.Stop()

	require.NoError(t, p.Save())
	_, ok, _ := kv.Get(state.KeySession)
	assert.False(t, ok, "blank session must not be persisted")

	stack.Load([]persona.State{persona.Empty().Apply(persona.WithVibeMessages(chat("hi")))}, 0)
	_, ok, _ = kv.Get(state.KeySession)
	assert.True(t, ok, "single snapshot with a transcript is worth saving")
}

func TestDirectorModeSurvivesRestart(t *testing.T) {
	kv := state.NewMemoryStore()
	stack := history.New()
	p := New(stack, kv)
	p.Start()

	sp := persona.StructuredPersona{Appearance: "a", Personality: "p"}
	stack.Push(persona.WithVibeMessages(chat("an old session")))
	stack.Push(persona.WithStructuredPersona(&sp), persona.WithStep(persona.StepCrystallize))
	stack.InitDirectorMode("compiled architect draft")
	p.Stop()

	restored := history.New()
	require.True(t, New(restored, kv).Restore())
	assert.Equal(t, 1, restored.Len())
	cur := restored.Current()
	assert.Equal(t, persona.StepRefineDirector, cur.Step)
	assert.Equal(t, "compiled architect draft", cur.CurrentDraft)
	assert.Empty(t, cur.VibeMessages)
}

func TestRoundTrip(t *testing.T) {
	kv := state.NewMemoryStore()
	stack := history.New()
	p := New(stack, kv)
	p.Start()

	report := persona.EmptyReport()
	report.LogicalConflicts = append(report.LogicalConflicts, persona.LogicConflict{Type: "timeline", Severity: persona.SeverityHigh})
	sp := persona.StructuredPersona{Appearance: "a", Personality: "p", Backstory: "b", SpeechStyle: "s", Behaviors: "x"}
	stack.Push(persona.WithVibeMessages(chat("a rainy city")))
	stack.Push(persona.WithStructuredPersona(&sp), persona.WithStep(persona.StepCrystallize))
	stack.Push(persona.WithAnalysisReport(&report), persona.WithStep(persona.StepCheck))
	stack.Undo()
	p.Stop()

	wantSnaps, wantIndex := stack.Snapshots()

	restored := history.New()
	ok := New(restored, kv).Restore()
	require.True(t, ok)

	gotSnaps, gotIndex := restored.Snapshots()
	assert.Equal(t, wantIndex, gotIndex)
	if diff := cmp.Diff(wantSnaps, gotSnaps); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreMissingStartsEmpty(t *testing.T) {
	stack := history.New()
	stack.Push(persona.WithDraft("stale in-memory state"))

	ok := New(stack, state.NewMemoryStore()).Restore()
	assert.False(t, ok)
	assert.Equal(t, 1, stack.Len())
	assert.Equal(t, persona.Empty(), stack.Current())
}

func TestCorruptRecordEqualsNoRecord(t *testing.T) {
	cases := map[string]string{
		"history not an array": `{"history":"not-an-array"}`,
		"not json":             `{{{`,
		"empty history":        `{"history":[],"index":0}`,
		"missing index":        `{"history":[{"step":"check"}]}`,
		"string index":         `{"history":[{"step":"check"}],"index":"1"}`,
		"null index":           `{"history":[{"step":"check"}],"index":null}`,
		"bad snapshot":         `{"history":[42],"index":0}`,
	}

	fresh := history.New()
	New(fresh, state.NewMemoryStore()).Restore()
	wantSnaps, wantIndex := fresh.Snapshots()

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := state.NewMemoryStore()
			require.NoError(t, kv.Set(state.KeySession, raw))

			stack := history.New()
			ok := New(stack, kv).Restore()
			assert.False(t, ok)

			gotSnaps, gotIndex := stack.Snapshots()
			assert.Equal(t, wantIndex, gotIndex)
			if diff := cmp.Diff(wantSnaps, gotSnaps); diff != "" {
				t.Fatalf("corrupt restore differs from empty (-want +got):\n%s", diff)
			}
			_, stillThere, _ := kv.Get(state.KeySession)
			assert.False(t, stillThere, "corrupt record should be discarded")
		})
	}
}

func TestRestoreClampsIndexAndNormalizes(t *testing.T) {
	kv := state.NewMemoryStore()
	kv.Set(state.KeySession, `{"history":[{"step":"check","currentDraft":"d"},{"step":"bogus"}],"index":7}`)

	stack := history.New()
	require.True(t, New(stack, kv).Restore())
	assert.Equal(t, 1, stack.Index())

	cur := stack.Current()
	assert.Equal(t, persona.StepVibeEntry, cur.Step)
	assert.NotNil(t, cur.VibeMessages)
	assert.Equal(t, persona.SimulationChat, cur.SimulationType)
}

func TestResetWithClearThenRestoreIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := state.NewStore(path)
	require.NoError(t, err)

	stack := history.New()
	p := New(stack, store)
	p.Start()
	stack.Push(persona.WithVibeMessages(chat("keep me")))
	stack.Push(persona.WithStep(persona.StepCrystallize))
	_, ok, _ := store.Get(state.KeySession)
	require.True(t, ok)

	require.NoError(t, p.Reset(true))
	p.Stop()
	store.Close()

	store, err = state.NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	reloaded := history.New()
	assert.False(t, New(reloaded, store).Restore())
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, 0, reloaded.Index())
	assert.Equal(t, persona.Empty(), reloaded.Current())
}

func TestResetWithoutClearKeepsRecord(t *testing.T) {
	kv := state.NewMemoryStore()
	stack := history.New()
	p := New(stack, kv)
	p.Start()
	defer p.Stop()

	stack.Push(persona.WithVibeMessages(chat("keep me")))
	require.NoError(t, p.Reset(false))

	assert.Equal(t, 1, stack.Len())
	_, ok, _ := kv.Get(state.KeySession)
	assert.True(t, ok)
}

func TestChangesAreJournaled(t *testing.T) {
	rec := &recorder{}
	stack := history.New()
	p := New(stack, state.NewMemoryStore(), WithJournal(rec))
	p.Start()
	p.Start() // second start is ignored

	stack.Push(persona.WithStep(persona.StepCheck))
	stack.Undo()
	p.Stop()
	stack.Redo()

	require.Len(t, rec.entries, 2)
	assert.Equal(t, "push", rec.entries[0].Action)
	assert.Equal(t, "check", rec.entries[0].Step)
	assert.Equal(t, 1, rec.entries[0].Cursor)
	assert.Equal(t, 2, rec.entries[0].Length)
	assert.Equal(t, "undo", rec.entries[1].Action)
}
