package inspiration

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// #region fake
type fakeGen struct {
	mu      sync.Mutex
	replies []any
	errs    []error
	calls   int32
	prompts []string
	gate    chan struct{}
}

func (f *fakeGen) GenerateStructured(_ context.Context, prompt string, _ *genai.Schema, out any) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := int(atomic.AddInt32(&f.calls, 1)) - 1
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return f.errs[i]
	}
	var reply any = map[string]any{"categories": []Category{}}
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	raw, _ := json.Marshal(reply)
	return json.Unmarshal(raw, out)
}

func batch(ids ...string) map[string]any {
	cats := make([]Category, len(ids))
	for i, id := range ids {
		cats[i] = Category{ID: id, Icon: "bolt", Title: "T " + id, Questions: []Question{{ID: id + "-q", Text: "?", Type: QuestionStandard, Example: "e"}}}
	}
	return map[string]any{"categories": cats}
}

func ids(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}

func seedIDs() []string {
	return ids(Seed())
}

// #endregion fake

func TestNewUsesSeedWhenNothingStored(t *testing.T) {
	l := New(state.NewMemoryStore(), &fakeGen{})
	assert.Equal(t, seedIDs(), ids(l.Categories()))
}

func TestNewFallsBackOnCorruptStorage(t *testing.T) {
	for _, raw := range []string{"not json", "[]", `{"a":1}`} {
		kv := state.NewMemoryStore()
		kv.Set(state.KeyInspiration, raw)
		l := New(kv, &fakeGen{})
		assert.Equal(t, seedIDs(), ids(l.Categories()), "stored %q", raw)
	}
}

func TestNewLoadsPersisted(t *testing.T) {
	kv := state.NewMemoryStore()
	kv.Set(state.KeyInspiration, `[{"id":"x","icon":"i","title":"t","questions":[]}]`)
	l := New(kv, &fakeGen{})
	assert.Equal(t, []string{"x"}, ids(l.Categories()))
}

func TestAddCategoriesKeepsOneAIBatch(t *testing.T) {
	kv := state.NewMemoryStore()
	l := New(kv, &fakeGen{})

	require.NoError(t, l.AddCategories([]Category{{ID: "ai-gen-cat-1"}, {ID: "ai-gen-cat-2"}}))
	require.NoError(t, l.AddCategories([]Category{{ID: "cat-9"}}))

	want := append([]string{"ai-gen-cat-9"}, seedIDs()...)
	assert.Equal(t, want, ids(l.Categories()))

	raw, ok, _ := kv.Get(state.KeyInspiration)
	require.True(t, ok)
	var stored []Category
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, want, ids(stored))
}

func TestExpandTwiceLeavesOneBatch(t *testing.T) {
	gen := &fakeGen{replies: []any{batch("ai-gen-a", "ai-gen-b"), batch("ai-gen-c", "ai-gen-d", "ai-gen-e")}}
	l := New(state.NewMemoryStore(), gen)

	require.NoError(t, l.Expand(context.Background(), "en"))
	require.NoError(t, l.Expand(context.Background(), "en"))

	cats := l.Categories()
	var ai, rest []string
	for _, c := range cats {
		if c.IsAI() {
			ai = append(ai, c.ID)
		} else {
			rest = append(rest, c.ID)
		}
	}
	assert.Equal(t, []string{"ai-gen-c", "ai-gen-d", "ai-gen-e"}, ai)
	assert.Equal(t, seedIDs(), rest)
	assert.Contains(t, gen.prompts[0], "prefixed with 'ai-gen-'")
}

func TestExpandFailureLeavesLibrary(t *testing.T) {
	gen := &fakeGen{errs: []error{errors.New("boom")}, replies: []any{nil, map[string]any{"categories": []Category{}}}}
	kv := state.NewMemoryStore()
	l := New(kv, gen)

	assert.Error(t, l.Expand(context.Background(), "en"))
	assert.ErrorIs(t, l.Expand(context.Background(), "en"), ErrNoCategories)
	assert.Equal(t, seedIDs(), ids(l.Categories()))
	_, ok, _ := kv.Get(state.KeyInspiration)
	assert.False(t, ok)
}

func TestRemixReplacesOrNoops(t *testing.T) {
	gen := &fakeGen{
		replies: []any{batch("personality", "fresh")},
		errs:    []error{nil, errors.New("timeout")},
	}
	l := New(state.NewMemoryStore(), gen)

	require.NoError(t, l.Remix(context.Background(), "de"))
	assert.Equal(t, []string{"personality", "fresh"}, ids(l.Categories()))
	assert.Contains(t, gen.prompts[0], `"id": "appearance"`)

	assert.Error(t, l.Remix(context.Background(), "de"))
	assert.Equal(t, []string{"personality", "fresh"}, ids(l.Categories()))
}

func TestResetToDefault(t *testing.T) {
	kv := state.NewMemoryStore()
	l := New(kv, &fakeGen{})
	l.AddCategories([]Category{{ID: "ai-gen-x"}})
	kv.Set(state.KeyInspirationFetch, "1")

	require.NoError(t, l.ResetToDefault())
	assert.Equal(t, seedIDs(), ids(l.Categories()))
	_, ok, _ := kv.Get(state.KeyInspiration)
	assert.False(t, ok)
	_, ok, _ = kv.Get(state.KeyInspirationFetch)
	assert.False(t, ok)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	l := New(state.NewMemoryStore(), &fakeGen{})
	cats := l.Categories()
	cats[0].Questions[0].Text = "mutated"
	assert.NotEqual(t, "mutated", l.Categories()[0].Questions[0].Text)
}

func TestRefreshIfStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	kv := state.NewMemoryStore()
	gen := &fakeGen{replies: []any{batch("ai-gen-1"), batch("ai-gen-2")}}
	l := New(kv, gen)

	refreshed, err := l.RefreshIfStale(context.Background(), "en", now)
	require.NoError(t, err)
	assert.True(t, refreshed)
	raw, _, _ := kv.Get(state.KeyInspirationFetch)
	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), raw)
	last, ok := l.LastRefresh()
	require.True(t, ok)
	assert.True(t, last.Equal(now))

	refreshed, err = l.RefreshIfStale(context.Background(), "en", now.Add(11*time.Hour))
	require.NoError(t, err)
	assert.False(t, refreshed, "inside the cooldown")
	assert.EqualValues(t, 1, atomic.LoadInt32(&gen.calls))

	refreshed, err = l.RefreshIfStale(context.Background(), "en", now.Add(13*time.Hour))
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, "ai-gen-2", l.Categories()[0].ID)
}

func TestRefreshFailureKeepsTimestamp(t *testing.T) {
	kv := state.NewMemoryStore()
	kv.Set(state.KeyInspirationFetch, "garbage")
	l := New(kv, &fakeGen{errs: []error{errors.New("offline")}})

	refreshed, err := l.RefreshIfStale(context.Background(), "en", time.Now())
	assert.Error(t, err)
	assert.False(t, refreshed)
	raw, _, _ := kv.Get(state.KeyInspirationFetch)
	assert.Equal(t, "garbage", raw)
}

func TestConcurrentRefreshesCollapse(t *testing.T) {
	defer goleak.VerifyNone(t)

	gate := make(chan struct{})
	gen := &fakeGen{replies: []any{batch("ai-gen-1")}, gate: gate}
	l := New(state.NewMemoryStore(), gen)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RefreshIfStale(context.Background(), "en", time.Now())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&gen.calls))
}

func TestBackgroundRefresh(t *testing.T) {
	defer goleak.VerifyNone(t)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	gen := &fakeGen{replies: []any{batch("ai-gen-bg")}}
	l := New(state.NewMemoryStore(), gen, WithClock(func() time.Time { return now }), WithCooldown(time.Hour))

	select {
	case <-l.StartBackgroundRefresh(context.Background(), "en"):
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh did not finish")
	}
	assert.Equal(t, "ai-gen-bg", l.Categories()[0].ID)

	failing := New(state.NewMemoryStore(), &fakeGen{errs: []error{errors.New("down")}})
	<-failing.StartBackgroundRefresh(context.Background(), "en")
	assert.Equal(t, seedIDs(), ids(failing.Categories()))
}
