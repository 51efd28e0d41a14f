// Package inspiration holds the brainstorming question library and refreshes
// it through the model. The library is persisted separately from the session
// and is never part of undo history.
package inspiration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/metrics"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// AIPrefix marks categories produced by the model. At most one batch of
// them is kept.
const AIPrefix = "ai-gen"

// DefaultCooldown is the minimum age of the last refresh before a new one.
const DefaultCooldown = 12 * time.Hour

// ErrNoCategories means the model answered with nothing usable.
var ErrNoCategories = errors.New("model returned no inspiration categories")

// #region types
// QuestionType selects how a question is presented.
type QuestionType string

const (
	QuestionStandard  QuestionType = "standard"
	QuestionColor     QuestionType = "color"
	QuestionReference QuestionType = "reference"
)

// Question is one brainstorming prompt with example answers.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Example     string       `json:"example"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// Category groups questions under a titled icon.
type Category struct {
	ID        string     `json:"id"`
	Icon      string     `json:"icon"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// IsAI reports whether c came from a model refresh.
func (c Category) IsAI() bool {
	return strings.HasPrefix(c.ID, AIPrefix)
}

// Generator is the structured-output half of the gateway.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error
}
// #endregion types

// #region library
// Library is safe for concurrent use; the background refresh runs on its
// own goroutine.
type Library struct {
	kv       state.KV
	gen      Generator
	cooldown time.Duration
	now      func() time.Time
	log      zerolog.Logger
	rec      metrics.Recorder

	mu         sync.RWMutex
	categories []Category

	refresh singleflight.Group
}

// Option configures a Library.
type Option func(*Library)

func WithCooldown(d time.Duration) Option {
	return func(l *Library) { l.cooldown = d }
}

func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Library) { l.log = log }
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(l *Library) { l.rec = rec }
}

// New loads the persisted library, or the seed when nothing valid is stored.
func New(kv state.KV, gen Generator, opts ...Option) *Library {
	l := &Library{
		kv:       kv,
		gen:      gen,
		cooldown: DefaultCooldown,
		now:      time.Now,
		log:      zerolog.Nop(),
		rec:      metrics.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.categories = l.load()
	return l
}

func (l *Library) load() []Category {
	raw, ok, err := l.kv.Get(state.KeyInspiration)
	if err != nil {
		l.log.Warn().Err(err).Msg("inspiration read failed, using seed")
		return Seed()
	}
	if !ok {
		return Seed()
	}
	var cats []Category
	if err := json.Unmarshal([]byte(raw), &cats); err != nil || len(cats) == 0 {
		l.log.Warn().Err(err).Msg("stored inspiration unusable, using seed")
		return Seed()
	}
	return cats
}

// Categories returns a copy of the current library.
func (l *Library) Categories() []Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneCategories(l.categories)
}
// #endregion library

// #region mutations
// AddCategories puts newCats in front of the existing non-AI categories,
// dropping any earlier AI batch.
func (l *Library) AddCategories(newCats []Category) error {
	batch := cloneCategories(newCats)
	for i := range batch {
		if !batch[i].IsAI() {
			batch[i].ID = AIPrefix + "-" + batch[i].ID
		}
	}

	l.mu.Lock()
	next := batch
	for _, c := range l.categories {
		if !c.IsAI() {
			next = append(next, c)
		}
	}
	l.categories = next
	l.mu.Unlock()

	return l.persist()
}

// Expand asks the model for a fresh AI batch. On failure the library is
// unchanged.
func (l *Library) Expand(ctx context.Context, lang string) error {
	prompt, err := prompts.Render(prompts.InspirationNew, prompts.Data{Language: lang, Prefix: AIPrefix + "-"})
	if err != nil {
		return err
	}
	cats, err := l.ask(ctx, prompt)
	if err != nil {
		return fmt.Errorf("expand inspiration: %w", err)
	}
	return l.AddCategories(cats)
}

// Remix replaces the whole library with a model-edited revision. On failure
// the library is unchanged.
func (l *Library) Remix(ctx context.Context, lang string) error {
	prompt, err := prompts.Render(prompts.InspirationRemix, prompts.Data{
		Language:       lang,
		CategoriesJSON: prompts.JSON(l.Categories()),
	})
	if err != nil {
		return err
	}
	cats, err := l.ask(ctx, prompt)
	if err != nil {
		return fmt.Errorf("remix inspiration: %w", err)
	}

	l.mu.Lock()
	l.categories = cats
	l.mu.Unlock()
	return l.persist()
}

// ResetToDefault restores the seed and forgets every persisted override.
func (l *Library) ResetToDefault() error {
	l.mu.Lock()
	l.categories = Seed()
	l.mu.Unlock()

	if err := l.kv.Remove(state.KeyInspiration); err != nil {
		return fmt.Errorf("remove inspiration: %w", err)
	}
	if err := l.kv.Remove(state.KeyInspirationFetch); err != nil {
		return fmt.Errorf("remove inspiration timestamp: %w", err)
	}
	return nil
}

func (l *Library) ask(ctx context.Context, prompt string) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := l.gen.GenerateStructured(ctx, prompt, prompts.InspirationSchema(), &resp); err != nil {
		return nil, err
	}
	var cats []Category
	for _, c := range resp.Categories {
		if c.ID == "" || len(c.Questions) == 0 {
			continue
		}
		cats = append(cats, c)
	}
	if len(cats) == 0 {
		return nil, ErrNoCategories
	}
	return cats, nil
}

func (l *Library) persist() error {
	raw, err := json.Marshal(l.Categories())
	if err != nil {
		return fmt.Errorf("marshal inspiration: %w", err)
	}
	if err := l.kv.Set(state.KeyInspiration, string(raw)); err != nil {
		return fmt.Errorf("save inspiration: %w", err)
	}
	return nil
}
// #endregion mutations

// #region refresh
// RefreshIfStale expands the library when the last successful refresh is
// older than the cooldown, or has never happened. Concurrent callers share
// one refresh. It reports whether a refresh ran and succeeded.
func (l *Library) RefreshIfStale(ctx context.Context, lang string, now time.Time) (bool, error) {
	v, err, _ := l.refresh.Do("refresh", func() (any, error) {
		if !l.stale(now) {
			l.rec.IncRefresh("skipped")
			return false, nil
		}
		if err := l.Expand(ctx, lang); err != nil {
			l.rec.IncRefresh("failed")
			return false, err
		}
		l.rec.IncRefresh("succeeded")
		stamp := strconv.FormatInt(now.UnixMilli(), 10)
		if err := l.kv.Set(state.KeyInspirationFetch, stamp); err != nil {
			return true, fmt.Errorf("save inspiration timestamp: %w", err)
		}
		return true, nil
	})
	refreshed, _ := v.(bool)
	return refreshed, err
}

func (l *Library) stale(now time.Time) bool {
	raw, ok, err := l.kv.Get(state.KeyInspirationFetch)
	if err != nil || !ok {
		return true
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return true
	}
	return now.Sub(time.UnixMilli(ms)) > l.cooldown
}

// LastRefresh returns the time of the last successful refresh.
func (l *Library) LastRefresh() (time.Time, bool) {
	raw, ok, err := l.kv.Get(state.KeyInspirationFetch)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// StartBackgroundRefresh runs RefreshIfStale on its own goroutine. Failures
// are logged and dropped. The returned channel closes when it finishes.
func (l *Library) StartBackgroundRefresh(ctx context.Context, lang string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		refreshed, err := l.RefreshIfStale(ctx, lang, l.now())
		if err != nil {
			l.log.Warn().Err(err).Msg("background inspiration refresh failed")
			return
		}
		if refreshed {
			l.log.Info().Msg("inspiration library refreshed")
		}
	}()
	return done
}
// #endregion refresh

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Questions = append([]Question(nil), c.Questions...)
	}
	return out
}
