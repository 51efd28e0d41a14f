package pipeline

import (
	"context"
	"encoding/json"
	"iter"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// #region fake-gateway
// script is one scripted model reply: either chunks or an error.
type script struct {
	chunks []gemini.Chunk
	err    error
}

type chatStart struct {
	system  string
	history []gemini.Turn
}

type fakeGateway struct {
	mu sync.Mutex

	texts       []script
	textPrompts []string
	textOpts    []gemini.Options

	structured        []any
	structuredErrs    []error
	structuredPrompts []string

	streams []script
	sent    []string
	starts  []chatStart

	// gate, when set, blocks every stream until closed.
	gate chan struct{}
}

func (f *fakeGateway) GenerateText(_ context.Context, _ string, user string, opts gemini.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textPrompts = append(f.textPrompts, user)
	f.textOpts = append(f.textOpts, opts)
	if len(f.texts) == 0 {
		return "", nil
	}
	s := f.texts[0]
	f.texts = f.texts[1:]
	if s.err != nil {
		return "", s.err
	}
	var out string
	for _, c := range s.chunks {
		out += c.Text
	}
	return out, nil
}

func (f *fakeGateway) GenerateStructured(_ context.Context, prompt string, _ *genai.Schema, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.structuredPrompts)
	f.structuredPrompts = append(f.structuredPrompts, prompt)
	if i < len(f.structuredErrs) && f.structuredErrs[i] != nil {
		return f.structuredErrs[i]
	}
	if i >= len(f.structured) {
		return nil
	}
	raw, err := json.Marshal(f.structured[i])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeGateway) StartChat(systemPrompt string, _ gemini.Options, history ...gemini.Turn) ChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, chatStart{system: systemPrompt, history: append([]gemini.Turn(nil), history...)})
	return &fakeChat{gw: f}
}

func (f *fakeGateway) next(message string) script {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	if len(f.streams) == 0 {
		return script{chunks: []gemini.Chunk{{Text: "ok"}}}
	}
	s := f.streams[0]
	f.streams = f.streams[1:]
	return s
}

func (f *fakeGateway) lastStart() chatStart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts[len(f.starts)-1]
}

type fakeChat struct {
	gw *fakeGateway
}

func (c *fakeChat) SendStream(_ context.Context, message string) iter.Seq2[gemini.Chunk, error] {
	return func(yield func(gemini.Chunk, error) bool) {
		if c.gw.gate != nil {
			<-c.gw.gate
		}
		s := c.gw.next(message)
		if s.err != nil {
			yield(gemini.Chunk{}, s.err)
			return
		}
		for _, ch := range s.chunks {
			if !yield(ch, nil) {
				return
			}
		}
	}
}

func (c *fakeChat) Send(ctx context.Context, message string) (gemini.Chunk, error) {
	var out gemini.Chunk
	for ch, err := range c.SendStream(ctx, message) {
		if err != nil {
			return gemini.Chunk{}, err
		}
		out.Text += ch.Text
		out.Citations = append(out.Citations, ch.Citations...)
	}
	return out, nil
}

func reply(parts ...string) script {
	s := script{}
	for _, p := range parts {
		s.chunks = append(s.chunks, gemini.Chunk{Text: p})
	}
	return s
}
// #endregion fake-gateway

// #region fixtures
type countingRecorder struct {
	mu      sync.Mutex
	history map[string]int
}

func (r *countingRecorder) ObserveRequest(string, string, bool, string, time.Duration) {}
func (r *countingRecorder) ObserveTokens(string, string, int, int)                   {}
func (r *countingRecorder) IncRefresh(string)                                        {}
func (r *countingRecorder) IncHistory(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.history == nil {
		r.history = map[string]int{}
	}
	r.history[action]++
}

func newEngine(t *testing.T, gw *fakeGateway, opts ...Option) *Engine {
	t.Helper()
	tr := i18n.NewStore(state.NewMemoryStore(), i18n.English, i18n.WithDarkDetector(func() bool { return false }))
	e := New(history.New(), gw, tr, opts...)
	t.Cleanup(e.Close)
	return e
}

func samplePersona() persona.StructuredPersona {
	return persona.StructuredPersona{
		Appearance:  "tall, silver hair",
		Personality: "calm",
		Backstory:   "raised by wolves",
		SpeechStyle: "terse",
		Behaviors:   "hums when thinking",
	}
}

func sampleReport() persona.FullAnalysisReport {
	return persona.FullAnalysisReport{
		LogicalConflicts: []persona.LogicConflict{
			{Type: "logic", Detail: "calm but explosive", Severity: persona.SeverityHigh, Suggestion: "pick one"},
			{Type: "logic", Detail: "loner with many friends", Severity: persona.SeverityLow, Suggestion: "explain"},
		},
		DepthAssessment: persona.DepthAnalysis{
			CompletenessScore: 60,
			MissingElements: []persona.DepthElement{
				{Element: "Fear", Question: "What scares them?", WhyImportant: "stakes"},
				{Element: "Desire", Question: "What do they want?", WhyImportant: "drive"},
			},
			Strengths: []string{"voice"},
		},
	}
}

// atCheck puts the engine's stack at the check step with a persona and
// report.
func atCheck(e *Engine) {
	p := samplePersona()
	r := sampleReport()
	e.stack.Push(
		persona.WithStructuredPersona(&p),
		persona.WithDraft(persona.Compile(p)),
		persona.WithStep(persona.StepCheck),
		persona.WithAnalysisReport(&r),
	)
}
// #endregion fixtures
