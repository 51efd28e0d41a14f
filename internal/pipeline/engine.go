// Package pipeline drives the authoring pipeline: each action reads the
// current snapshot, calls the model and pushes the result onto the history
// stack. Chat transcripts that are not part of a snapshot live here as
// transient state until an action commits them.
package pipeline

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/history"
	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/metrics"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// #region errors
var (
	// ErrBusy means another action is still waiting on the model.
	ErrBusy = errors.New("another action is in progress")
	// ErrEmptyTranscript means there is no user input to crystallize.
	ErrEmptyTranscript = errors.New("nothing to crystallize")
	// ErrEmptyMessage means a blank chat message was sent.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNoPersona means the action needs a structured persona.
	ErrNoPersona = errors.New("no structured persona")
	// ErrNoDraft means the action needs a compiled draft.
	ErrNoDraft = errors.New("no draft to work with")
	// ErrNoReport means the action needs an analysis report.
	ErrNoReport = errors.New("no analysis report")
	// ErrIndexOutOfRange means a conflict or depth index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownSection means a section name is not part of the persona.
	ErrUnknownSection = errors.New("unknown persona section")
	// ErrUnknownStandard means a reference standard id does not exist.
	ErrUnknownStandard = errors.New("unknown reference standard")
	// ErrNoConversation means a chat mode was used before it was started.
	ErrNoConversation = errors.New("conversation not started")
)
// #endregion errors

// #region gateway
// ChatSession is a running multi-turn chat.
type ChatSession interface {
	SendStream(ctx context.Context, message string) iter.Seq2[gemini.Chunk, error]
	Send(ctx context.Context, message string) (gemini.Chunk, error)
}

// Gateway is the model surface the pipeline needs.
type Gateway interface {
	GenerateText(ctx context.Context, systemPrompt, userContent string, opts gemini.Options) (string, error)
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error
	StartChat(systemPrompt string, opts gemini.Options, history ...gemini.Turn) ChatSession
}

type clientGateway struct {
	*gemini.Client
}

func (g clientGateway) StartChat(systemPrompt string, opts gemini.Options, history ...gemini.Turn) ChatSession {
	return g.Client.StartChat(systemPrompt, opts, history...)
}

// FromClient adapts a Gemini client to Gateway.
func FromClient(c *gemini.Client) Gateway {
	return clientGateway{Client: c}
}

// Translator resolves UI strings; *i18n.Store satisfies it.
type Translator interface {
	Language() i18n.Language
	T(key string, params map[string]any) string
}

// DeltaFunc receives the in-progress model message after every streamed
// chunk.
type DeltaFunc func(persona.ChatMessage)
// #endregion gateway

// #region engine
// Engine runs one action at a time against a history stack.
type Engine struct {
	stack *history.Stack
	gw    Gateway
	tr    Translator
	log   zerolog.Logger
	rec   metrics.Recorder

	busy   atomic.Bool
	cancel func()

	mu       sync.Mutex
	vibe     *conversation
	director *conversation
	sim      ChatSession
	tool     *conversation
	antiBias *conversation
}

// conversation is a chat session with the transcript shown to the user.
type conversation struct {
	chat ChatSession
	log  []persona.ChatMessage
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics counts every history change by action.
func WithMetrics(rec metrics.Recorder) Option {
	return func(e *Engine) { e.rec = rec }
}

func New(stack *history.Stack, gw Gateway, tr Translator, opts ...Option) *Engine {
	e := &Engine{
		stack: stack,
		gw:    gw,
		tr:    tr,
		log:   zerolog.Nop(),
		rec:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cancel = stack.Subscribe(func(ch history.Change) {
		e.rec.IncHistory(string(ch.Action))
	})
	return e
}

// Close detaches the engine from the stack.
func (e *Engine) Close() {
	e.cancel()
}

func (e *Engine) Stack() *history.Stack {
	return e.stack
}

// Busy reports whether an action is waiting on the model.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// begin claims the busy flag. The returned func releases it.
func (e *Engine) begin() (func(), error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { e.busy.Store(false) }, nil
}

func (e *Engine) lang() string {
	return string(e.tr.Language())
}

// push commits updates and warns when the step moves off the pipeline graph.
func (e *Engine) push(action string, updates ...persona.Update) persona.State {
	from := e.stack.Current().Step
	next := e.stack.Push(updates...)
	if !persona.CanTransition(from, next.Step) {
		e.log.Warn().Str("action", action).Str("from", string(from)).Str("to", string(next.Step)).Msg("unexpected step transition")
	}
	e.log.Debug().Str("action", action).Int("index", e.stack.Index()).Msg("snapshot pushed")
	return next
}

func (e *Engine) setStep(action string, step persona.Step) {
	from := e.stack.Current().Step
	if e.stack.SetStep(step) && !persona.CanTransition(from, step) {
		e.log.Warn().Str("action", action).Str("from", string(from)).Str("to", string(step)).Msg("unexpected step transition")
	}
}

func (e *Engine) structured() (persona.StructuredPersona, error) {
	cur := e.stack.Current()
	if cur.StructuredPersona == nil {
		return persona.StructuredPersona{}, ErrNoPersona
	}
	return *cur.StructuredPersona, nil
}
// #endregion engine

// #region streaming
// stream sends message on chat and collects the reply. Citations are
// deduplicated by URI; a later chunk for the same URI replaces the earlier
// one in place.
func stream(ctx context.Context, chat ChatSession, message string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	var text strings.Builder
	var cites citationSet
	for chunk, err := range chat.SendStream(ctx, message) {
		if err != nil {
			return persona.ChatMessage{}, err
		}
		text.WriteString(chunk.Text)
		cites.add(chunk.Citations)
		if onDelta != nil {
			onDelta(persona.ChatMessage{
				Role:            persona.RoleModel,
				Text:            text.String(),
				IsStreaming:     true,
				GroundingChunks: cites.list(),
			})
		}
	}
	return persona.ChatMessage{
		Role:            persona.RoleModel,
		Text:            text.String(),
		GroundingChunks: cites.list(),
	}, nil
}

type citationSet struct {
	index  map[string]int
	chunks []persona.GroundingChunk
}

func (c *citationSet) add(chunks []persona.GroundingChunk) {
	for _, ch := range chunks {
		if ch.Web.URI == "" {
			continue
		}
		if c.index == nil {
			c.index = make(map[string]int)
		}
		if i, ok := c.index[ch.Web.URI]; ok {
			c.chunks[i] = ch
			continue
		}
		c.index[ch.Web.URI] = len(c.chunks)
		c.chunks = append(c.chunks, ch)
	}
}

func (c *citationSet) list() []persona.GroundingChunk {
	if len(c.chunks) == 0 {
		return nil
	}
	return append([]persona.GroundingChunk(nil), c.chunks...)
}

// turns converts a transcript into chat history. Leading model turns and
// blank messages are dropped since a chat history opens with the user.
func turns(msgs []persona.ChatMessage) []gemini.Turn {
	var out []gemini.Turn
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if len(out) == 0 && m.Role != persona.RoleUser {
			continue
		}
		out = append(out, gemini.Turn{Role: m.Role, Text: m.Text})
	}
	return out
}

func userMessage(text string) persona.ChatMessage {
	return persona.ChatMessage{Role: persona.RoleUser, Text: text}
}

func cloneLog(in []persona.ChatMessage) []persona.ChatMessage {
	return append([]persona.ChatMessage(nil), in...)
}
// #endregion streaming

// #region conversations
// converse sends text on c and appends both turns to its transcript once
// the reply completes.
func (e *Engine) converse(ctx context.Context, c *conversation, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	reply, err := stream(ctx, c.chat, text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, err
	}
	e.mu.Lock()
	c.log = append(c.log, userMessage(text), reply)
	e.mu.Unlock()
	return reply, nil
}

// transcript returns a copy of a conversation's messages.
func (e *Engine) transcript(c *conversation) []persona.ChatMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c == nil {
		return nil
	}
	return cloneLog(c.log)
}
// #endregion conversations
