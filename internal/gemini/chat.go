package gemini

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// Turn is one prior message used to seed a chat.
type Turn struct {
	Role persona.Role
	Text string
}

// Chunk is one streamed delta. Citations accompany the chunk that carried
// them.
type Chunk struct {
	Text      string
	Citations []persona.GroundingChunk
}

// Chat is a multi-turn session bound to one system prompt. The model's
// replies are appended to the session history as streams complete.
type Chat struct {
	client *Client
	config *genai.GenerateContentConfig

	mu      sync.Mutex
	history []*genai.Content
}

// StartChat opens a chat session seeded with prior turns.
func (c *Client) StartChat(systemPrompt string, opts Options, history ...Turn) *Chat {
	ch := &Chat{client: c, config: c.config(systemPrompt, opts)}
	for _, t := range history {
		ch.history = append(ch.history, &genai.Content{
			Role:  string(t.Role),
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	return ch
}

// History returns the session turns so far.
func (ch *Chat) History() []Turn {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	out := make([]Turn, 0, len(ch.history))
	for _, content := range ch.history {
		var b strings.Builder
		for _, p := range content.Parts {
			b.WriteString(p.Text)
		}
		out = append(out, Turn{Role: persona.Role(content.Role), Text: b.String()})
	}
	return out
}

// SendStream sends message and yields text deltas until the reply ends.
// A failed stream leaves the session history unchanged.
func (ch *Chat) SendStream(ctx context.Context, message string) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		ch.mu.Lock()
		defer ch.mu.Unlock()

		c := ch.client
		contents := append(append([]*genai.Content{}, ch.history...), userText(message))

		start := time.Now()
		var reply strings.Builder
		// Usage totals are cumulative across chunks; only the last one counts.
		var usage *genai.GenerateContentResponse
		defer func() { c.observeUsage("stream", usage) }()
		for resp, err := range c.models.GenerateContentStream(ctx, c.model, contents, ch.config) {
			if err != nil {
				c.rec.ObserveRequest(c.model, "stream", false, errorType(err), time.Since(start))
				c.log.Error().Err(err).Msg("gemini stream failed")
				yield(Chunk{}, fmt.Errorf("gemini stream: %w", err))
				return
			}
			if resp.UsageMetadata != nil {
				usage = resp
			}
			chunk := Chunk{Text: resp.Text(), Citations: citations(resp)}
			reply.WriteString(chunk.Text)
			if !yield(chunk, nil) {
				c.rec.ObserveRequest(c.model, "stream", false, "canceled", time.Since(start))
				return
			}
		}
		c.rec.ObserveRequest(c.model, "stream", true, "", time.Since(start))

		ch.history = append(contents, &genai.Content{
			Role:  string(persona.RoleModel),
			Parts: []*genai.Part{{Text: reply.String()}},
		})
	}
}

// Send collects a whole streamed reply.
func (ch *Chat) Send(ctx context.Context, message string) (Chunk, error) {
	var out Chunk
	var b strings.Builder
	for chunk, err := range ch.SendStream(ctx, message) {
		if err != nil {
			return Chunk{}, err
		}
		b.WriteString(chunk.Text)
		out.Citations = append(out.Citations, chunk.Citations...)
	}
	out.Text = b.String()
	return out, nil
}
