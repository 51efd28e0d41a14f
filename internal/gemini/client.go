// Package gemini is the LLM gateway: single-shot text, schema-constrained
// JSON and streaming chat sessions against the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/danielpatrickdp/persona-forge/internal/metrics"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrMalformedResponse means the model returned text that is not the
	// requested JSON. Callers fall back to a default structure.
	ErrMalformedResponse = errors.New("malformed structured response")
	// ErrEmptyResponse means the model returned no candidates.
	ErrEmptyResponse = errors.New("empty response from model")
)

// #region client
// contentGenerator is the subset of *genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Config configures a Client.
type Config struct {
	APIKey string
	Model  string
	// WebSearch enables Google Search grounding for calls whose Options do
	// not say otherwise.
	WebSearch bool
	Metrics   metrics.Recorder
	Logger    *zerolog.Logger
}

// Client wraps the Gemini models API.
type Client struct {
	models    contentGenerator
	model     string
	webSearch bool
	rec       metrics.Recorder
	log       zerolog.Logger
}

// Options adjust a single call.
type Options struct {
	// WebSearch overrides Config.WebSearch when set.
	WebSearch   *bool
	Temperature *float32
}

// Search returns Options with web search forced on or off.
func Search(enabled bool) Options {
	return Options{WebSearch: &enabled}
}

// New connects to the Gemini API with the given key.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newWithGenerator(gc.Models, cfg), nil
}

func newWithGenerator(gen contentGenerator, cfg Config) *Client {
	c := &Client{
		models:    gen,
		model:     cfg.Model,
		webSearch: cfg.WebSearch,
		rec:       cfg.Metrics,
		log:       zerolog.Nop(),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.rec == nil {
		c.rec = metrics.Nop{}
	}
	if cfg.Logger != nil {
		c.log = *cfg.Logger
	}
	return c
}

// Model returns the model name calls are sent to.
func (c *Client) Model() string {
	return c.model
}
// #endregion client

// #region generate
// GenerateText runs a single-shot generation with a system prompt.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userContent string, opts Options) (string, error) {
	config := c.config(systemPrompt, opts)
	resp, err := c.generate(ctx, "text", []*genai.Content{userText(userContent)}, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateStructured asks for JSON matching schema and decodes it into out.
// Text that does not decode yields ErrMalformedResponse.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	resp, err := c.generate(ctx, "structured", []*genai.Content{userText(prompt)}, config)
	if err != nil {
		return err
	}
	text := StripCodeFence(resp.Text())
	if err := json.Unmarshal([]byte(text), out); err != nil {
		c.rec.ObserveRequest(c.model, "structured_decode", false, "malformed", 0)
		c.log.Warn().Err(err).Int("bytes", len(text)).Msg("structured response did not decode")
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, op string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err == nil && (resp == nil || len(resp.Candidates) == 0) {
		err = ErrEmptyResponse
	}
	if err != nil {
		c.rec.ObserveRequest(c.model, op, false, errorType(err), time.Since(start))
		c.log.Error().Err(err).Str("op", op).Msg("gemini call failed")
		return nil, fmt.Errorf("gemini %s: %w", op, err)
	}
	c.rec.ObserveRequest(c.model, op, true, "", time.Since(start))
	c.observeUsage(op, resp)
	return resp, nil
}

func (c *Client) config(systemPrompt string, opts Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{Temperature: opts.Temperature}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	search := c.webSearch
	if opts.WebSearch != nil {
		search = *opts.WebSearch
	}
	if search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return config
}

func (c *Client) observeUsage(op string, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	c.rec.ObserveTokens(c.model, op, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
}
// #endregion generate

// #region helpers
func userText(text string) *genai.Content {
	return &genai.Content{
		Role:  string(persona.RoleUser),
		Parts: []*genai.Part{{Text: text}},
	}
}

// StripCodeFence removes a surrounding markdown code fence such as
// ```json ... ``` that models sometimes wrap JSON in.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// citations converts grounding metadata into snapshot citations.
func citations(resp *genai.GenerateContentResponse) []persona.GroundingChunk {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var out []persona.GroundingChunk
	for _, gc := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if gc == nil || gc.Web == nil {
			continue
		}
		out = append(out, persona.GroundingChunk{Web: persona.WebSource{URI: gc.Web.URI, Title: gc.Web.Title}})
	}
	return out
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	default:
		return "api"
	}
}
// #endregion helpers
