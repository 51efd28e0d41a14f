package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// #region architect
// CompileArchitect compiles a form-driven spec into a prompt and starts a
// new session in director mode with it as the draft.
func (e *Engine) CompileArchitect(ctx context.Context, spec prompts.ArchitectSpec) (string, error) {
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	prompt, err := prompts.Render(prompts.ArchitectCompile, prompts.Data{Spec: spec})
	if err != nil {
		return "", err
	}
	out, err := e.gw.GenerateText(ctx, "", prompt, gemini.Options{})
	if err != nil {
		return "", fmt.Errorf("compile architect: %w", err)
	}
	e.mu.Lock()
	e.vibe, e.director, e.sim = nil, nil, nil
	e.mu.Unlock()
	e.stack.InitDirectorMode(out)
	return out, nil
}

// SuggestField proposes content for one form field. Web search is always
// on for suggestions.
func (e *Engine) SuggestField(ctx context.Context, field string, known any, intent string) (string, error) {
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	prompt, err := prompts.Render(prompts.FieldSuggestion, prompts.Data{
		Field:       field,
		ContextJSON: prompts.JSON(known),
		Intent:      intent,
	})
	if err != nil {
		return "", err
	}
	out, err := e.gw.GenerateText(ctx, "", prompt, gemini.Search(true))
	if err != nil {
		return "", fmt.Errorf("suggest %s: %w", field, err)
	}
	return strings.TrimSpace(out), nil
}
// #endregion architect

// #region tool
// StartTool opens the engineering-style tool interview.
func (e *Engine) StartTool(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	system, err := prompts.RenderLocalized(prompts.ArchitectSystem, e.lang(), prompts.Data{})
	if err != nil {
		return persona.ChatMessage{}, err
	}
	reply, err := e.open(ctx, &e.tool, system, e.tr.T("tool.init_prompt", nil), onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("start tool: %w", err)
	}
	return reply, nil
}

func (e *Engine) SendTool(ctx context.Context, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	reply, err := e.say(ctx, &e.tool, text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("tool: %w", err)
	}
	return reply, nil
}

// FinishTool asks for the final tool directive.
func (e *Engine) FinishTool(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	return e.SendTool(ctx, e.tr.T("tool.compile_prompt", nil), onDelta)
}

// SuggestToolInput proposes the next input for the tool interview.
func (e *Engine) SuggestToolInput(ctx context.Context) (string, error) {
	ctxData := map[string]string{"history": persona.Transcript(e.ToolTranscript())}
	return e.SuggestField(ctx, "Next Command / Input", ctxData, "Suggest the next logical step or input for the tool. Keep it purely functional.")
}

func (e *Engine) ToolTranscript() []persona.ChatMessage {
	return e.slotTranscript(&e.tool)
}
// #endregion tool

// #region antibias
// StartAntiBias opens the bias deconstruction chat. Non-empty subject text
// is audited directly.
func (e *Engine) StartAntiBias(ctx context.Context, subject string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	system, err := prompts.RenderLocalized(prompts.AntiBiasSystem, e.lang(), prompts.Data{Context: subject})
	if err != nil {
		return persona.ChatMessage{}, err
	}
	opener := e.tr.T("antibias.init_prompt", nil)
	if strings.TrimSpace(subject) != "" {
		opener = e.tr.T("antibias.context_prompt", nil)
	}
	reply, err := e.open(ctx, &e.antiBias, system, opener, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("start anti-bias: %w", err)
	}
	return reply, nil
}

// AuditDraft opens the anti-bias chat on the current draft.
func (e *Engine) AuditDraft(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	draft := e.stack.Current().CurrentDraft
	if strings.TrimSpace(draft) == "" {
		return persona.ChatMessage{}, ErrNoDraft
	}
	return e.StartAntiBias(ctx, draft, onDelta)
}

func (e *Engine) SendAntiBias(ctx context.Context, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	reply, err := e.say(ctx, &e.antiBias, text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("anti-bias: %w", err)
	}
	return reply, nil
}

// AntiBiasUnsure tells the auditor the user cannot name the intent.
func (e *Engine) AntiBiasUnsure(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	return e.SendAntiBias(ctx, e.tr.T("antibias.unsure_prompt", nil), onDelta)
}

// FinishAntiBias asks for the de-biasing summary.
func (e *Engine) FinishAntiBias(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	return e.SendAntiBias(ctx, e.tr.T("antibias.compile_prompt", nil), onDelta)
}

func (e *Engine) AntiBiasTranscript() []persona.ChatMessage {
	return e.slotTranscript(&e.antiBias)
}
// #endregion antibias
