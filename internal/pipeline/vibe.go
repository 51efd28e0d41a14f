package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// #region vibe
// StartVibe opens the vibe chat and returns the transcript to show. A fresh
// session gets the intro message; a session returning from crystallize to be
// modified gets the welcome-back message appended. Neither is committed
// until the next SendVibe or Crystallize.
func (e *Engine) StartVibe() ([]persona.ChatMessage, error) {
	system, err := prompts.Render(prompts.VibeSystem, prompts.Data{Language: e.lang()})
	if err != nil {
		return nil, err
	}
	cur := e.stack.Current()
	log := cloneLog(cur.VibeMessages)
	if len(log) == 0 {
		log = append(log, persona.ChatMessage{Role: persona.RoleModel, Text: e.tr.T("vibe.intro_msg", nil)})
	}
	if cur.IsModifying {
		log = append(log, persona.ChatMessage{Role: persona.RoleModel, Text: e.tr.T("vibe.modify_msg", nil)})
	}
	chat := e.gw.StartChat(system, gemini.Options{}, turns(cur.VibeMessages)...)

	e.mu.Lock()
	e.vibe = &conversation{chat: chat, log: log}
	e.mu.Unlock()
	return cloneLog(log), nil
}

// VibeTranscript is the vibe conversation as currently shown.
func (e *Engine) VibeTranscript() []persona.ChatMessage {
	e.mu.Lock()
	c := e.vibe
	e.mu.Unlock()
	if c == nil {
		return cloneLog(e.stack.Current().VibeMessages)
	}
	return e.transcript(c)
}

// SendVibe streams the muse's reply to text. The transcript is committed as
// one snapshot once the stream completes; a failed stream commits nothing.
func (e *Engine) SendVibe(ctx context.Context, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return persona.ChatMessage{}, ErrEmptyMessage
	}
	done, err := e.begin()
	if err != nil {
		return persona.ChatMessage{}, err
	}
	defer done()

	c, err := e.vibeConversation()
	if err != nil {
		return persona.ChatMessage{}, err
	}
	reply, err := e.converse(ctx, c, text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("vibe: %w", err)
	}
	e.push("vibe", persona.WithVibeMessages(e.transcript(c)))
	return reply, nil
}

func (e *Engine) vibeConversation() (*conversation, error) {
	e.mu.Lock()
	c := e.vibe
	e.mu.Unlock()
	if c != nil {
		return c, nil
	}
	if _, err := e.StartVibe(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vibe, nil
}
// #endregion vibe

// #region crystallize
// Crystallize turns the vibe transcript, plus any unsent input, into a
// structured persona and moves to the crystallize step.
func (e *Engine) Crystallize(ctx context.Context, pending string) (persona.StructuredPersona, error) {
	msgs := e.VibeTranscript()
	if p := strings.TrimSpace(pending); p != "" {
		msgs = append(msgs, userMessage(p))
	}
	if !hasUserText(msgs) {
		return persona.StructuredPersona{}, ErrEmptyTranscript
	}
	done, err := e.begin()
	if err != nil {
		return persona.StructuredPersona{}, err
	}
	defer done()

	fragment := persona.Transcript(msgs)
	prompt, err := prompts.Render(prompts.StructureVibe, prompts.Data{Language: e.lang(), Transcript: fragment})
	if err != nil {
		return persona.StructuredPersona{}, err
	}
	var sp persona.StructuredPersona
	if err := e.gw.GenerateStructured(ctx, prompt, prompts.PersonaSchema(), &sp); err != nil {
		return persona.StructuredPersona{}, fmt.Errorf("crystallize: %w", err)
	}

	e.push("crystallize",
		persona.WithVibeMessages(msgs),
		persona.WithVibeFragment(fragment),
		persona.WithStructuredPersona(&sp),
		persona.WithStep(persona.StepCrystallize),
		persona.WithModifying(false),
	)
	e.mu.Lock()
	e.vibe = nil
	e.mu.Unlock()
	return sp, nil
}

func hasUserText(msgs []persona.ChatMessage) bool {
	for _, m := range msgs {
		if m.Role == persona.RoleUser && strings.TrimSpace(m.Text) != "" {
			return true
		}
	}
	return false
}

// RegenerateSection asks for a fresh take on one character-sheet section.
func (e *Engine) RegenerateSection(ctx context.Context, section string) (string, error) {
	p, err := e.structured()
	if err != nil {
		return "", err
	}
	if _, ok := p.Section(section); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	prompt, err := prompts.Render(prompts.RegenerateSection, prompts.Data{
		Language:    e.lang(),
		Transcript:  e.stack.Current().VibeFragment,
		PersonaJSON: prompts.JSON(p),
		Section:     section,
	})
	if err != nil {
		return "", err
	}
	text, err := e.gw.GenerateText(ctx, "", prompt, gemini.Options{})
	if err != nil {
		return "", fmt.Errorf("regenerate %s: %w", section, err)
	}
	text = strings.TrimSpace(text)
	updated, _ := p.WithSection(section, text)
	e.push("regenerate_section", persona.WithStructuredPersona(&updated))
	return text, nil
}

// ModifyVibe returns to the vibe chat to keep editing.
func (e *Engine) ModifyVibe() error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	e.mu.Lock()
	e.vibe = nil
	e.mu.Unlock()
	e.push("modify_vibe", persona.WithStep(persona.StepVibeEntry), persona.WithModifying(true))
	return nil
}
// #endregion crystallize

// #region proceed
// ProceedToDirector compiles the draft and enters director refinement.
func (e *Engine) ProceedToDirector() error {
	return e.proceed("proceed_director", persona.StepRefineDirector)
}

// ProceedToCheck compiles the draft and goes straight to the check step.
func (e *Engine) ProceedToCheck() error {
	return e.proceed("proceed_check", persona.StepCheck)
}

func (e *Engine) proceed(action string, step persona.Step) error {
	p, err := e.structured()
	if err != nil {
		return err
	}
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	e.push(action, persona.WithDraft(persona.Compile(p)), persona.WithStep(step))
	return nil
}
// #endregion proceed
