package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// #region chat-slots
// open starts a chat in slot and streams the model's reply to opener. The
// opener itself is not shown in the transcript.
func (e *Engine) open(ctx context.Context, slot **conversation, system, opener string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	done, err := e.begin()
	if err != nil {
		return persona.ChatMessage{}, err
	}
	defer done()

	c := &conversation{chat: e.gw.StartChat(system, gemini.Options{})}
	e.mu.Lock()
	*slot = c
	e.mu.Unlock()

	reply, err := stream(ctx, c.chat, opener, onDelta)
	if err != nil {
		return persona.ChatMessage{}, err
	}
	e.mu.Lock()
	c.log = append(c.log, reply)
	e.mu.Unlock()
	return reply, nil
}

// say sends text on the chat in slot.
func (e *Engine) say(ctx context.Context, slot **conversation, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return persona.ChatMessage{}, ErrEmptyMessage
	}
	e.mu.Lock()
	c := *slot
	e.mu.Unlock()
	if c == nil {
		return persona.ChatMessage{}, ErrNoConversation
	}
	done, err := e.begin()
	if err != nil {
		return persona.ChatMessage{}, err
	}
	defer done()
	return e.converse(ctx, c, text, onDelta)
}

func (e *Engine) slotTranscript(slot **conversation) []persona.ChatMessage {
	e.mu.Lock()
	c := *slot
	e.mu.Unlock()
	return e.transcript(c)
}
// #endregion chat-slots

// #region director
// StartDirector opens the director interview on the current draft and
// streams its first question.
func (e *Engine) StartDirector(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	system, err := prompts.Render(prompts.DirectorSystem, prompts.Data{Draft: e.stack.Current().CurrentDraft})
	if err != nil {
		return persona.ChatMessage{}, err
	}
	reply, err := e.open(ctx, &e.director, system, e.tr.T("director.system.ready_prompt", nil), onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("start director: %w", err)
	}
	return reply, nil
}

// SendDirector answers the director's current question.
func (e *Engine) SendDirector(ctx context.Context, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	reply, err := e.say(ctx, &e.director, text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("director: %w", err)
	}
	return reply, nil
}

// SkipDirectorQuestion lets the director fill in the current answer.
func (e *Engine) SkipDirectorQuestion(ctx context.Context, onDelta DeltaFunc) (persona.ChatMessage, error) {
	return e.SendDirector(ctx, e.tr.T("director.skip_text", nil), onDelta)
}

// DirectorTranscript is the interview so far.
func (e *Engine) DirectorTranscript() []persona.ChatMessage {
	return e.slotTranscript(&e.director)
}

// FinishDirector asks the director to compile the interview into the final
// draft and moves to the check step.
func (e *Engine) FinishDirector(ctx context.Context) (string, error) {
	e.mu.Lock()
	c := e.director
	e.mu.Unlock()
	if c == nil {
		return "", ErrNoConversation
	}
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	reply, err := c.chat.Send(ctx, e.tr.T("director.system.compile_prompt", nil))
	if err != nil {
		return "", fmt.Errorf("finish director: %w", err)
	}
	draft := reply.Text

	e.push("finish_director", persona.WithDraft(draft), persona.WithStep(persona.StepCheck))
	e.mu.Lock()
	e.director = nil
	e.mu.Unlock()
	return draft, nil
}
// #endregion director
