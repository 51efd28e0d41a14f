package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// ProceedToSimulation enters the simulation step with a fresh chat.
func (e *Engine) ProceedToSimulation() error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	e.mu.Lock()
	e.sim = nil
	e.mu.Unlock()
	e.setStep("proceed_simulation", persona.StepSimulation)
	return nil
}

// SendSimulation talks to the compiled draft as if it were deployed. Both
// turns are committed in one snapshot once the reply completes.
func (e *Engine) SendSimulation(ctx context.Context, text string, onDelta DeltaFunc) (persona.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return persona.ChatMessage{}, ErrEmptyMessage
	}
	cur := e.stack.Current()
	if strings.TrimSpace(cur.CurrentDraft) == "" {
		return persona.ChatMessage{}, ErrNoDraft
	}
	done, err := e.begin()
	if err != nil {
		return persona.ChatMessage{}, err
	}
	defer done()

	reply, err := stream(ctx, e.simChat(cur), text, onDelta)
	if err != nil {
		return persona.ChatMessage{}, fmt.Errorf("simulation: %w", err)
	}
	hist := append(cur.SimulationHistory,
		persona.SimulationTurn{Role: persona.RoleUser, Text: text},
		persona.SimulationTurn{Role: persona.RoleModel, Text: reply.Text},
	)
	e.push("simulation", persona.WithSimulationHistory(hist), persona.WithSimulationType(persona.SimulationChat))
	return reply, nil
}

// simChat returns the running simulation chat, seeding a new one from the
// stored transcript.
func (e *Engine) simChat(cur persona.State) ChatSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim != nil {
		return e.sim
	}
	var history []gemini.Turn
	for _, t := range cur.SimulationHistory {
		if len(history) == 0 && t.Role != persona.RoleUser {
			continue
		}
		history = append(history, gemini.Turn{Role: t.Role, Text: t.Text})
	}
	e.sim = e.gw.StartChat(cur.CurrentDraft, gemini.Options{}, history...)
	return e.sim
}

// GenerateQuotes produces sample lines for the draft and switches the
// simulation view to quotes.
func (e *Engine) GenerateQuotes(ctx context.Context) (string, error) {
	cur := e.stack.Current()
	if strings.TrimSpace(cur.CurrentDraft) == "" {
		return "", ErrNoDraft
	}
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	prompt, err := prompts.Render(prompts.Quotes, prompts.Data{Language: e.lang(), Draft: cur.CurrentDraft})
	if err != nil {
		return "", err
	}
	out, err := e.gw.GenerateText(ctx, "", prompt, gemini.Options{})
	if err != nil {
		return "", fmt.Errorf("quotes: %w", err)
	}
	if cur.SimulationType != persona.SimulationQuotes {
		e.push("quotes", persona.WithSimulationType(persona.SimulationQuotes))
	}
	return out, nil
}

// Finalize moves to the final step.
func (e *Engine) Finalize() error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	e.setStep("finalize", persona.StepFinal)
	return nil
}
