package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/persona-forge/internal/gemini"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
	"github.com/danielpatrickdp/persona-forge/internal/prompts"
)

// #region analysis
// EnsureAnalysis runs the analysis when the current snapshot has no report.
func (e *Engine) EnsureAnalysis(ctx context.Context) (persona.FullAnalysisReport, error) {
	if r := e.stack.Current().AnalysisReport; r != nil {
		return *r, nil
	}
	return e.RunAnalysis(ctx)
}

// RunAnalysis runs the three-layer check. A reply that is not valid JSON
// yields an empty report rather than an error.
func (e *Engine) RunAnalysis(ctx context.Context) (persona.FullAnalysisReport, error) {
	p, err := e.structured()
	if err != nil {
		return persona.FullAnalysisReport{}, err
	}
	done, err := e.begin()
	if err != nil {
		return persona.FullAnalysisReport{}, err
	}
	defer done()

	prompt, err := prompts.Render(prompts.Analysis, prompts.Data{Language: e.lang(), PersonaJSON: prompts.JSON(p)})
	if err != nil {
		return persona.FullAnalysisReport{}, err
	}
	report := persona.EmptyReport()
	if err := e.gw.GenerateStructured(ctx, prompt, prompts.AnalysisSchema(), &report); err != nil {
		if !errors.Is(err, gemini.ErrMalformedResponse) {
			return persona.FullAnalysisReport{}, fmt.Errorf("analysis: %w", err)
		}
		e.log.Warn().Err(err).Msg("analysis reply unusable, using empty report")
		report = persona.EmptyReport()
	}
	normalizeReport(&report)
	e.push("analysis", persona.WithAnalysisReport(&report))
	return report, nil
}

func normalizeReport(r *persona.FullAnalysisReport) {
	if r.LogicalConflicts == nil {
		r.LogicalConflicts = []persona.LogicConflict{}
	}
	if r.DepthAssessment.MissingElements == nil {
		r.DepthAssessment.MissingElements = []persona.DepthElement{}
	}
	if r.DepthAssessment.Strengths == nil {
		r.DepthAssessment.Strengths = []string{}
	}
}

// checkInputs returns the persona and report the conflict and depth
// actions work on.
func (e *Engine) checkInputs() (persona.StructuredPersona, persona.FullAnalysisReport, error) {
	cur := e.stack.Current()
	if cur.StructuredPersona == nil {
		return persona.StructuredPersona{}, persona.FullAnalysisReport{}, ErrNoPersona
	}
	if cur.AnalysisReport == nil {
		return persona.StructuredPersona{}, persona.FullAnalysisReport{}, ErrNoReport
	}
	return *cur.StructuredPersona, *cur.AnalysisReport, nil
}
// #endregion analysis

// #region conflicts
// AutoFix rewrites the persona to remove conflict i.
func (e *Engine) AutoFix(ctx context.Context, i int) error {
	return e.resolve(ctx, "autofix", i, func(p persona.StructuredPersona, c persona.LogicConflict) (string, error) {
		return prompts.Render(prompts.AutoFix, prompts.Data{
			PersonaJSON: prompts.JSON(p),
			Conflict:    c.Detail,
			Suggestion:  c.Suggestion,
		})
	})
}

// Harmonize rewrites the persona so conflict i becomes a deliberate trait.
func (e *Engine) Harmonize(ctx context.Context, i int) error {
	return e.resolve(ctx, "harmonize", i, func(p persona.StructuredPersona, c persona.LogicConflict) (string, error) {
		return prompts.Render(prompts.Harmonize, prompts.Data{
			PersonaJSON: prompts.JSON(p),
			Conflict:    c.Detail,
		})
	})
}

// resolve pushes the rewritten persona with its recompiled draft, then a
// second snapshot with conflict i removed from the report.
func (e *Engine) resolve(ctx context.Context, action string, i int, build func(persona.StructuredPersona, persona.LogicConflict) (string, error)) error {
	p, report, err := e.checkInputs()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(report.LogicalConflicts) {
		return fmt.Errorf("%w: conflict %d", ErrIndexOutOfRange, i)
	}
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	prompt, err := build(p, report.LogicalConflicts[i])
	if err != nil {
		return err
	}
	var updated persona.StructuredPersona
	if err := e.gw.GenerateStructured(ctx, prompt, prompts.PersonaSchema(), &updated); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	updated = keepOverlay(updated, p)

	e.push(action, persona.WithStructuredPersona(&updated), persona.WithDraft(persona.Compile(updated)))
	report.LogicalConflicts = removeAt(report.LogicalConflicts, i)
	e.push(action, persona.WithAnalysisReport(&report))
	return nil
}

// keepOverlay carries accepted remix fields over a rewrite that only
// returned the base sections.
func keepOverlay(updated, prev persona.StructuredPersona) persona.StructuredPersona {
	if updated.Remixed() {
		return updated
	}
	updated.InnerVoice = prev.InnerVoice
	updated.CoreWound = prev.CoreWound
	updated.SecretDesire = prev.SecretDesire
	updated.Worldview = prev.Worldview
	return updated
}

// IgnoreConflict drops conflict i from the report.
func (e *Engine) IgnoreConflict(i int) error {
	_, report, err := e.checkInputs()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(report.LogicalConflicts) {
		return fmt.Errorf("%w: conflict %d", ErrIndexOutOfRange, i)
	}
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	report.LogicalConflicts = removeAt(report.LogicalConflicts, i)
	e.push("ignore_conflict", persona.WithAnalysisReport(&report))
	return nil
}
// #endregion conflicts

// #region depth
// SkipDepth drops missing element i from the depth assessment.
func (e *Engine) SkipDepth(i int) error {
	_, report, err := e.checkInputs()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(report.DepthAssessment.MissingElements) {
		return fmt.Errorf("%w: depth element %d", ErrIndexOutOfRange, i)
	}
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	report.DepthAssessment.MissingElements = removeAt(report.DepthAssessment.MissingElements, i)
	e.push("skip_depth", persona.WithAnalysisReport(&report))
	return nil
}

// AddDepth brainstorms an answer to missing element i, appends it to the
// personality section and removes the element from the report.
func (e *Engine) AddDepth(ctx context.Context, i int) (string, error) {
	p, report, err := e.checkInputs()
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(report.DepthAssessment.MissingElements) {
		return "", fmt.Errorf("%w: depth element %d", ErrIndexOutOfRange, i)
	}
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	item := report.DepthAssessment.MissingElements[i]
	prompt, err := prompts.Render(prompts.Brainstorm, prompts.Data{
		Language:    e.lang(),
		PersonaJSON: prompts.JSON(p),
		Question:    item.Question,
	})
	if err != nil {
		return "", err
	}
	text, err := e.gw.GenerateText(ctx, "", prompt, gemini.Options{})
	if err != nil {
		return "", fmt.Errorf("add depth: %w", err)
	}
	text = strings.TrimSpace(text)

	p.Personality += fmt.Sprintf("\n\n[Depth: %s]\n%s", item.Element, text)
	e.push("add_depth", persona.WithStructuredPersona(&p), persona.WithDraft(persona.Compile(p)))
	report.DepthAssessment.MissingElements = removeAt(report.DepthAssessment.MissingElements, i)
	e.push("add_depth", persona.WithAnalysisReport(&report))
	return text, nil
}
// #endregion depth

// #region remix
// Remix proposes a psychological overlay. Nothing is committed until
// AcceptRemix.
func (e *Engine) Remix(ctx context.Context) (persona.RemixData, error) {
	p, err := e.structured()
	if err != nil {
		return persona.RemixData{}, err
	}
	done, err := e.begin()
	if err != nil {
		return persona.RemixData{}, err
	}
	defer done()

	prompt, err := prompts.Render(prompts.Remix, prompts.Data{Language: e.lang(), PersonaJSON: prompts.JSON(p)})
	if err != nil {
		return persona.RemixData{}, err
	}
	var proposal persona.RemixData
	if err := e.gw.GenerateStructured(ctx, prompt, prompts.RemixSchema(), &proposal); err != nil {
		return persona.RemixData{}, fmt.Errorf("remix: %w", err)
	}
	return proposal, nil
}

// AcceptRemix merges the selected overlay fields, keeps the whole proposal
// for reference and recompiles the draft.
func (e *Engine) AcceptRemix(proposal persona.RemixData, sel persona.RemixSelection) error {
	p, err := e.structured()
	if err != nil {
		return err
	}
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	merged := p.Merge(proposal, sel)
	e.push("accept_remix",
		persona.WithStructuredPersona(&merged),
		persona.WithRemixData(&proposal),
		persona.WithDraft(persona.Compile(merged)),
	)
	return nil
}
// #endregion remix

// #region standards
// CompareWithStandard reports how the current draft measures up to a
// reference standard. The report is not stored.
func (e *Engine) CompareWithStandard(ctx context.Context, id string) (string, error) {
	std, ok := prompts.LookupStandard(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStandard, id)
	}
	draft := e.stack.Current().CurrentDraft
	if strings.TrimSpace(draft) == "" {
		return "", ErrNoDraft
	}
	done, err := e.begin()
	if err != nil {
		return "", err
	}
	defer done()

	prompt, err := prompts.Render(prompts.CompareStandard, prompts.Data{Language: e.lang(), Standard: std, Draft: draft})
	if err != nil {
		return "", err
	}
	out, err := e.gw.GenerateText(ctx, "", prompt, gemini.Options{})
	if err != nil {
		return "", fmt.Errorf("compare with %s: %w", id, err)
	}
	return out, nil
}
// #endregion standards

func removeAt[T any](in []T, i int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:i]...)
	return append(out, in[i+1:]...)
}
