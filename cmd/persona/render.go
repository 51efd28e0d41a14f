package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/danielpatrickdp/persona-forge/internal/i18n"
	"github.com/danielpatrickdp/persona-forge/internal/inspiration"
	"github.com/danielpatrickdp/persona-forge/internal/persona"
)

// #region palette
type palette struct {
	primary lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	good    lipgloss.Color
	warn    lipgloss.Color
	bad     lipgloss.Color
}

var palettes = map[i18n.Theme]palette{
	i18n.ThemeLight:  {primary: "#7C3AED", text: "#1F2937", muted: "#6B7280", good: "#059669", warn: "#B45309", bad: "#DC2626"},
	i18n.ThemeSlate:  {primary: "#A78BFA", text: "#E2E8F0", muted: "#94A3B8", good: "#34D399", warn: "#FBBF24", bad: "#F87171"},
	i18n.ThemeDark:   {primary: "#8B5CF6", text: "#F3F4F6", muted: "#9CA3AF", good: "#10B981", warn: "#F59E0B", bad: "#EF4444"},
	i18n.ThemeBlack:  {primary: "#C4B5FD", text: "#FAFAFA", muted: "#A3A3A3", good: "#4ADE80", warn: "#FACC15", bad: "#F87171"},
	i18n.ThemeAmoled: {primary: "#E879F9", text: "#FFFFFF", muted: "#737373", good: "#22C55E", warn: "#EAB308", bad: "#EF4444"},
}
// #endregion palette

// #region view
// view prints themed output for one command.
type view struct {
	w     io.Writer
	tr    *i18n.Store
	theme i18n.Theme

	title   lipgloss.Style
	text    lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	box     lipgloss.Style
	heading lipgloss.Style
}

func newView(w io.Writer, tr *i18n.Store) *view {
	theme := tr.Theme()
	p, ok := palettes[theme]
	if !ok {
		p = palettes[i18n.ThemeDark]
	}
	r := lipgloss.NewRenderer(w, termenv.WithColorCache(true))
	r.SetHasDarkBackground(theme.Dark())

	return &view{
		w:       w,
		tr:      tr,
		theme:   theme,
		title:   r.NewStyle().Bold(true).Foreground(p.primary),
		text:    r.NewStyle().Foreground(p.text),
		dim:     r.NewStyle().Foreground(p.muted),
		good:    r.NewStyle().Foreground(p.good),
		warn:    r.NewStyle().Foreground(p.warn),
		bad:     r.NewStyle().Foreground(p.bad),
		heading: r.NewStyle().Bold(true).Underline(true).Foreground(p.text),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
	}
}

func (v *view) t(key string, params map[string]any) string {
	return v.tr.T(key, params)
}

func (v *view) println(s string) {
	fmt.Fprintln(v.w, s)
}

func (v *view) titled(key string) {
	v.println(v.title.Render(v.t(key, nil)))
}

func (v *view) info(s string) { v.println(v.dim.Render(s)) }
func (v *view) success(s string) { v.println(v.good.Render("✓ " + s)) }
func (v *view) failure(s string) { v.println(v.bad.Render("✗ " + s)) }

// markdown renders s through glamour, falling back to plain text.
func (v *view) markdown(s string) {
	style := "light"
	if v.theme.Dark() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		v.println(s)
		return
	}
	out, err := r.Render(s)
	if err != nil {
		v.println(s)
		return
	}
	fmt.Fprint(v.w, out)
}
// #endregion view

// #region blocks
func (v *view) status(cur persona.State, index, total int) {
	v.titled("home.title")
	v.info(v.t("home.subtitle", nil))
	v.println(v.text.Render(v.t("home.status", map[string]any{
		"step":  cur.Step,
		"index": index + 1,
		"total": total,
	})))
}

func (v *view) persona(p persona.StructuredPersona) {
	v.titled("crys.title")
	for _, name := range persona.Sections {
		body, _ := p.Section(name)
		v.println(v.heading.Render(v.t("crys.card_"+name, nil)))
		v.println(v.text.Render(body))
		v.println("")
	}
	if p.Remixed() {
		v.remix(persona.RemixData{
			InnerVoice:   p.InnerVoice,
			CoreWound:    p.CoreWound,
			SecretDesire: p.SecretDesire,
			Worldview:    p.Worldview,
		})
	}
}

func (v *view) remix(r persona.RemixData) {
	v.titled("check.remix_modal.title")
	fields := []struct{ key, body string }{
		{"check.remix_modal.field_inner_voice", r.InnerVoice},
		{"check.remix_modal.field_core_wound", r.CoreWound},
		{"check.remix_modal.field_secret_desire", r.SecretDesire},
		{"check.remix_modal.field_worldview", r.Worldview},
	}
	for _, f := range fields {
		if f.body == "" {
			continue
		}
		v.println(v.heading.Render(v.t(f.key, nil)))
		v.println(v.text.Render(f.body))
	}
}

func (v *view) report(r persona.FullAnalysisReport) {
	v.titled("check.title")

	v.println(v.heading.Render(v.t("check.logic_title", nil)))
	if len(r.LogicalConflicts) == 0 {
		v.println(v.good.Render(v.t("check.good", nil)))
	} else {
		v.println(v.warn.Render(v.t("check.issues", nil) + " · " + v.t("check.items_found", map[string]any{"count": len(r.LogicalConflicts)})))
		for i, c := range r.LogicalConflicts {
			sev := v.dim
			if c.Severity == persona.SeverityHigh {
				sev = v.bad
			}
			v.println(fmt.Sprintf("  %d. %s %s", i+1, sev.Render("["+string(c.Severity)+"]"), v.text.Render(v.t("check.issue_label", nil)+" "+c.Detail)))
			v.println("     " + v.dim.Render(v.t("check.suggestion_label", nil)+" "+c.Suggestion))
		}
	}
	v.println("")

	v.println(v.heading.Render(v.t("check.bias_title", nil)))
	if !r.BiasAnalysis.BiasDetected {
		v.println(v.good.Render(v.t("check.bias_none", nil)))
	} else {
		b := r.BiasAnalysis
		v.println(v.warn.Render(v.t("check.bias_detected", nil) + ": " + b.BiasType))
		if b.Evidence != "" {
			v.println("  " + v.text.Render(b.Evidence))
		}
		if b.GentleSuggestion != "" {
			v.println("  " + v.dim.Render(b.GentleSuggestion))
		}
	}
	v.println("")

	d := r.DepthAssessment
	v.println(v.heading.Render(v.t("check.depth_title", nil)))
	v.println(fmt.Sprintf("%s: %.0f/100", v.t("check.depth_score", nil), d.CompletenessScore))
	if len(d.Strengths) > 0 {
		v.println(v.good.Render("+ " + strings.Join(d.Strengths, ", ")))
	}
	if len(d.MissingElements) > 0 {
		v.println(v.text.Render(v.t("check.missing_elements", nil)))
		for i, m := range d.MissingElements {
			v.println(fmt.Sprintf("  %d. %s: %s", i+1, v.title.Render(m.Element), m.Question))
			if m.WhyImportant != "" {
				v.println("     " + v.dim.Render(m.WhyImportant))
			}
		}
	}
}

func (v *view) message(m persona.ChatMessage) {
	label := v.title.Render("muse")
	if m.Role == persona.RoleUser {
		label = v.dim.Render("you")
	}
	v.println(label + "  " + v.text.Render(m.Text))
	v.sources("vibe.sources", m.GroundingChunks)
}

func (v *view) sources(key string, chunks []persona.GroundingChunk) {
	if len(chunks) == 0 {
		return
	}
	v.println(v.dim.Render(v.t(key, nil) + ":"))
	for _, c := range chunks {
		title := c.Web.Title
		if title == "" {
			title = c.Web.URI
		}
		v.println(v.dim.Render("  • " + title + " <" + c.Web.URI + ">"))
	}
}

func (v *view) categories(cats []inspiration.Category) {
	v.titled("inspiration.title")
	for _, c := range cats {
		head := c.Title
		if c.IsAI() {
			head += " ✨"
		}
		v.println(v.box.Render(v.heading.Render(head) + "\n" + v.questionList(c.Questions)))
	}
}

func (v *view) questionList(qs []inspiration.Question) string {
	lines := make([]string, 0, len(qs))
	for _, q := range qs {
		line := "• " + q.Text
		if q.Example != "" {
			line += "\n  " + v.dim.Render(v.t("inspiration.example_label", nil)+" "+q.Example)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
// #endregion blocks

// #region streaming
// streamPrinter writes the unseen tail of each streamed delta.
type streamPrinter struct {
	v       *view
	printed int
	started bool
}

func (v *view) streamer() *streamPrinter {
	return &streamPrinter{v: v}
}

func (p *streamPrinter) onDelta(m persona.ChatMessage) {
	if !p.started {
		fmt.Fprint(p.v.w, p.v.title.Render("muse")+"  ")
		p.started = true
	}
	if len(m.Text) > p.printed {
		fmt.Fprint(p.v.w, m.Text[p.printed:])
		p.printed = len(m.Text)
	}
}

// done ends the streamed line and lists the reply's sources.
func (p *streamPrinter) done(reply persona.ChatMessage, sourcesKey string) {
	if !p.started {
		p.v.println(p.v.title.Render("muse") + "  " + reply.Text)
	} else {
		fmt.Fprintln(p.v.w)
	}
	p.v.sources(sourcesKey, reply.GroundingChunks)
	p.printed, p.started = 0, false
}
// #endregion streaming
