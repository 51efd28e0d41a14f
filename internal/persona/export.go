package persona

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects an export rendering.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat maps a file extension or name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

type exportDoc struct {
	Draft      string             `json:"draft"`
	Persona    *StructuredPersona `json:"persona,omitempty"`
	Remix      *RemixData         `json:"remix,omitempty"`
	Completion float64            `json:"completeness_score,omitempty"`
}

// Export renders the final persona of s in the requested format.
func Export(s State, f Format) ([]byte, error) {
	draft := s.CurrentDraft
	if draft == "" && s.StructuredPersona != nil {
		draft = Compile(*s.StructuredPersona)
	}
	if strings.TrimSpace(draft) == "" {
		return nil, fmt.Errorf("export: nothing to export")
	}

	switch f {
	case FormatMarkdown:
		return []byte("# Persona System Prompt\n\n" + draft + "\n"), nil
	case FormatText:
		return []byte(stripMarkdown(draft) + "\n"), nil
	case FormatJSON:
		doc := exportDoc{Draft: draft, Persona: s.StructuredPersona, Remix: s.RemixData}
		if s.AnalysisReport != nil {
			doc.Completion = s.AnalysisReport.DepthAssessment.CompletenessScore
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export json: %w", err)
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("export: unsupported format %q", f)
}

// stripMarkdown removes heading markers so the text export reads as prose.
func stripMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, "# ")
		if strings.HasPrefix(l, "#") {
			lines[i] = strings.ToUpper(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}
