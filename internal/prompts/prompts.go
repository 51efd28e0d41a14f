// Package prompts renders the system prompts and request prompts sent to the
// model, and defines the JSON schemas structured calls are constrained by.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tpl.md
var templateFS embed.FS

var templates = template.Must(template.New("prompts").ParseFS(templateFS, "templates/*.tpl.md"))

// Name identifies a prompt template.
type Name string

const (
	VibeSystem        Name = "vibe_system"
	StructureVibe     Name = "structure_vibe"
	RegenerateSection Name = "regenerate_section"
	DirectorSystem    Name = "director_system"
	Analysis          Name = "analysis"
	AutoFix           Name = "autofix"
	Harmonize         Name = "harmonize"
	Remix             Name = "remix"
	Brainstorm        Name = "brainstorm"
	CompareStandard   Name = "compare_standard"
	Quotes            Name = "quotes"
	ArchitectCompile  Name = "architect_compile"
	FieldSuggestion   Name = "field_suggestion"
	InspirationNew    Name = "inspiration_generate"
	InspirationRemix  Name = "inspiration_remix"

	// Localized system prompts; see RenderLocalized.
	ArchitectSystem Name = "architect_system"
	AntiBiasSystem  Name = "antibias_system"
)

// fallbackLanguage is used when a localized template has no variant for the
// requested language.
const fallbackLanguage = "en"

// Data carries every field the templates reference. Unused fields are left
// empty.
type Data struct {
	Language       string
	Transcript     string
	PersonaJSON    string
	Section        string
	Draft          string
	Conflict       string
	Suggestion     string
	Question       string
	Standard       ReferenceStandard
	Spec           ArchitectSpec
	Field          string
	ContextJSON    string
	Intent         string
	Context        string
	CategoriesJSON string
	Prefix         string
}

// Render executes the named template.
func Render(name Name, data Data) (string, error) {
	return execute(string(name)+".tpl.md", data)
}

// RenderLocalized executes the variant of name for lang, falling back to
// English when no variant exists.
func RenderLocalized(name Name, lang string, data Data) (string, error) {
	file := fmt.Sprintf("%s.%s.tpl.md", name, lang)
	if templates.Lookup(file) == nil {
		file = fmt.Sprintf("%s.%s.tpl.md", name, fallbackLanguage)
	}
	return execute(file, data)
}

func execute(file string, data Data) (string, error) {
	if templates.Lookup(file) == nil {
		return "", fmt.Errorf("unknown prompt template %q", file)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("render %s: %w", file, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// JSON pretty-prints v for embedding in a prompt.
func JSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}
