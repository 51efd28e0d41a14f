package prompts

import "google.golang.org/genai"

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

// PersonaSchema constrains StructureVibe output. Field descriptions steer the
// model toward full paragraphs.
func PersonaSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"appearance":  str("A detailed description of the character's physical appearance, clothing style, and overall visual presence."),
			"personality": str("A deep dive into the character's core personality traits, including their temperament, key motivations, and any internal conflicts."),
			"backstory":   str("A framework for the character's background story, highlighting key events or relationships that shaped them."),
			"speechStyle": str("The character's unique style of speaking, including their tone, vocabulary, cadence, and any verbal tics."),
			"behaviors":   str("Typical behavior patterns, habits, or mannerisms the character exhibits in various situations."),
		},
		Required: []string{"appearance", "personality", "backstory", "speechStyle", "behaviors"},
	}
}

// PersonaUpdateSchema constrains AutoFix and Harmonize output.
func PersonaUpdateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"appearance":  str(""),
			"personality": str(""),
			"backstory":   str(""),
			"speechStyle": str(""),
			"behaviors":   str(""),
		},
		Required: []string{"appearance", "personality", "backstory", "speechStyle", "behaviors"},
	}
}

// AnalysisSchema constrains the three-part check report.
func AnalysisSchema() *genai.Schema {
	conflict := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":       str(""),
			"detail":     str(""),
			"severity":   {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
			"suggestion": str(""),
		},
		Required: []string{"type", "detail", "severity", "suggestion"},
	}
	element := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"element":       str(""),
			"question":      str(""),
			"why_important": str(""),
		},
		Required: []string{"element", "question", "why_important"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"logical_conflicts": {Type: genai.TypeArray, Items: conflict},
			"bias_analysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"bias_detected":     {Type: genai.TypeBoolean},
					"bias_type":         str(""),
					"evidence":          str(""),
					"gentle_suggestion": str(""),
				},
				Required: []string{"bias_detected"},
			},
			"depth_assessment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"completeness_score": {Type: genai.TypeNumber},
					"missing_elements":   {Type: genai.TypeArray, Items: element},
					"strengths":          {Type: genai.TypeArray, Items: str("")},
				},
				Required: []string{"completeness_score", "missing_elements", "strengths"},
			},
		},
		Required: []string{"logical_conflicts", "bias_analysis", "depth_assessment"},
	}
}

// RemixSchema constrains the psychological overlay.
func RemixSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"inner_voice":   str("The character's unspoken inner monologue, revealing their true thoughts vs. their spoken words."),
			"core_wound":    str("A significant past event or trauma that secretly drives their current behavior and fears."),
			"secret_desire": str("A deep, often unacknowledged, desire that conflicts with their outward personality."),
			"worldview":     str("The character's fundamental philosophy or belief about how the world works."),
		},
		Required: []string{"inner_voice", "core_wound", "secret_desire", "worldview"},
	}
}

// InspirationSchema wraps a category list in {"categories": [...]}.
func InspirationSchema() *genai.Schema {
	question := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          str(""),
			"text":        str(""),
			"type":        {Type: genai.TypeString, Enum: []string{"standard", "color", "reference"}},
			"example":     str(""),
			"placeholder": str(""),
		},
		Required: []string{"id", "text", "type", "example"},
	}
	category := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":        str(""),
			"icon":      str(""),
			"title":     str(""),
			"questions": {Type: genai.TypeArray, Items: question},
		},
		Required: []string{"id", "icon", "title", "questions"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"categories": {Type: genai.TypeArray, Items: category},
		},
	}
}
