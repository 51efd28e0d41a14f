package persona

import "strings"

// #region compile
// Compile renders the character sheet as the draft system prompt. A remixed
// persona gets the psychological overlay appended after a rule.
func Compile(p StructuredPersona) string {
	var b strings.Builder
	writeSection(&b, "Appearance", p.Appearance)
	writeSection(&b, "Personality", p.Personality)
	writeSection(&b, "Backstory Framework", p.Backstory)
	writeSection(&b, "Speech & Communication Style", p.SpeechStyle)
	writeSection(&b, "Behavioral Patterns", p.Behaviors)
	base := strings.TrimSpace(b.String())

	if !p.Remixed() {
		return base
	}

	b.Reset()
	b.WriteString("---\n")
	writeSection(&b, "Inner Voice (<inner_voice>)", p.InnerVoice)
	writeSection(&b, "Core Wound", p.CoreWound)
	writeSection(&b, "Secret Desire", p.SecretDesire)
	writeSection(&b, "Worldview", p.Worldview)
	return base + "\n\n" + strings.TrimSpace(b.String())
}

func writeSection(b *strings.Builder, title, body string) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "---\n") {
		b.WriteString("\n")
	}
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
}
// #endregion compile

// #region transcript
// Transcript flattens chat turns into "role: text" lines, the form the
// structuring prompt expects.
func Transcript(msgs []ChatMessage) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, string(m.Role)+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

// TranscriptEmpty reports whether msgs carry no user or model text at all.
func TranscriptEmpty(msgs []ChatMessage) bool {
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) != "" {
			return false
		}
	}
	return true
}
// #endregion transcript
