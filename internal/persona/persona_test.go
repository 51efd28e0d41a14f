package persona

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePersona() StructuredPersona {
	return StructuredPersona{
		Appearance:  "tall, silver hair",
		Personality: "cynical but kind",
		Backstory:   "former detective",
		SpeechStyle: "clipped sentences",
		Behaviors:   "lights cigarettes he never smokes",
	}
}

func TestApplyCarriesOverUntouchedFields(t *testing.T) {
	base := Empty().Apply(WithVibeMessages([]ChatMessage{{Role: RoleUser, Text: "rain"}}))
	p := samplePersona()

	next := base.Apply(WithStructuredPersona(&p), WithStep(StepCrystallize))

	assert.Equal(t, StepCrystallize, next.Step)
	assert.Equal(t, base.VibeMessages, next.VibeMessages)
	require.NotNil(t, next.StructuredPersona)
	assert.Equal(t, p, *next.StructuredPersona)
	assert.Equal(t, StepVibeEntry, base.Step, "original snapshot must not change")
}

func TestApplyDoesNotAliasInputs(t *testing.T) {
	msgs := []ChatMessage{{Role: RoleUser, Text: "a"}}
	s := Empty().Apply(WithVibeMessages(msgs))
	msgs[0].Text = "mutated"
	assert.Equal(t, "a", s.VibeMessages[0].Text)

	p := samplePersona()
	s = s.Apply(WithStructuredPersona(&p))
	p.Appearance = "changed"
	assert.Equal(t, "tall, silver hair", s.StructuredPersona.Appearance)
}

func TestCloneIsDeep(t *testing.T) {
	r := EmptyReport()
	r.LogicalConflicts = append(r.LogicalConflicts, LogicConflict{Type: "timeline"})
	s := Empty().Apply(WithAnalysisReport(&r))

	c := s.Clone()
	c.AnalysisReport.LogicalConflicts[0].Type = "other"
	assert.Equal(t, "timeline", s.AnalysisReport.LogicalConflicts[0].Type)
}

func TestWithNilClearsOptionalFields(t *testing.T) {
	p := samplePersona()
	s := Empty().Apply(WithStructuredPersona(&p), WithRemixData(&RemixData{Worldview: "x"}))
	s = s.Apply(WithStructuredPersona(nil), WithRemixData(nil))
	assert.Nil(t, s.StructuredPersona)
	assert.Nil(t, s.RemixData)
}

func TestStateJSONFieldNames(t *testing.T) {
	p := samplePersona()
	s := Empty().Apply(WithStructuredPersona(&p), WithDraft("d"))
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	for _, key := range []string{`"step":"vibe-entry"`, `"vibeMessages":[]`, `"currentDraft":"d"`, `"simulationType":"chat"`, `"speechStyle"`} {
		assert.Contains(t, string(raw), key)
	}

	var back State
	require.NoError(t, json.Unmarshal(raw, &back))
	if diff := cmp.Diff(s, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionAccessors(t *testing.T) {
	p := samplePersona()
	for _, name := range Sections {
		_, ok := p.Section(name)
		assert.True(t, ok, name)
	}
	_, ok := p.Section("nope")
	assert.False(t, ok)

	q, ok := p.WithSection(SectionBackstory, "new")
	require.True(t, ok)
	assert.Equal(t, "new", q.Backstory)
	assert.Equal(t, "former detective", p.Backstory)
}

func TestMergeSelection(t *testing.T) {
	r := RemixData{InnerVoice: "iv", CoreWound: "cw", SecretDesire: "sd", Worldview: "wv"}
	p := samplePersona().Merge(r, RemixSelection{InnerVoice: true, Worldview: true})
	assert.Equal(t, "iv", p.InnerVoice)
	assert.Equal(t, "wv", p.Worldview)
	assert.Empty(t, p.CoreWound)
	assert.True(t, p.Remixed())
}

func TestCompile(t *testing.T) {
	out := Compile(samplePersona())
	assert.True(t, strings.HasPrefix(out, "## Appearance\ntall, silver hair\n\n## Personality"))
	assert.Contains(t, out, "## Behavioral Patterns\nlights cigarettes he never smokes")
	assert.NotContains(t, out, "Inner Voice")

	remixed := samplePersona().Merge(RemixData{InnerVoice: "iv", CoreWound: "cw", SecretDesire: "sd", Worldview: "wv"}, SelectAll())
	out = Compile(remixed)
	assert.Contains(t, out, "\n\n---\n## Inner Voice (<inner_voice>)\niv\n\n## Core Wound\ncw")
	assert.True(t, strings.HasSuffix(out, "## Worldview\nwv"))
}

func TestTranscript(t *testing.T) {
	msgs := []ChatMessage{{Role: RoleUser, Text: "hi"}, {Role: RoleModel, Text: "hello"}}
	assert.Equal(t, "user: hi\nmodel: hello", Transcript(msgs))
	assert.False(t, TranscriptEmpty(msgs))
	assert.True(t, TranscriptEmpty([]ChatMessage{{Role: RoleUser, Text: "  "}}))
	assert.True(t, TranscriptEmpty(nil))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StepVibeEntry, StepCrystallize))
	assert.True(t, CanTransition(StepCheck, StepSimulation))
	assert.True(t, CanTransition(StepCheck, StepCheck))
	assert.False(t, CanTransition(StepVibeEntry, StepFinal))
	assert.True(t, StepFinal.Valid())
	assert.False(t, Step("bogus").Valid())
}

func TestHasProgress(t *testing.T) {
	assert.False(t, Empty().HasProgress())
	assert.True(t, Empty().Apply(WithVibeMessages([]ChatMessage{{Role: RoleUser, Text: "hi"}})).HasProgress())
	assert.True(t, Empty().Apply(WithDraft("draft")).HasProgress())
	assert.True(t, Empty().Apply(WithStep(StepRefineDirector)).HasProgress())
}

func TestExport(t *testing.T) {
	p := samplePersona()
	s := Empty().Apply(WithStructuredPersona(&p))

	md, err := Export(s, FormatMarkdown)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# Persona System Prompt\n\n## Appearance"))

	txt, err := Export(s, FormatText)
	require.NoError(t, err)
	assert.Contains(t, string(txt), "APPEARANCE\ntall, silver hair")

	js, err := Export(s.Apply(WithDraft("custom")), FormatJSON)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(js, &doc))
	assert.Equal(t, "custom", doc["draft"])

	_, err = Export(Empty(), FormatMarkdown)
	assert.Error(t, err)

	f, err := ParseFormat(".MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
