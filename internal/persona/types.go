package persona

// #region step
// Step identifies a stage of the authoring pipeline.
type Step string

const (
	StepVibeEntry      Step = "vibe-entry"
	StepCrystallize    Step = "crystallize"
	StepRefineDirector Step = "refine-director"
	StepCheck          Step = "check"
	StepSimulation     Step = "simulation"
	StepFinal          Step = "final"
)

// Steps lists the pipeline stages in their normal order.
var Steps = []Step{StepVibeEntry, StepCrystallize, StepRefineDirector, StepCheck, StepSimulation, StepFinal}

// Valid reports whether s is a known pipeline stage.
func (s Step) Valid() bool {
	for _, known := range Steps {
		if s == known {
			return true
		}
	}
	return false
}
// #endregion step

// #region chat
// Role is the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// GroundingChunk is a web source returned with search-grounded output.
type GroundingChunk struct {
	Web WebSource `json:"web"`
}

// WebSource is the uri/title pair of a grounding citation.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ChatMessage is one turn of the vibe transcript.
type ChatMessage struct {
	Role            Role             `json:"role"`
	Text            string           `json:"text"`
	IsStreaming     bool             `json:"isStreaming,omitempty"`
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

// SimulationTurn is one turn of the simulation transcript.
type SimulationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SimulationType selects how the simulation step exercises the draft.
type SimulationType string

const (
	SimulationChat   SimulationType = "chat"
	SimulationQuotes SimulationType = "quotes"
)
// #endregion chat

// #region structured-persona
// StructuredPersona is the compiled character sheet. The remix fields are
// empty until a remix overlay has been accepted.
type StructuredPersona struct {
	Appearance  string `json:"appearance"`
	Personality string `json:"personality"`
	Backstory   string `json:"backstory"`
	SpeechStyle string `json:"speechStyle"`
	Behaviors   string `json:"behaviors"`

	InnerVoice   string `json:"inner_voice,omitempty"`
	CoreWound    string `json:"core_wound,omitempty"`
	SecretDesire string `json:"secret_desire,omitempty"`
	Worldview    string `json:"worldview,omitempty"`
}

// Section names accepted by Section and WithSection.
const (
	SectionAppearance  = "appearance"
	SectionPersonality = "personality"
	SectionBackstory   = "backstory"
	SectionSpeechStyle = "speechStyle"
	SectionBehaviors   = "behaviors"
)

// Sections lists the base character-sheet sections in display order.
var Sections = []string{SectionAppearance, SectionPersonality, SectionBackstory, SectionSpeechStyle, SectionBehaviors}

// Section returns the text of a named base section.
func (p StructuredPersona) Section(name string) (string, bool) {
	switch name {
	case SectionAppearance:
		return p.Appearance, true
	case SectionPersonality:
		return p.Personality, true
	case SectionBackstory:
		return p.Backstory, true
	case SectionSpeechStyle:
		return p.SpeechStyle, true
	case SectionBehaviors:
		return p.Behaviors, true
	}
	return "", false
}

// WithSection returns a copy of p with one base section replaced.
func (p StructuredPersona) WithSection(name, text string) (StructuredPersona, bool) {
	switch name {
	case SectionAppearance:
		p.Appearance = text
	case SectionPersonality:
		p.Personality = text
	case SectionBackstory:
		p.Backstory = text
	case SectionSpeechStyle:
		p.SpeechStyle = text
	case SectionBehaviors:
		p.Behaviors = text
	default:
		return p, false
	}
	return p, true
}

// Remixed reports whether any psychological overlay field is present.
func (p StructuredPersona) Remixed() bool {
	return p.InnerVoice != "" || p.CoreWound != "" || p.SecretDesire != "" || p.Worldview != ""
}
// #endregion structured-persona

// #region remix
// RemixData is the four-field psychological overlay produced by a remix.
type RemixData struct {
	InnerVoice   string `json:"inner_voice"`
	CoreWound    string `json:"core_wound"`
	SecretDesire string `json:"secret_desire"`
	Worldview    string `json:"worldview"`
}

// RemixSelection picks which overlay fields are merged on acceptance.
type RemixSelection struct {
	InnerVoice   bool
	CoreWound    bool
	SecretDesire bool
	Worldview    bool
}

// SelectAll accepts every overlay field.
func SelectAll() RemixSelection {
	return RemixSelection{InnerVoice: true, CoreWound: true, SecretDesire: true, Worldview: true}
}

// Merge overlays the selected remix fields onto p.
func (p StructuredPersona) Merge(r RemixData, sel RemixSelection) StructuredPersona {
	if sel.InnerVoice {
		p.InnerVoice = r.InnerVoice
	}
	if sel.CoreWound {
		p.CoreWound = r.CoreWound
	}
	if sel.SecretDesire {
		p.SecretDesire = r.SecretDesire
	}
	if sel.Worldview {
		p.Worldview = r.Worldview
	}
	return p
}
// #endregion remix

// #region analysis
// Severity grades a logical conflict.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// LogicConflict is one inconsistency found by the check step.
type LogicConflict struct {
	Type       string   `json:"type"`
	Detail     string   `json:"detail"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// BiasAnalysis is the bias-detection part of the report.
type BiasAnalysis struct {
	BiasDetected     bool   `json:"bias_detected"`
	BiasType         string `json:"bias_type,omitempty"`
	Evidence         string `json:"evidence,omitempty"`
	GentleSuggestion string `json:"gentle_suggestion,omitempty"`
}

// DepthElement is a missing dimension phrased as a question for the author.
type DepthElement struct {
	Element      string `json:"element"`
	Question     string `json:"question"`
	WhyImportant string `json:"why_important"`
}

// DepthAnalysis scores how three-dimensional the persona is.
type DepthAnalysis struct {
	CompletenessScore float64        `json:"completeness_score"`
	MissingElements   []DepthElement `json:"missing_elements"`
	Strengths         []string       `json:"strengths"`
}

// FullAnalysisReport is the three-part critique attached by the check step.
type FullAnalysisReport struct {
	LogicalConflicts []LogicConflict `json:"logical_conflicts"`
	BiasAnalysis     BiasAnalysis    `json:"bias_analysis"`
	DepthAssessment  DepthAnalysis   `json:"depth_assessment"`
}

// EmptyReport is the fallback used when the model returns unusable JSON.
func EmptyReport() FullAnalysisReport {
	return FullAnalysisReport{
		LogicalConflicts: []LogicConflict{},
		DepthAssessment: DepthAnalysis{
			MissingElements: []DepthElement{},
			Strengths:       []string{},
		},
	}
}
// #endregion analysis

// #region state
// State is one immutable snapshot of the authoring session.
type State struct {
	Step              Step                `json:"step"`
	VibeFragment      string              `json:"vibeFragment,omitempty"`
	VibeMessages      []ChatMessage       `json:"vibeMessages"`
	IsModifying       bool                `json:"isModifying,omitempty"`
	StructuredPersona *StructuredPersona  `json:"structuredPersona,omitempty"`
	CurrentDraft      string              `json:"currentDraft"`
	AnalysisReport    *FullAnalysisReport `json:"analysisReport,omitempty"`
	SimulationHistory []SimulationTurn    `json:"simulationHistory"`
	SimulationType    SimulationType      `json:"simulationType"`
	RemixData         *RemixData          `json:"remixData,omitempty"`
}

// Empty returns the snapshot a fresh session starts from.
func Empty() State {
	return State{
		Step:              StepVibeEntry,
		VibeMessages:      []ChatMessage{},
		CurrentDraft:      "",
		SimulationHistory: []SimulationTurn{},
		SimulationType:    SimulationChat,
	}
}
// #endregion state
