package persona

// Update overwrites selected fields of a snapshot copy. Fields an update does
// not touch carry over from the snapshot it is applied to.
type Update func(*State)

// Apply returns a deep copy of s with the updates applied in order.
func (s State) Apply(updates ...Update) State {
	next := s.Clone()
	for _, u := range updates {
		if u != nil {
			u(&next)
		}
	}
	return next
}

// Clone returns a deep copy so callers cannot reach a stored snapshot.
func (s State) Clone() State {
	c := s
	c.VibeMessages = cloneMessages(s.VibeMessages)
	c.SimulationHistory = cloneTurns(s.SimulationHistory)
	if s.StructuredPersona != nil {
		p := *s.StructuredPersona
		c.StructuredPersona = &p
	}
	if s.AnalysisReport != nil {
		r := cloneReport(*s.AnalysisReport)
		c.AnalysisReport = &r
	}
	if s.RemixData != nil {
		r := *s.RemixData
		c.RemixData = &r
	}
	return c
}

// HasProgress reports whether the snapshot carries user content worth keeping.
// A draft or a step past vibe-entry counts even without a transcript, as
// director mode starts from a bare draft.
func (s State) HasProgress() bool {
	return len(s.VibeMessages) > 0 || s.CurrentDraft != "" ||
		(s.Step != "" && s.Step != StepVibeEntry)
}

func WithStep(step Step) Update {
	return func(s *State) { s.Step = step }
}

func WithVibeFragment(fragment string) Update {
	return func(s *State) { s.VibeFragment = fragment }
}

func WithVibeMessages(msgs []ChatMessage) Update {
	msgs = cloneMessages(msgs)
	return func(s *State) { s.VibeMessages = msgs }
}

func WithModifying(modifying bool) Update {
	return func(s *State) { s.IsModifying = modifying }
}

// WithStructuredPersona sets the character sheet; nil clears it.
func WithStructuredPersona(p *StructuredPersona) Update {
	var cp *StructuredPersona
	if p != nil {
		v := *p
		cp = &v
	}
	return func(s *State) { s.StructuredPersona = cp }
}

func WithDraft(draft string) Update {
	return func(s *State) { s.CurrentDraft = draft }
}

// WithAnalysisReport sets the check report; nil clears it.
func WithAnalysisReport(r *FullAnalysisReport) Update {
	var cp *FullAnalysisReport
	if r != nil {
		v := cloneReport(*r)
		cp = &v
	}
	return func(s *State) { s.AnalysisReport = cp }
}

func WithSimulationHistory(turns []SimulationTurn) Update {
	turns = cloneTurns(turns)
	return func(s *State) { s.SimulationHistory = turns }
}

func WithSimulationType(t SimulationType) Update {
	return func(s *State) { s.SimulationType = t }
}

// WithRemixData stores the last remix proposal; nil clears it.
func WithRemixData(r *RemixData) Update {
	var cp *RemixData
	if r != nil {
		v := *r
		cp = &v
	}
	return func(s *State) { s.RemixData = cp }
}

// #region clone-helpers
func cloneMessages(in []ChatMessage) []ChatMessage {
	if in == nil {
		return []ChatMessage{}
	}
	out := make([]ChatMessage, len(in))
	for i, m := range in {
		out[i] = m
		if m.GroundingChunks != nil {
			out[i].GroundingChunks = append([]GroundingChunk(nil), m.GroundingChunks...)
		}
	}
	return out
}

func cloneTurns(in []SimulationTurn) []SimulationTurn {
	if in == nil {
		return []SimulationTurn{}
	}
	return append([]SimulationTurn{}, in...)
}

func cloneReport(r FullAnalysisReport) FullAnalysisReport {
	c := r
	c.LogicalConflicts = append([]LogicConflict{}, r.LogicalConflicts...)
	c.DepthAssessment.MissingElements = append([]DepthElement{}, r.DepthAssessment.MissingElements...)
	c.DepthAssessment.Strengths = append([]string{}, r.DepthAssessment.Strengths...)
	return c
}
// #endregion clone-helpers
