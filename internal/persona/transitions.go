package persona

// transitions is the pipeline graph as the UI drives it. The history stack
// does not enforce it; callers use CanTransition to flag unexpected moves.
var transitions = map[Step][]Step{
	StepVibeEntry:      {StepCrystallize},
	StepCrystallize:    {StepVibeEntry, StepRefineDirector, StepCheck},
	StepRefineDirector: {StepCheck},
	StepCheck:          {StepSimulation, StepRefineDirector},
	StepSimulation:     {StepFinal, StepCheck},
	StepFinal:          {StepSimulation},
}

// CanTransition reports whether moving from one step to another follows the
// pipeline graph. Staying on the same step is always allowed.
func CanTransition(from, to Step) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
