package interview

// Phase is the interview lifecycle state.
type Phase string

const (
	PhaseNotStarted    Phase = "not-started"
	PhaseIntroduction  Phase = "introduction"
	PhaseMainQuestions Phase = "main-questions"
	PhaseDeepDive      Phase = "deep-dive"
	PhaseCodingSetup   Phase = "coding-setup"
	PhaseCodingActive  Phase = "coding-active"
	PhaseCodingReview  Phase = "coding-review"
	PhaseWrapUp        Phase = "wrap-up"
	PhaseCompleted     Phase = "completed"
)

// allPhases in lifecycle order.
var allPhases = []Phase{
	PhaseNotStarted,
	PhaseIntroduction,
	PhaseMainQuestions,
	PhaseDeepDive,
	PhaseCodingSetup,
	PhaseCodingActive,
	PhaseCodingReview,
	PhaseWrapUp,
	PhaseCompleted,
}

// transitions is the explicit transition table. Every phase may move to
// every other phase: callers (voice tool handlers, websocket events) arrive
// out of order and the machine must not reject them. Kept as a table so
// tightening later is a one-place change.
var transitions = func() map[Phase]map[Phase]bool {
	table := make(map[Phase]map[Phase]bool, len(allPhases))
	for _, from := range allPhases {
		table[from] = make(map[Phase]bool, len(allPhases))
		for _, to := range allPhases {
			table[from][to] = true
		}
	}
	return table
}()

// ValidPhase reports whether p is a known phase value.
func ValidPhase(p Phase) bool {
	_, ok := transitions[p]
	return ok
}

// canTransition consults the table. Always true today for known phases.
func canTransition(from, to Phase) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
