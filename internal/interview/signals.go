package interview

import "github.com/0xteamMuffin/Hireability/internal/models"

// expression keys contributing to the confidence computation
const (
	exprHappy   = "happy"
	exprNeutral = "neutral"
	exprSad     = "sad"
	exprAngry   = "angry"
	exprFearful = "fearful"
)

// UpdateCandidateSignals shallow-merges a partial telemetry update into the
// stored signals; absent fields retain their prior values and are never
// cleared. Confidence is recomputed after every merge. Returns false when
// the interview id is unknown.
func (s *Store) UpdateCandidateSignals(interviewID string, update SignalUpdate) bool {
	return s.withState(interviewID, func(state *InterviewState) {
		signals := &state.Signals
		if update.IsTyping != nil {
			signals.IsTyping = *update.IsTyping
		}
		if update.CodeLength != nil {
			signals.CodeLength = *update.CodeLength
		}
		if update.Expressions != nil {
			if signals.Expressions == nil {
				signals.Expressions = make(map[string]float64, len(update.Expressions))
			}
			for key, value := range update.Expressions {
				signals.Expressions[key] = value
			}
		}
		longPause := update.LongPause != nil && *update.LongPause
		if update.LongPause != nil {
			signals.LongPause = *update.LongPause
		}

		state.Performance.Confidence = computeConfidence(signals.Expressions)
		if longPause {
			// a detected long pause overrides the expression-based tier
			state.Performance.Confidence = models.ConfidenceLow
		}
		s.touch(state)
	})
}

func computeConfidence(expressions map[string]float64) models.ConfidenceTier {
	positive := expressions[exprHappy] + expressions[exprNeutral]
	negative := expressions[exprFearful] + expressions[exprSad] + expressions[exprAngry]
	switch {
	case positive > 0.6 && negative < 0.2:
		return models.ConfidenceHigh
	case negative > 0.4:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}
