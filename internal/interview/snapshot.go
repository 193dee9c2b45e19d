package interview

import (
	"math"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// CodingProgress is the coding summary carried in a snapshot.
type CodingProgress struct {
	ProblemTitle string `json:"problemTitle"`
	TestsPassed  int    `json:"testsPassed"`
	TestsTotal   int    `json:"testsTotal"`
	HintsUsed    int    `json:"hintsUsed"`
}

// Snapshot is the reduced external view sent to websocket clients and
// voice-platform tool responses.
type Snapshot struct {
	InterviewID         string                 `json:"interviewId"`
	Phase               Phase                  `json:"phase"`
	RoundType           models.RoundType       `json:"roundType"`
	QuestionCount       int                    `json:"questionCount"`
	AverageScore        float64                `json:"averageScore"` // rounded to 1 decimal
	TopicsCovered       []models.TopicCategory `json:"topicsCovered"`
	TopicsRemaining     []models.TopicCategory `json:"topicsRemaining"`
	SuggestedDifficulty models.Difficulty      `json:"suggestedDifficulty"`
	ElapsedMinutes      int                    `json:"elapsedMinutes"`
	ShouldWrapUp        bool                   `json:"shouldWrapUp"`
	Confidence          models.ConfidenceTier  `json:"confidence"`
	CodingProgress      *CodingProgress        `json:"codingProgress,omitempty"`
}

// GetStateSnapshot derives the external view for an interview. Pure
// projection: never mutates state. Returns nil for unknown ids.
func (s *Store) GetStateSnapshot(interviewID string) *Snapshot {
	var snapshot *Snapshot
	ok := s.withState(interviewID, func(state *InterviewState) {
		covered := make([]models.TopicCategory, 0, len(state.Topics))
		remaining := make([]models.TopicCategory, 0, len(state.Topics))
		for _, category := range models.AllTopicCategories() {
			if stats := state.Topics[category]; stats != nil && stats.Covered {
				covered = append(covered, category)
			} else {
				remaining = append(remaining, category)
			}
		}

		snapshot = &Snapshot{
			InterviewID:         state.InterviewID,
			Phase:               state.Phase,
			RoundType:           state.RoundType,
			QuestionCount:       len(state.Questions),
			AverageScore:        math.Round(state.Performance.AverageScore*10) / 10,
			TopicsCovered:       covered,
			TopicsRemaining:     remaining,
			SuggestedDifficulty: state.Performance.SuggestedDifficulty,
			ElapsedMinutes:      int(math.Round(s.now().Sub(state.StartedAt).Minutes())),
			ShouldWrapUp:        state.ShouldWrapUp,
			Confidence:          state.Performance.Confidence,
		}
		if state.Coding != nil {
			snapshot.CodingProgress = &CodingProgress{
				ProblemTitle: state.Coding.Problem.Title,
				TestsPassed:  state.Coding.TestsPassed,
				TestsTotal:   state.Coding.TestsTotal,
				HintsUsed:    state.Coding.HintsUsed,
			}
		}
	})
	if !ok {
		return nil
	}
	return snapshot
}

// GetState returns a deep-enough copy of the full state for internal
// consumers (question generation needs history and context). Nil for
// unknown ids.
func (s *Store) GetState(interviewID string) *InterviewState {
	var copied *InterviewState
	s.withState(interviewID, func(state *InterviewState) {
		clone := *state
		clone.Questions = make([]QuestionState, len(state.Questions))
		copy(clone.Questions, state.Questions)
		clone.Topics = make(map[models.TopicCategory]*TopicStats, len(state.Topics))
		for category, stats := range state.Topics {
			statsCopy := *stats
			clone.Topics[category] = &statsCopy
		}
		clone.Performance.RecentScores = make([]float64, len(state.Performance.RecentScores))
		copy(clone.Performance.RecentScores, state.Performance.RecentScores)
		clone.Performance.StrongTopics = make([]models.TopicCategory, len(state.Performance.StrongTopics))
		copy(clone.Performance.StrongTopics, state.Performance.StrongTopics)
		clone.Performance.WeakTopics = make([]models.TopicCategory, len(state.Performance.WeakTopics))
		copy(clone.Performance.WeakTopics, state.Performance.WeakTopics)
		if state.Signals.Expressions != nil {
			clone.Signals.Expressions = make(map[string]float64, len(state.Signals.Expressions))
			for expression, value := range state.Signals.Expressions {
				clone.Signals.Expressions[expression] = value
			}
		}
		clone.Coding = state.Coding.clone()
		copied = &clone
	})
	return copied
}
