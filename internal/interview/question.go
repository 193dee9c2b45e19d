package interview

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// QuestionInput describes a freshly asked question.
type QuestionInput struct {
	ID         string
	Text       string
	Category   models.TopicCategory
	Difficulty models.Difficulty
	IsFollowUp bool
	ParentID   string
}

// AnswerInput carries a scored answer for a previously asked question.
type AnswerInput struct {
	QuestionID      string
	Answer          string
	Score           float64
	Feedback        string
	SuggestFollowUp bool
}

// RecordQuestion appends a question to the log, advances the current
// question pointer and folds the category into coverage. Returns nil when
// no state exists for the id.
func (s *Store) RecordQuestion(interviewID string, input QuestionInput) *QuestionState {
	var recorded *QuestionState
	s.withState(interviewID, func(state *InterviewState) {
		id := input.ID
		if id == "" {
			id = uuid.New().String()
		}
		question := QuestionState{
			ID:         id,
			Text:       input.Text,
			Category:   input.Category,
			Difficulty: input.Difficulty,
			IsFollowUp: input.IsFollowUp,
			ParentID:   input.ParentID,
			AskedAt:    s.now(),
		}
		state.Questions = append(state.Questions, question)
		state.CurrentQuestionIndex = len(state.Questions) - 1
		state.Performance.TotalQuestions++

		stats, known := state.Topics[input.Category]
		if known {
			prior := stats.QuestionsAsked
			stats.QuestionsAsked++
			stats.Covered = true
			if input.IsFollowUp && prior >= 2 {
				stats.Depth = models.DepthDeep
			} else if stats.QuestionsAsked >= 2 && stats.Depth == models.DepthShallow {
				stats.Depth = models.DepthModerate
			}
		}

		// introduction ends once the candidate has answered something
		if state.Phase == PhaseIntroduction && state.Performance.AnsweredCount >= 1 {
			state.Phase = PhaseMainQuestions
		}

		s.touch(state)
		copied := state.Questions[state.CurrentQuestionIndex]
		recorded = &copied
	})
	return recorded
}

// RecordAnswer stamps the answer onto its question and recomputes every
// aggregate from the full log. Returns nil when the interview or the
// question id is unknown; callers treat that as a silent no-op.
func (s *Store) RecordAnswer(interviewID string, input AnswerInput) *QuestionState {
	var recorded *QuestionState
	s.withState(interviewID, func(state *InterviewState) {
		idx := -1
		for i := range state.Questions {
			if state.Questions[i].ID == input.QuestionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.logger.Debug("answer for unknown question ignored",
				zap.String("interview_id", interviewID),
				zap.String("question_id", input.QuestionID))
			return
		}

		now := s.now()
		question := &state.Questions[idx]
		score := input.Score
		question.Answer = input.Answer
		question.AnsweredAt = &now
		question.Score = &score
		question.Feedback = input.Feedback
		question.SuggestFollowUp = input.SuggestFollowUp
		question.AnswerSeconds = now.Sub(question.AskedAt).Seconds()

		perf := &state.Performance
		perf.AnsweredCount++

		// capped rolling window, FIFO eviction
		perf.RecentScores = append(perf.RecentScores, score)
		if len(perf.RecentScores) > 5 {
			perf.RecentScores = perf.RecentScores[1:]
		}

		scores := scoredHistory(state)
		perf.AverageScore = mean(scores)
		updateTrend(perf, scores)
		recomputeTopicAverage(state, question.Category)
		recomputeStrongWeak(state)
		perf.SuggestedDifficulty = suggestDifficulty(perf.AverageScore, perf.Trend)
		s.checkWrapUp(state)

		s.touch(state)
		copied := *question
		recorded = &copied
	})
	return recorded
}

// scoredHistory collects every recorded score in ask order.
func scoredHistory(state *InterviewState) []float64 {
	scores := make([]float64, 0, len(state.Questions))
	for i := range state.Questions {
		if state.Questions[i].Score != nil {
			scores = append(scores, *state.Questions[i].Score)
		}
	}
	return scores
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// updateTrend compares the mean of the last three scores against the mean
// of everything recorded before them. Needs at least three scored answers
// and at least one earlier score to compare against; otherwise the trend
// keeps its prior value.
func updateTrend(perf *Performance, scores []float64) {
	if len(scores) < 3 {
		return
	}
	recent := mean(scores[len(scores)-3:])
	older := scores[:len(scores)-3]
	if len(older) == 0 {
		return
	}
	prior := mean(older)
	switch {
	case recent > prior+1:
		perf.Trend = models.TrendImproving
	case recent < prior-1:
		perf.Trend = models.TrendDeclining
	default:
		perf.Trend = models.TrendStable
	}
}

// recomputeTopicAverage recomputes one category's average from only that
// category's scored questions. Linear scan of the log; fine at the tens of
// questions an interview produces.
func recomputeTopicAverage(state *InterviewState, category models.TopicCategory) {
	stats, known := state.Topics[category]
	if !known {
		return
	}
	scores := make([]float64, 0, 8)
	for i := range state.Questions {
		q := &state.Questions[i]
		if q.Category == category && q.Score != nil {
			scores = append(scores, *q.Score)
		}
	}
	stats.AverageScore = mean(scores)
}

// recomputeStrongWeak compares each scored topic's average against the
// mean of all scored-topic averages; more than one point above is strong,
// more than one point below is weak.
func recomputeStrongWeak(state *InterviewState) {
	type scoredTopic struct {
		category models.TopicCategory
		average  float64
	}
	scored := make([]scoredTopic, 0, len(state.Topics))
	for _, category := range models.AllTopicCategories() {
		stats := state.Topics[category]
		if stats == nil {
			continue
		}
		if hasScoredQuestion(state, category) {
			scored = append(scored, scoredTopic{category, stats.AverageScore})
		}
	}

	strong := make([]models.TopicCategory, 0, len(scored))
	weak := make([]models.TopicCategory, 0, len(scored))
	if len(scored) > 0 {
		sum := 0.0
		for _, t := range scored {
			sum += t.average
		}
		overall := sum / float64(len(scored))
		for _, t := range scored {
			if t.average > overall+1 {
				strong = append(strong, t.category)
			} else if t.average < overall-1 {
				weak = append(weak, t.category)
			}
		}
	}
	state.Performance.StrongTopics = strong
	state.Performance.WeakTopics = weak
}

func hasScoredQuestion(state *InterviewState, category models.TopicCategory) bool {
	for i := range state.Questions {
		q := &state.Questions[i]
		if q.Category == category && q.Score != nil {
			return true
		}
	}
	return false
}

// suggestDifficulty is the adaptation rule table; evaluated in order,
// first match wins.
func suggestDifficulty(average float64, trend models.Trend) models.Difficulty {
	switch {
	case average >= 8 && trend != models.TrendDeclining:
		return models.DifficultyHard
	case average >= 6 || trend == models.TrendImproving:
		return models.DifficultyMedium
	case average < 5 && trend == models.TrendDeclining:
		return models.DifficultyEasy
	default:
		return models.DifficultyMedium
	}
}

// checkWrapUp flips shouldWrapUp when time is nearly up or the round has
// enough well-answered questions. Sticky: never reset within an interview.
func (s *Store) checkWrapUp(state *InterviewState) {
	elapsedMinutes := s.now().Sub(state.StartedAt).Minutes()
	timeExhausted := elapsedMinutes >= 0.9*float64(state.DurationMinutes)

	minQuestions := models.MinQuestionsForRound(state.RoundType)
	enoughCoverage := len(state.Questions) >= minQuestions &&
		state.Performance.AverageScore >= 5

	if timeExhausted || enoughCoverage {
		state.ShouldWrapUp = true
		state.CanProceedToNext = true
	}
}
