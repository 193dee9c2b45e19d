package interview

import (
	"github.com/0xteamMuffin/Hireability/internal/models"
)

// CodingUpdate is a partial update to the coding sub-state; nil fields are
// untouched. HintUsed increments the hint counter rather than setting it.
type CodingUpdate struct {
	Code     *string
	Language *string
	HintUsed bool
	Result   *models.ExecutionResult
}

// clone copies the sub-state so callers can read it outside the store
// lock while the live struct keeps mutating.
func (c *CodingState) clone() *CodingState {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Submissions = make([]CodeSubmission, len(c.Submissions))
	copy(dup.Submissions, c.Submissions)
	return &dup
}

// InitializeCodingState replaces any existing coding sub-state with a
// fresh one seeded from the problem's starter code, and forces the phase
// to coding-setup regardless of where the interview was.
func (s *Store) InitializeCodingState(interviewID string, problem ProblemInfo, language string) *CodingState {
	var created *CodingState
	s.withState(interviewID, func(state *InterviewState) {
		state.Coding = &CodingState{
			Problem:     problem,
			Language:    language,
			CurrentCode: problem.StarterCode,
			StartedAt:   s.now(),
			Submissions: make([]CodeSubmission, 0, 4),
			TestsTotal:  problem.TestCount,
		}
		state.Phase = PhaseCodingSetup
		s.touch(state)
		created = state.Coding.clone()
	})
	return created
}

// UpdateCodingState applies field-level updates and recomputes elapsed
// coding time from the fixed start timestamp. No-op when the interview is
// unknown or no coding round has started.
func (s *Store) UpdateCodingState(interviewID string, update CodingUpdate) *CodingState {
	var updated *CodingState
	s.withState(interviewID, func(state *InterviewState) {
		coding := state.Coding
		if coding == nil {
			return
		}
		if update.Code != nil {
			coding.CurrentCode = *update.Code
		}
		if update.Language != nil {
			coding.Language = *update.Language
		}
		if update.HintUsed {
			coding.HintsUsed++
		}
		if update.Result != nil {
			coding.LastResult = update.Result
		}
		coding.ElapsedSeconds = s.now().Sub(coding.StartedAt).Seconds()
		s.touch(state)
		updated = coding.clone()
	})
	return updated
}

// RecordCodeSubmission appends a timestamped submission and refreshes the
// test-pass counters from the latest result. A fully passed run promotes
// the phase to coding-review.
func (s *Store) RecordCodeSubmission(interviewID string, code, language string, result *models.ExecutionResult) *CodingState {
	var updated *CodingState
	s.withState(interviewID, func(state *InterviewState) {
		coding := state.Coding
		if coding == nil {
			return
		}
		coding.Submissions = append(coding.Submissions, CodeSubmission{
			SubmittedAt: s.now(),
			Code:        code,
			Language:    language,
			Result:      result,
		})
		coding.CurrentCode = code
		coding.Language = language
		coding.LastResult = result
		if result != nil {
			coding.TestsPassed = result.Passed
			coding.TestsTotal = result.Total
			if result.AllPassed {
				state.Phase = PhaseCodingReview
			}
		}
		coding.ElapsedSeconds = s.now().Sub(coding.StartedAt).Seconds()
		s.touch(state)
		updated = coding.clone()
	})
	return updated
}
