package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/execution"
	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// AssignProblem picks a coding problem at the suggested difficulty,
// initializes the coding sub-state and notifies the room. Nil when the
// interview is unknown or no problem is available.
func (f *InterviewFlow) AssignProblem(ctx context.Context, interviewID, language string) *interview.CodingState {
	state := f.Store.GetState(interviewID)
	if state == nil {
		return nil
	}

	problem, err := f.Problems.PickForDifficulty(string(state.Performance.SuggestedDifficulty))
	if err != nil {
		f.Logger.Error("no coding problem available", zap.Error(err))
		return nil
	}
	cases, err := repositories.DecodeTestCases(problem)
	if err != nil {
		f.Logger.Warn("stored test cases unreadable", zap.Uint("problem_id", problem.ID), zap.Error(err))
	}

	if language == "" {
		language = "python"
	}
	coding := f.Store.InitializeCodingState(interviewID, interview.ProblemInfo{
		ID:          fmt.Sprintf("%d", problem.ID),
		Title:       problem.Title,
		Description: problem.Description,
		Difficulty:  problem.Difficulty,
		StarterCode: problem.StarterCode,
		TestCount:   len(cases),
	}, language)
	if coding == nil {
		return nil
	}

	f.Hub.Publish(interviewID, ws.EventCodingProblem, map[string]interface{}{
		"problemId":   coding.Problem.ID,
		"title":       coding.Problem.Title,
		"description": coding.Problem.Description,
		"difficulty":  coding.Problem.Difficulty,
		"starterCode": coding.Problem.StarterCode,
		"language":    coding.Language,
	})
	f.Hub.Publish(interviewID, ws.EventStateUpdate, f.Store.GetStateSnapshot(interviewID))
	return coding
}

// RunCode executes a submission against the assigned problem's test cases
// and records it. The sandbox is the only suspension point; state stays
// untouched until the result is back. Nil when the interview or its
// coding sub-state is unknown.
func (f *InterviewFlow) RunCode(ctx context.Context, interviewID, language, code string) *models.ExecutionResult {
	state := f.Store.GetState(interviewID)
	if state == nil || state.Coding == nil {
		return nil
	}

	testCases := f.loadTestCases(state.Coding.Problem.ID)

	f.Store.SetPhase(interviewID, interview.PhaseCodingActive)
	result := f.Runner.RunTests(ctx, language, code, testCases)

	f.Store.RecordCodeSubmission(interviewID, code, language, result)

	f.Hub.Publish(interviewID, ws.EventCodeExecuted, result)
	f.Hub.Publish(interviewID, ws.EventStateUpdate, f.Store.GetStateSnapshot(interviewID))
	return result
}

func (f *InterviewFlow) loadTestCases(problemID string) []execution.TestCase {
	var id uint
	if _, err := fmt.Sscanf(problemID, "%d", &id); err != nil {
		return nil
	}
	problem, err := f.Problems.GetByID(id)
	if err != nil {
		f.Logger.Warn("problem lookup for execution failed", zap.String("problem_id", problemID), zap.Error(err))
		return nil
	}
	cases, err := repositories.DecodeTestCases(problem)
	if err != nil {
		f.Logger.Warn("stored test cases unreadable", zap.Uint("problem_id", id), zap.Error(err))
		return nil
	}
	return cases
}

// Hint asks the LLM for a nudge on the current problem and increments the
// hint counter. Falls back to a generic nudge. Nil when no coding round
// is active.
func (f *InterviewFlow) Hint(ctx context.Context, interviewID string) map[string]interface{} {
	state := f.Store.GetState(interviewID)
	if state == nil || state.Coding == nil {
		return nil
	}

	hint := "Break the problem into smaller steps and test each one against the simplest input first."
	prompt, err := f.PromptManager.BuildPrompt("hint", map[string]string{
		"Description": state.Coding.Problem.Description,
		"Code":        state.Coding.CurrentCode,
	})
	if err != nil {
		f.Logger.Warn("hint prompt unavailable, using generic hint", zap.Error(err))
	} else if result, genErr := f.Provider.GenerateText(ctx, prompt, ""); genErr == nil {
		if text := strings.TrimSpace(result.Content); text != "" {
			hint = text
		}
	} else {
		f.Logger.Warn("hint generation failed, using generic hint", zap.Error(genErr))
	}

	coding := f.Store.UpdateCodingState(interviewID, interview.CodingUpdate{HintUsed: true})
	if coding == nil {
		return nil
	}

	payload := map[string]interface{}{
		"hint":      hint,
		"hintsUsed": coding.HintsUsed,
	}
	f.Hub.Publish(interviewID, ws.EventHintProvided, payload)
	return payload
}
