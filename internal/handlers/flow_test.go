package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/execution"
	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/llm"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/prompts"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/testhelpers"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// scriptedProvider returns a canned reply or error for every call.
type scriptedProvider struct {
	reply func(prompt string) (string, error)
	calls int
}

func (p *scriptedProvider) GenerateText(ctx context.Context, prompt, requestID string) (*llm.GenerationResult, error) {
	p.calls++
	content, err := p.reply(prompt)
	if err != nil {
		return nil, err
	}
	return &llm.GenerationResult{Content: content, Metadata: llm.GenerationMetadata{Provider: "scripted"}}, nil
}

func (p *scriptedProvider) GetProviderName() string { return "scripted" }

// stubRunner returns a fixed execution result without a sandbox.
type stubRunner struct {
	result *models.ExecutionResult
	cases  []execution.TestCase
}

func (r *stubRunner) RunTests(ctx context.Context, language, code string, cases []execution.TestCase) *models.ExecutionResult {
	r.cases = cases
	return r.result
}

func newTestFlow(t *testing.T, provider llm.Provider) (*InterviewFlow, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)

	flow := &InterviewFlow{
		Store:         interview.NewStore(nil, nil),
		Hub:           ws.NewHub(),
		Provider:      provider,
		PromptManager: pm,
		Runner:        &stubRunner{result: &models.ExecutionResult{Passed: 1, Total: 1, AllPassed: true}},
		Rounds:        &repositories.RoundRepository{DB: db},
		Profiles:      &repositories.ProfileRepository{DB: db},
		Docs:          &repositories.DocumentRepository{DB: db},
		Problems:      &repositories.ProblemRepository{DB: db},
		Reports:       &repositories.ReportRepository{DB: db},
		Logger:        zap.NewNop(),
	}
	return flow, db
}

func seedRound(t *testing.T, db *gorm.DB, interviewID string, userID uint, roundType string) {
	t.Helper()
	require.NoError(t, db.Create(&models.InterviewRound{
		InterviewID: interviewID,
		UserID:      userID,
		RoundType:   roundType,
		RoundOrder:  1,
	}).Error)
}

func TestStartInterviewSeedsStateFromProfileAndResume(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) { return "", errors.New("unused") }}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.Profiles.Upsert(&models.Profile{UserID: 1, TargetRole: "backend engineer", ExperienceLevel: "senior"})
	require.NoError(t, err)
	require.NoError(t, flow.Docs.Create(&models.Document{UserID: 1, Kind: "resume", Condensed: "8 years of Go"}))

	snapshot, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, "iv-1", snapshot.InterviewID)
	assert.Equal(t, models.RoundTechnical, snapshot.RoundType)

	state := flow.Store.GetState("iv-1")
	assert.Equal(t, "backend engineer", state.TargetRole)
	assert.Equal(t, "8 years of Go", state.ResumeContext)

	round, err := flow.Rounds.GetByInterviewID("iv-1")
	require.NoError(t, err)
	assert.Equal(t, "active", round.Status)
}

func TestStartInterviewEnforcesOwnership(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) { return "", nil }}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")

	_, err := flow.StartInterview(context.Background(), 2, "iv-1")
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = flow.StartInterview(context.Background(), 1, "never-created")
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestNextQuestionUsesLLMReply(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return `{"question": "Why do goroutines leak?", "category": "technical_concept", "isFollowUp": false}`, nil
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)

	question := flow.NextQuestion(context.Background(), "iv-1", "technical_concept", "req-1")
	require.NotNil(t, question)
	assert.Equal(t, "Why do goroutines leak?", question.Question)
	assert.Equal(t, "technical_concept", question.Category)
	assert.Equal(t, "req-1", question.RequestID)

	state := flow.Store.GetState("iv-1")
	require.Len(t, state.Questions, 1)
	assert.True(t, state.Topics[models.TopicTechnicalConcept].Covered)
}

func TestNextQuestionFallsBackWhenLLMIsDown(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return "", errors.New("503 service unavailable")
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "behavioral")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)

	question := flow.NextQuestion(context.Background(), "iv-1", "", "")
	require.NotNil(t, question)
	// round starts at the introduction topic with its canned question
	assert.Equal(t, fallbackQuestions[models.TopicIntroduction], question.Question)
	assert.Len(t, flow.Store.GetState("iv-1").Questions, 1)
}

func TestNextQuestionAcceptsFreeformReply(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return "Tell me about a production incident you handled.", nil
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "behavioral")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)

	question := flow.NextQuestion(context.Background(), "iv-1", "behavioral", "")
	require.NotNil(t, question)
	assert.Equal(t, "Tell me about a production incident you handled.", question.Question)
}

func TestNextQuestionUnknownInterview(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) { return "", nil }}
	flow, _ := newTestFlow(t, provider)
	assert.Nil(t, flow.NextQuestion(context.Background(), "ghost", "", ""))
}

func TestEvaluateRecordsLLMScore(t *testing.T) {
	provider := &scriptedProvider{reply: func(prompt string) (string, error) {
		return `{"score": 8.5, "feedback": "thorough answer", "suggestFollowUp": true}`, nil
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)
	recorded := flow.Store.RecordQuestion("iv-1", interview.QuestionInput{
		ID: "q-1", Text: "what is a mutex", Category: models.TopicTechnicalConcept,
	})
	require.NotNil(t, recorded)

	evaluation := flow.Evaluate(context.Background(), "iv-1", "q-1", "a mutex serializes access to shared state", "")
	require.NotNil(t, evaluation)
	assert.Equal(t, 8.5, evaluation.Score)
	assert.Equal(t, "thorough answer", evaluation.Feedback)
	assert.True(t, evaluation.SuggestFollowUp)

	state := flow.Store.GetState("iv-1")
	assert.Equal(t, 8.5, state.Performance.AverageScore)
}

func TestEvaluateFallsBackToHeuristic(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return "", errors.New("deadline exceeded")
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)
	flow.Store.RecordQuestion("iv-1", interview.QuestionInput{ID: "q-1", Text: "q", Category: models.TopicTechnicalConcept})

	// short answers score 3 under the heuristic
	evaluation := flow.Evaluate(context.Background(), "iv-1", "q-1", "no idea", "")
	require.NotNil(t, evaluation)
	assert.Equal(t, 3.0, evaluation.Score)
}

func TestEvaluateUnknownQuestionLeavesStateUntouched(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) { return `{"score": 9}`, nil }}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)

	assert.Nil(t, flow.Evaluate(context.Background(), "iv-1", "never-asked", "answer", ""))
	assert.Zero(t, flow.Store.GetState("iv-1").Performance.AnsweredCount)
}

func TestHeuristicScoreBands(t *testing.T) {
	long := ""
	for i := 0; i < 130; i++ {
		long += "word "
	}
	medium := ""
	for i := 0; i < 60; i++ {
		medium += "word "
	}
	assert.Equal(t, 3.0, heuristicScore("too short"))
	assert.Equal(t, 5.0, heuristicScore("this answer has somewhere between ten and forty words, which lands it in the second band of the heuristic"))
	assert.Equal(t, 6.5, heuristicScore(medium))
	assert.Equal(t, 7.5, heuristicScore(long))
}

func TestCompleteWritesTranscriptAnalysisAndRound(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return `{"summary": "strong round", "strengths": "concurrency", "weaknesses": "system design"}`, nil
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "technical")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)
	flow.Store.RecordQuestion("iv-1", interview.QuestionInput{ID: "q-1", Text: "q", Category: models.TopicTechnicalConcept})
	flow.Store.RecordAnswer("iv-1", interview.AnswerInput{QuestionID: "q-1", Answer: "a", Score: 7})

	snapshot := flow.Complete(context.Background(), "iv-1")
	require.NotNil(t, snapshot)
	assert.Equal(t, interview.PhaseCompleted, snapshot.Phase)

	analysis, err := flow.Reports.GetAnalysis(1, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, "strong round", analysis.Summary)
	assert.Equal(t, 7.0, analysis.AverageScore)

	round, err := flow.Rounds.GetByInterviewID("iv-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", round.Status)
	assert.Equal(t, 7.0, round.FinalScore)

	var transcripts []models.Transcript
	require.NoError(t, db.Find(&transcripts, "interview_id = ?", "iv-1").Error)
	require.Len(t, transcripts, 1)
	assert.Contains(t, transcripts[0].Content, "q-1")
}

func TestCompleteFallsBackToDeterministicAnalysis(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) {
		return "", errors.New("model offline")
	}}
	flow, db := newTestFlow(t, provider)
	seedRound(t, db, "iv-1", 1, "behavioral")
	_, err := flow.StartInterview(context.Background(), 1, "iv-1")
	require.NoError(t, err)
	flow.Store.RecordQuestion("iv-1", interview.QuestionInput{ID: "q-1", Text: "q", Category: models.TopicBehavioral})
	flow.Store.RecordAnswer("iv-1", interview.AnswerInput{QuestionID: "q-1", Answer: "a", Score: 6})

	require.NotNil(t, flow.Complete(context.Background(), "iv-1"))

	analysis, err := flow.Reports.GetAnalysis(1, "iv-1")
	require.NoError(t, err)
	assert.Contains(t, analysis.Summary, "behavioral")
	assert.Contains(t, analysis.Summary, "6.0")
}

func TestCompleteUnknownInterview(t *testing.T) {
	provider := &scriptedProvider{reply: func(string) (string, error) { return "", nil }}
	flow, _ := newTestFlow(t, provider)
	assert.Nil(t, flow.Complete(context.Background(), "ghost"))
}
