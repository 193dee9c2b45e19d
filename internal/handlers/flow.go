package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/execution"
	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/llm"
	"github.com/0xteamMuffin/Hireability/internal/metrics"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/prompts"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// InterviewFlow orchestrates the interview state machine, the LLM and the
// realtime relay. Both the HTTP handlers and the voice tool-call handler
// drive interviews through it.
type InterviewFlow struct {
	Store         *interview.Store
	Hub           *ws.Hub
	Provider      llm.Provider
	PromptManager prompts.PromptProvider
	Runner        execution.Runner

	Rounds   *repositories.RoundRepository
	Profiles *repositories.ProfileRepository
	Docs     *repositories.DocumentRepository
	Problems *repositories.ProblemRepository
	Reports  *repositories.ReportRepository

	Logger *zap.Logger
}

var ErrRoundNotFound = repositories.ErrRoundNotFound

// defaultCategories maps each round type to its preferred category order.
var defaultCategories = map[models.RoundType][]models.TopicCategory{
	models.RoundBehavioral:   {models.TopicIntroduction, models.TopicBehavioral, models.TopicExperience, models.TopicCulturalFit, models.TopicClosing},
	models.RoundTechnical:    {models.TopicIntroduction, models.TopicTechnicalConcept, models.TopicProblemSolving, models.TopicExperience, models.TopicClosing},
	models.RoundCoding:       {models.TopicCoding, models.TopicProblemSolving},
	models.RoundSystemDesign: {models.TopicSystemDesign, models.TopicProblemSolving, models.TopicClosing},
	models.RoundHR:           {models.TopicIntroduction, models.TopicCulturalFit, models.TopicExperience, models.TopicClosing},
}

// fallbackQuestions keeps the interview moving when the LLM is down.
var fallbackQuestions = map[models.TopicCategory]string{
	models.TopicIntroduction:     "Tell me about yourself and what drew you to this role.",
	models.TopicBehavioral:       "Describe a time you disagreed with a teammate. How did you resolve it?",
	models.TopicTechnicalConcept: "Explain a technical concept you used recently and why it was the right choice.",
	models.TopicProblemSolving:   "Walk me through how you would debug a service that suddenly became slow.",
	models.TopicSystemDesign:     "How would you design a URL shortener that serves millions of requests a day?",
	models.TopicCoding:           "Describe the approach you would take before writing any code for a new problem.",
	models.TopicExperience:       "Which project are you most proud of, and what was your contribution?",
	models.TopicCulturalFit:      "What kind of team environment helps you do your best work?",
	models.TopicClosing:          "Do you have any questions about the role or the team?",
}

// StartInterview loads the durable round, seeds in-memory state and
// notifies the room. The state layer overwrites any existing entry for
// the same interview id.
func (f *InterviewFlow) StartInterview(ctx context.Context, userID uint, interviewID string) (*interview.Snapshot, error) {
	round, err := f.Rounds.GetByInterviewID(interviewID)
	if err != nil {
		return nil, err
	}
	if round.UserID != userID {
		return nil, ErrRoundNotFound
	}

	opts := interview.InitOptions{
		UserID:          userID,
		RoundType:       models.RoundType(round.RoundType),
		RoundOrder:      round.RoundOrder,
		DurationMinutes: round.DurationMinutes,
	}
	if round.InterviewSessionID != 0 {
		opts.SessionID = fmt.Sprintf("%d", round.InterviewSessionID)
	}
	if profile, err := f.Profiles.GetByUserID(userID); err == nil {
		opts.TargetRole = profile.TargetRole
		opts.TargetCompany = profile.TargetCompany
		opts.ExperienceLevel = profile.ExperienceLevel
	}
	if resume, err := f.Docs.LatestResume(userID); err == nil {
		opts.ResumeContext = resume
	}

	f.Store.Initialize(interviewID, opts)
	metrics.ActiveInterviews.Set(float64(f.Store.ActiveCount()))

	if err := f.Rounds.MarkActive(interviewID); err != nil {
		f.Logger.Warn("failed to mark round active", zap.String("interview_id", interviewID), zap.Error(err))
	}

	snapshot := f.Store.GetStateSnapshot(interviewID)
	f.Hub.Publish(interviewID, ws.EventStateUpdate, snapshot)
	return snapshot, nil
}

// RecoverInterview rebuilds state from the durable record's persisted
// aggregates after a restart.
func (f *InterviewFlow) RecoverInterview(ctx context.Context, userID uint, interviewID string) (*interview.Snapshot, error) {
	round, err := f.Rounds.GetByInterviewID(interviewID)
	if err != nil {
		return nil, err
	}
	if round.UserID != userID {
		return nil, ErrRoundNotFound
	}

	opts := interview.InitOptions{
		UserID:          userID,
		RoundType:       models.RoundType(round.RoundType),
		RoundOrder:      round.RoundOrder,
		DurationMinutes: round.DurationMinutes,
	}
	f.Store.Recover(interviewID, opts, []byte(round.StateSnapshot))
	metrics.ActiveInterviews.Set(float64(f.Store.ActiveCount()))

	snapshot := f.Store.GetStateSnapshot(interviewID)
	f.Hub.Publish(interviewID, ws.EventStateUpdate, snapshot)
	return snapshot, nil
}

// NextQuestion generates a question via the LLM, falling back to a canned
// one so the interview never stalls. Returns nil when no state exists.
func (f *InterviewFlow) NextQuestion(ctx context.Context, interviewID, requestedCategory, requestID string) *models.QuestionResponse {
	state := f.Store.GetState(interviewID)
	if state == nil {
		return nil
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}

	category := pickCategory(state, requestedCategory)
	difficulty := state.Performance.SuggestedDifficulty

	text, isFollowUp := f.generateQuestionText(ctx, state, category, difficulty, requestID)

	parentID := ""
	if isFollowUp && state.CurrentQuestionIndex >= 0 {
		parentID = state.Questions[state.CurrentQuestionIndex].ID
	}

	recorded := f.Store.RecordQuestion(interviewID, interview.QuestionInput{
		Text:       text,
		Category:   category,
		Difficulty: difficulty,
		IsFollowUp: isFollowUp,
		ParentID:   parentID,
	})
	if recorded == nil {
		return nil
	}

	response := &models.QuestionResponse{
		QuestionID: recorded.ID,
		Question:   recorded.Text,
		Category:   string(recorded.Category),
		Difficulty: string(recorded.Difficulty),
		IsFollowUp: recorded.IsFollowUp,
		RequestID:  requestID,
	}
	f.Hub.Publish(interviewID, ws.EventQuestionAsked, response)
	f.Hub.Publish(interviewID, ws.EventStateUpdate, f.Store.GetStateSnapshot(interviewID))
	return response
}

type generatedQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"`
	IsFollowUp bool   `json:"isFollowUp"`
}

func (f *InterviewFlow) generateQuestionText(ctx context.Context, state *interview.InterviewState, category models.TopicCategory, difficulty models.Difficulty, requestID string) (string, bool) {
	prompt, err := f.PromptManager.BuildPrompt("question", map[string]string{
		"RoundType":       string(state.RoundType),
		"ExperienceLevel": state.ExperienceLevel,
		"TargetRole":      state.TargetRole,
		"TargetCompany":   state.TargetCompany,
		"ResumeContext":   state.ResumeContext,
		"History":         formatHistory(state, 10),
		"TopicsRemaining": formatRemaining(state),
		"Category":        string(category),
		"Difficulty":      string(difficulty),
	})
	if err != nil {
		f.Logger.Error("question prompt build failed", zap.Error(err))
		metrics.LLMCalls.WithLabelValues("question", "fallback").Inc()
		return fallbackQuestions[category], false
	}

	result, err := llm.WithRetry(ctx, f.Logger, func() (*llm.GenerationResult, error) {
		return f.Provider.GenerateText(ctx, prompt, requestID)
	})
	if err != nil {
		f.Logger.Warn("question generation failed, using fallback",
			zap.String("request_id", requestID), zap.Error(err))
		metrics.LLMCalls.WithLabelValues("question", "fallback").Inc()
		return fallbackQuestions[category], false
	}

	var parsed generatedQuestion
	if !llm.ExtractJSON(result.Content, &parsed) || strings.TrimSpace(parsed.Question) == "" {
		// freeform text is still usable as the question itself
		text := strings.TrimSpace(result.Content)
		if text == "" {
			metrics.LLMCalls.WithLabelValues("question", "fallback").Inc()
			return fallbackQuestions[category], false
		}
		metrics.LLMCalls.WithLabelValues("question", "ok").Inc()
		return text, false
	}
	metrics.LLMCalls.WithLabelValues("question", "ok").Inc()
	return parsed.Question, parsed.IsFollowUp
}

// Evaluate scores an answer via the LLM with a length-based heuristic as
// fallback, folds it into the state and notifies the room. Nil when the
// interview is unknown; an unknown question id leaves state untouched.
func (f *InterviewFlow) Evaluate(ctx context.Context, interviewID, questionID, answer, requestID string) *models.EvaluationResponse {
	state := f.Store.GetState(interviewID)
	if state == nil {
		return nil
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var question *interview.QuestionState
	for i := range state.Questions {
		if state.Questions[i].ID == questionID {
			question = &state.Questions[i]
			break
		}
	}
	if question == nil {
		return nil
	}

	score, feedback, followUp := f.scoreAnswer(ctx, state, question, answer, requestID)

	recorded := f.Store.RecordAnswer(interviewID, interview.AnswerInput{
		QuestionID:      questionID,
		Answer:          answer,
		Score:           score,
		Feedback:        feedback,
		SuggestFollowUp: followUp,
	})
	if recorded == nil {
		return nil
	}

	response := &models.EvaluationResponse{
		QuestionID:      questionID,
		Score:           score,
		Feedback:        feedback,
		SuggestFollowUp: followUp,
		RequestID:       requestID,
	}
	f.Hub.Publish(interviewID, ws.EventAnswerEvaluated, response)
	f.Hub.Publish(interviewID, ws.EventStateUpdate, f.Store.GetStateSnapshot(interviewID))
	return response
}

type evaluatedAnswer struct {
	Score           float64 `json:"score"`
	Feedback        string  `json:"feedback"`
	SuggestFollowUp bool    `json:"suggestFollowUp"`
}

func (f *InterviewFlow) scoreAnswer(ctx context.Context, state *interview.InterviewState, question *interview.QuestionState, answer, requestID string) (float64, string, bool) {
	prompt, err := f.PromptManager.BuildPrompt("evaluate", map[string]string{
		"RoundType":  string(state.RoundType),
		"TargetRole": state.TargetRole,
		"Category":   string(question.Category),
		"Difficulty": string(question.Difficulty),
		"Question":   question.Text,
		"Answer":     answer,
	})
	if err == nil {
		result, genErr := llm.WithRetry(ctx, f.Logger, func() (*llm.GenerationResult, error) {
			return f.Provider.GenerateText(ctx, prompt, requestID)
		})
		if genErr == nil {
			var parsed evaluatedAnswer
			if llm.ExtractJSON(result.Content, &parsed) && parsed.Score >= 0 && parsed.Score <= 10 {
				metrics.LLMCalls.WithLabelValues("evaluate", "ok").Inc()
				return parsed.Score, parsed.Feedback, parsed.SuggestFollowUp
			}
		} else {
			f.Logger.Warn("answer evaluation failed, using heuristic",
				zap.String("request_id", requestID), zap.Error(genErr))
		}
	}
	metrics.LLMCalls.WithLabelValues("evaluate", "fallback").Inc()
	return heuristicScore(answer), "Evaluated heuristically; detailed feedback unavailable.", false
}

// heuristicScore approximates answer quality from length alone.
func heuristicScore(answer string) float64 {
	words := len(strings.Fields(answer))
	switch {
	case words < 10:
		return 3
	case words < 40:
		return 5
	case words < 120:
		return 6.5
	default:
		return 7.5
	}
}

func pickCategory(state *interview.InterviewState, requested string) models.TopicCategory {
	if requested != "" {
		return models.TopicCategory(requested)
	}
	order, ok := defaultCategories[state.RoundType]
	if !ok {
		order = []models.TopicCategory{models.TopicIntroduction, models.TopicExperience, models.TopicClosing}
	}
	for _, category := range order {
		if stats := state.Topics[category]; stats != nil && !stats.Covered {
			return category
		}
	}
	// all preferred topics covered; keep deepening the round's main one
	return order[len(order)-1]
}

func formatHistory(state *interview.InterviewState, limit int) string {
	questions := state.Questions
	if len(questions) > limit {
		questions = questions[len(questions)-limit:]
	}
	var b strings.Builder
	for i := range questions {
		q := &questions[i]
		fmt.Fprintf(&b, "- [%s] %s", q.Category, q.Text)
		if q.Score != nil {
			fmt.Fprintf(&b, " (scored %.1f)", *q.Score)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "(none yet)"
	}
	return b.String()
}

func formatRemaining(state *interview.InterviewState) string {
	remaining := make([]string, 0, len(state.Topics))
	for _, category := range models.AllTopicCategories() {
		if stats := state.Topics[category]; stats != nil && !stats.Covered {
			remaining = append(remaining, string(category))
		}
	}
	return strings.Join(remaining, ", ")
}

// Complete finishes the interview: final state flush, durable transcript
// and analysis, and the closing room event. Nil when the id is unknown.
func (f *InterviewFlow) Complete(ctx context.Context, interviewID string) *interview.Snapshot {
	state := f.Store.GetState(interviewID)
	if state == nil {
		return nil
	}
	completed := f.Store.CompleteInterview(interviewID)
	if completed == nil {
		return nil
	}

	f.writeTranscript(state)
	f.writeAnalysis(ctx, state)
	if err := f.Rounds.Complete(interviewID, state.Performance.AverageScore); err != nil {
		f.Logger.Warn("failed to complete durable round", zap.String("interview_id", interviewID), zap.Error(err))
	}

	snapshot := f.Store.GetStateSnapshot(interviewID)
	f.Hub.Publish(interviewID, ws.EventCompleted, snapshot)
	return snapshot
}

func (f *InterviewFlow) writeTranscript(state *interview.InterviewState) {
	content, err := json.Marshal(state.Questions)
	if err != nil {
		f.Logger.Error("transcript marshal failed", zap.Error(err))
		return
	}
	transcript := &models.Transcript{
		InterviewID: state.InterviewID,
		UserID:      state.UserID,
		Content:     string(content),
	}
	if err := f.Reports.CreateTranscript(transcript); err != nil {
		f.Logger.Error("transcript save failed", zap.Error(err))
	}
}

type generatedAnalysis struct {
	Summary    string `json:"summary"`
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
}

func (f *InterviewFlow) writeAnalysis(ctx context.Context, state *interview.InterviewState) {
	analysis := &models.Analysis{
		InterviewID:  state.InterviewID,
		UserID:       state.UserID,
		AverageScore: state.Performance.AverageScore,
	}

	prompt, err := f.PromptManager.BuildPrompt("analysis", map[string]string{
		"RoundType":    string(state.RoundType),
		"AverageScore": fmt.Sprintf("%.1f", state.Performance.AverageScore),
		"StrongTopics": joinCategories(state.Performance.StrongTopics),
		"WeakTopics":   joinCategories(state.Performance.WeakTopics),
		"History":      formatHistory(state, 50),
	})
	if err == nil {
		if result, genErr := f.Provider.GenerateText(ctx, prompt, ""); genErr == nil {
			var parsed generatedAnalysis
			if llm.ExtractJSON(result.Content, &parsed) {
				analysis.Summary = parsed.Summary
				analysis.Strengths = parsed.Strengths
				analysis.Weaknesses = parsed.Weaknesses
			}
		} else {
			f.Logger.Warn("analysis generation failed", zap.Error(genErr))
		}
	}
	if analysis.Summary == "" {
		analysis.Summary = fmt.Sprintf("Completed %s round with average score %.1f over %d questions.",
			state.RoundType, state.Performance.AverageScore, len(state.Questions))
		analysis.Strengths = joinCategories(state.Performance.StrongTopics)
		analysis.Weaknesses = joinCategories(state.Performance.WeakTopics)
	}

	if err := f.Reports.CreateAnalysis(analysis); err != nil {
		f.Logger.Error("analysis save failed", zap.Error(err))
	}
}

func joinCategories(categories []models.TopicCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
