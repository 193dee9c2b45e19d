package interview

import (
	"time"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// QuestionState is one entry in the append-only question log.
type QuestionState struct {
	ID              string               `json:"id"`
	Text            string               `json:"text"`
	Category        models.TopicCategory `json:"category"`
	Difficulty      models.Difficulty    `json:"difficulty"`
	IsFollowUp      bool                 `json:"isFollowUp"`
	ParentID        string               `json:"parentId,omitempty"`
	AskedAt         time.Time            `json:"askedAt"`
	Answer          string               `json:"answer,omitempty"`
	AnsweredAt      *time.Time           `json:"answeredAt,omitempty"`
	Score           *float64             `json:"score,omitempty"`
	Feedback        string               `json:"feedback,omitempty"`
	SuggestFollowUp bool                 `json:"suggestFollowUp"`
	AnswerSeconds   float64              `json:"answerSeconds"`
}

// TopicStats tracks coverage of one of the nine fixed categories.
type TopicStats struct {
	QuestionsAsked int              `json:"questionsAsked"`
	AverageScore   float64          `json:"averageScore"`
	Covered        bool             `json:"covered"`
	Depth          models.DepthTier `json:"depth"`
}

// Performance holds the rolling aggregates recomputed on every answer.
type Performance struct {
	TotalQuestions      int                    `json:"totalQuestions"`
	AnsweredCount       int                    `json:"answeredCount"`
	AverageScore        float64                `json:"averageScore"`
	RecentScores        []float64              `json:"recentScores"` // capped at 5, FIFO
	Trend               models.Trend           `json:"trend"`
	StrongTopics        []models.TopicCategory `json:"strongTopics"`
	WeakTopics          []models.TopicCategory `json:"weakTopics"`
	SuggestedDifficulty models.Difficulty      `json:"suggestedDifficulty"`
	Confidence          models.ConfidenceTier  `json:"confidence"`
}

// CandidateSignals is the last-known client telemetry, merged
// non-destructively as partial updates arrive.
type CandidateSignals struct {
	IsTyping    bool               `json:"isTyping"`
	CodeLength  int                `json:"codeLength"`
	Expressions map[string]float64 `json:"expressions,omitempty"` // happy/neutral/sad/angry/fearful/surprised averages
	LongPause   bool               `json:"longPause"`
}

// SignalUpdate is a partial telemetry update; nil fields retain prior values.
type SignalUpdate struct {
	IsTyping    *bool              `json:"isTyping,omitempty"`
	CodeLength  *int               `json:"codeLength,omitempty"`
	Expressions map[string]float64 `json:"expressions,omitempty"`
	LongPause   *bool              `json:"longPause,omitempty"`
}

// ProblemInfo is the coding problem metadata carried in the sub-state.
type ProblemInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	StarterCode string `json:"starterCode"`
	TestCount   int    `json:"testCount"`
}

// CodeSubmission is one timestamped entry in the submission log.
type CodeSubmission struct {
	SubmittedAt time.Time               `json:"submittedAt"`
	Code        string                  `json:"code"`
	Language    string                  `json:"language"`
	Result      *models.ExecutionResult `json:"result,omitempty"`
}

// CodingState is the nested record for a coding round. Once created it is
// only removed by deleting the whole InterviewState.
type CodingState struct {
	Problem        ProblemInfo             `json:"problem"`
	Language       string                  `json:"language"`
	CurrentCode    string                  `json:"currentCode"`
	HintsUsed      int                     `json:"hintsUsed"`
	StartedAt      time.Time               `json:"startedAt"`
	ElapsedSeconds float64                 `json:"elapsedSeconds"`
	Submissions    []CodeSubmission        `json:"submissions"`
	LastResult     *models.ExecutionResult `json:"lastResult,omitempty"`
	TestsPassed    int                     `json:"testsPassed"`
	TestsTotal     int                     `json:"testsTotal"`
}

// InterviewState is the full in-memory record for one active interview.
// All access goes through the Store, which serializes mutations per id.
type InterviewState struct {
	InterviewID string `json:"interviewId"`
	UserID      uint   `json:"userId"`
	SessionID   string `json:"sessionId,omitempty"`

	RoundType  models.RoundType `json:"roundType"`
	RoundOrder int              `json:"roundOrder"`

	StartedAt       time.Time `json:"startedAt"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
	DurationMinutes int       `json:"durationMinutes"`
	ElapsedSeconds  float64   `json:"elapsedSeconds"`

	TargetRole      string `json:"targetRole"`
	TargetCompany   string `json:"targetCompany"`
	ExperienceLevel string `json:"experienceLevel"`
	ResumeContext   string `json:"resumeContext,omitempty"`

	Questions            []QuestionState `json:"questions"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"` // -1 until a question exists

	Topics      map[models.TopicCategory]*TopicStats `json:"topics"`
	Performance Performance                          `json:"performance"`
	Signals     CandidateSignals                     `json:"signals"`
	Coding      *CodingState                         `json:"coding,omitempty"`

	Phase            Phase `json:"phase"`
	ShouldWrapUp     bool  `json:"shouldWrapUp"` // sticky once true
	CanProceedToNext bool  `json:"canProceedToNext"`
}

// InitOptions seeds a fresh InterviewState.
type InitOptions struct {
	UserID          uint
	SessionID       string
	RoundType       models.RoundType
	RoundOrder      int
	DurationMinutes int
	TargetRole      string
	TargetCompany   string
	ExperienceLevel string
	ResumeContext   string
}

func newInterviewState(interviewID string, opts InitOptions, now time.Time) *InterviewState {
	topics := make(map[models.TopicCategory]*TopicStats, 9)
	for _, category := range models.AllTopicCategories() {
		topics[category] = &TopicStats{Depth: models.DepthShallow}
	}

	duration := opts.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	resume := opts.ResumeContext
	if len(resume) > models.ResumeTextLimit {
		resume = resume[:models.ResumeTextLimit]
	}

	return &InterviewState{
		InterviewID:          interviewID,
		UserID:               opts.UserID,
		SessionID:            opts.SessionID,
		RoundType:            opts.RoundType,
		RoundOrder:           opts.RoundOrder,
		StartedAt:            now,
		LastActivityAt:       now,
		DurationMinutes:      duration,
		TargetRole:           opts.TargetRole,
		TargetCompany:        opts.TargetCompany,
		ExperienceLevel:      opts.ExperienceLevel,
		ResumeContext:        resume,
		Questions:            make([]QuestionState, 0, 16),
		CurrentQuestionIndex: -1,
		Topics:               topics,
		Performance: Performance{
			RecentScores:        make([]float64, 0, 5),
			Trend:               models.TrendStable,
			SuggestedDifficulty: models.DifficultyMedium,
			Confidence:          models.ConfidenceMedium,
		},
		Signals: CandidateSignals{Expressions: make(map[string]float64)},
		Phase:   PhaseIntroduction,
	}
}
