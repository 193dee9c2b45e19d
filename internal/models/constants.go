package models

// RoundType identifies one themed segment of a multi-part interview.
type RoundType string

const (
	RoundBehavioral   RoundType = "behavioral"
	RoundTechnical    RoundType = "technical"
	RoundCoding       RoundType = "coding"
	RoundSystemDesign RoundType = "system-design"
	RoundHR           RoundType = "hr"
)

// ValidRoundTypes contains all supported round types (in lowercase)
var ValidRoundTypes = map[RoundType]bool{
	RoundBehavioral:   true,
	RoundTechnical:    true,
	RoundCoding:       true,
	RoundSystemDesign: true,
	RoundHR:           true,
}

// Difficulty is the suggested difficulty for the next question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// TopicCategory is one of the nine fixed question classifications used
// for coverage tracking.
type TopicCategory string

const (
	TopicIntroduction     TopicCategory = "introduction"
	TopicBehavioral       TopicCategory = "behavioral"
	TopicTechnicalConcept TopicCategory = "technical_concept"
	TopicProblemSolving   TopicCategory = "problem_solving"
	TopicSystemDesign     TopicCategory = "system_design"
	TopicCoding           TopicCategory = "coding"
	TopicExperience       TopicCategory = "experience"
	TopicCulturalFit      TopicCategory = "cultural_fit"
	TopicClosing          TopicCategory = "closing"
)

// AllTopicCategories returns the fixed category set in a stable order.
func AllTopicCategories() []TopicCategory {
	return []TopicCategory{
		TopicIntroduction,
		TopicBehavioral,
		TopicTechnicalConcept,
		TopicProblemSolving,
		TopicSystemDesign,
		TopicCoding,
		TopicExperience,
		TopicCulturalFit,
		TopicClosing,
	}
}

// Trend classifies recent score movement.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// ConfidenceTier buckets the candidate's apparent confidence.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// DepthTier tracks how far a topic category has been probed.
type DepthTier string

const (
	DepthShallow  DepthTier = "shallow"
	DepthModerate DepthTier = "moderate"
	DepthDeep     DepthTier = "deep"
)

// MinQuestionsForRound returns the minimum question count before a round
// is eligible for wrap-up on performance grounds.
func MinQuestionsForRound(round RoundType) int {
	switch round {
	case RoundBehavioral:
		return 4
	case RoundTechnical:
		return 5
	case RoundCoding:
		return 1
	case RoundSystemDesign:
		return 2
	case RoundHR:
		return 3
	default:
		return 4
	}
}

// contains all supported execution languages (in lowercase)
var SupportedLanguages = map[string]bool{
	"python":     true,
	"java":       true,
	"cpp":        true,
	"javascript": true,
	"go":         true,
}

// ResumeTextLimit caps condensed resume text carried in interview context.
const ResumeTextLimit = 4000

// ScrapeContentLimit caps scraped page content fed to the LLM.
const ScrapeContentLimit = 10000
