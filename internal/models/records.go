package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// Profile holds the user-editable interview preferences and background.
type Profile struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex;not null" json:"userId"`
	FullName        string `json:"fullName"`
	TargetRole      string `json:"targetRole"`
	TargetCompany   string `json:"targetCompany"`
	ExperienceLevel string `json:"experienceLevel"`
	PreferredLang   string `json:"preferredLanguage"`
}

// Document is an uploaded resume or supporting document, stored with the
// LLM-condensed summary used as interview context.
type Document struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Kind      string `gorm:"not null" json:"kind"` // "resume" | "cover_letter"
	FileName  string `json:"fileName"`
	RawText   string `gorm:"type:text" json:"-"`
	Condensed string `gorm:"type:text" json:"condensed"`
}

// InterviewSession groups the ordered rounds of one mock interview.
type InterviewSession struct {
	gorm.Model
	UserID        uint       `gorm:"index;not null" json:"userId"`
	TargetRole    string     `json:"targetRole"`
	TargetCompany string     `json:"targetCompany"`
	Status        string     `gorm:"default:scheduled" json:"status"` // scheduled | active | completed
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Rounds        []InterviewRound `json:"rounds,omitempty"`
}

// InterviewRound is one durable round record. StateSnapshot carries the
// persistence sidecar's opaque payload; it is a recovery hint, never the
// source of truth while the process is alive.
type InterviewRound struct {
	gorm.Model
	InterviewID        string     `gorm:"uniqueIndex;not null" json:"interviewId"`
	InterviewSessionID uint       `gorm:"index" json:"sessionId"`
	UserID             uint       `gorm:"index;not null" json:"userId"`
	RoundType          string     `gorm:"not null" json:"roundType"`
	RoundOrder         int        `json:"roundOrder"`
	DurationMinutes    int        `gorm:"default:30" json:"durationMinutes"`
	Status             string     `gorm:"default:pending" json:"status"` // pending | active | completed
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	FinalScore         float64    `json:"finalScore"`
	StateSnapshot      string     `gorm:"type:text" json:"-"`
}

// CodingProblem is a stored problem assignable during a coding round.
type CodingProblem struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Difficulty  string `json:"difficulty"`
	StarterCode string `gorm:"type:text" json:"starterCode"`
	TestCases   string `gorm:"type:text" json:"-"` // JSON array of {input, expected}
}

// Transcript stores the question/answer log of a completed round.
type Transcript struct {
	gorm.Model
	InterviewID string `gorm:"index;not null" json:"interviewId"`
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Content     string `gorm:"type:text" json:"content"` // JSON question log
}

// Analysis stores the post-interview performance report.
type Analysis struct {
	gorm.Model
	InterviewID  string  `gorm:"index;not null" json:"interviewId"`
	UserID       uint    `gorm:"index;not null" json:"userId"`
	AverageScore float64 `json:"averageScore"`
	Summary      string  `gorm:"type:text" json:"summary"`
	Strengths    string  `gorm:"type:text" json:"strengths"`
	Weaknesses   string  `gorm:"type:text" json:"weaknesses"`
}
