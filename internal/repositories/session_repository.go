package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRoundNotFound   = errors.New("round not found")
)

type SessionRepository struct {
	DB *gorm.DB
}

// CreateSession stores a session with its ordered rounds in one transaction.
func (r *SessionRepository) CreateSession(session *models.InterviewSession) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(session).Error
	})
}

func (r *SessionRepository) GetSession(userID, sessionID uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.DB.Preload("Rounds").First(&session, "id = ? AND user_id = ?", sessionID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	return &session, err
}

func (r *SessionRepository) ListByUser(userID uint) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.DB.Preload("Rounds").Order("created_at desc").
		Find(&sessions, "user_id = ?", userID).Error
	return sessions, err
}

func (r *SessionRepository) CompleteSession(sessionID uint) error {
	now := time.Now()
	result := r.DB.Model(&models.InterviewSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{"status": "completed", "ended_at": &now})
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return result.Error
}

// RoundRepository manages durable round records; it is also the
// persistence sidecar's write target.
type RoundRepository struct {
	DB *gorm.DB
}

func (r *RoundRepository) GetByInterviewID(interviewID string) (*models.InterviewRound, error) {
	var round models.InterviewRound
	err := r.DB.First(&round, "interview_id = ?", interviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoundNotFound
	}
	return &round, err
}

func (r *RoundRepository) MarkActive(interviewID string) error {
	now := time.Now()
	result := r.DB.Model(&models.InterviewRound{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{"status": "active", "started_at": &now})
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}
	return result.Error
}

func (r *RoundRepository) Complete(interviewID string, finalScore float64) error {
	now := time.Now()
	result := r.DB.Model(&models.InterviewRound{}).
		Where("interview_id = ?", interviewID).
		Updates(map[string]interface{}{
			"status":      "completed",
			"ended_at":    &now,
			"final_score": finalScore,
		})
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}
	return result.Error
}

// WriteStateSnapshot implements interview.SnapshotWriter.
func (r *RoundRepository) WriteStateSnapshot(interviewID string, payload []byte) error {
	result := r.DB.Model(&models.InterviewRound{}).
		Where("interview_id = ?", interviewID).
		Update("state_snapshot", string(payload))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}
	return nil
}
