package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// ReportRepository stores completed-interview transcripts and analyses.
type ReportRepository struct {
	DB *gorm.DB
}

func (r *ReportRepository) CreateTranscript(transcript *models.Transcript) error {
	return r.DB.Create(transcript).Error
}

func (r *ReportRepository) CreateAnalysis(analysis *models.Analysis) error {
	return r.DB.Create(analysis).Error
}

func (r *ReportRepository) GetAnalysis(userID uint, interviewID string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.DB.First(&analysis, "interview_id = ? AND user_id = ?", interviewID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	return &analysis, err
}

func (r *ReportRepository) ListAnalyses(userID uint) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.DB.Order("created_at desc").Find(&analyses, "user_id = ?", userID).Error
	return analyses, err
}
