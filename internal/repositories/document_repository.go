package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository struct {
	DB *gorm.DB
}

func (r *DocumentRepository) Create(doc *models.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) GetByID(userID, docID uint) (*models.Document, error) {
	var doc models.Document
	err := r.DB.First(&doc, "id = ? AND user_id = ?", docID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	return &doc, err
}

func (r *DocumentRepository) ListByUser(userID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.DB.Order("created_at desc").Find(&docs, "user_id = ?", userID).Error
	return docs, err
}

// LatestResume returns the newest condensed resume for interview context,
// or "" when the user has none.
func (r *DocumentRepository) LatestResume(userID uint) (string, error) {
	var doc models.Document
	err := r.DB.Order("created_at desc").
		First(&doc, "user_id = ? AND kind = ?", userID, "resume").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.Condensed, nil
}
