package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository struct {
	DB *gorm.DB
}

func (r *ProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	return &profile, err
}

// Upsert creates the profile on first save and updates it afterwards.
func (r *ProfileRepository) Upsert(profile *models.Profile) (*models.Profile, error) {
	var existing models.Profile
	err := r.DB.First(&existing, "user_id = ?", profile.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.DB.Create(profile).Error; err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.DB.Model(&existing).Updates(profile).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
