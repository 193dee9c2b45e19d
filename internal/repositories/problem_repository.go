package repositories

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/execution"
	"github.com/0xteamMuffin/Hireability/internal/models"
)

var ErrProblemNotFound = errors.New("problem not found")

type ProblemRepository struct {
	DB *gorm.DB
}

func (r *ProblemRepository) Create(problem *models.CodingProblem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) GetByID(problemID uint) (*models.CodingProblem, error) {
	var problem models.CodingProblem
	err := r.DB.First(&problem, problemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProblemNotFound
	}
	return &problem, err
}

// PickForDifficulty returns one problem at the given difficulty, falling
// back to any problem when the difficulty has none.
func (r *ProblemRepository) PickForDifficulty(difficulty string) (*models.CodingProblem, error) {
	var problem models.CodingProblem
	err := r.DB.Where("difficulty = ?", difficulty).Order("RANDOM()").First(&problem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.DB.Order("RANDOM()").First(&problem).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProblemNotFound
	}
	return &problem, err
}

// DecodeTestCases parses the stored JSON test-case array.
func DecodeTestCases(problem *models.CodingProblem) ([]execution.TestCase, error) {
	if problem.TestCases == "" {
		return nil, nil
	}
	var cases []execution.TestCase
	if err := json.Unmarshal([]byte(problem.TestCases), &cases); err != nil {
		return nil, err
	}
	return cases, nil
}
