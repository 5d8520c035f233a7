package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type QuestionTestCaseRepository interface {
	Create(tx *gorm.DB, testCase *models.QuestionTestCase) error
	GetByQuestionID(tx *gorm.DB, questionID uuid.UUID) ([]*models.QuestionTestCase, error)
	DeleteByQuestion(tx *gorm.DB, questionID uuid.UUID) error
}

type questionTestCaseRepository struct {
	db *gorm.DB
}

func NewQuestionTestCaseRepository(db *gorm.DB) QuestionTestCaseRepository {
	return &questionTestCaseRepository{db: db}
}

func (r *questionTestCaseRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *questionTestCaseRepository) Create(tx *gorm.DB, testCase *models.QuestionTestCase) error {
	if testCase.ID == uuid.Nil {
		testCase.ID = uuid.New()
	}
	return r.conn(tx).Create(testCase).Error
}

func (r *questionTestCaseRepository) GetByQuestionID(tx *gorm.DB, questionID uuid.UUID) ([]*models.QuestionTestCase, error) {
	var testCases []*models.QuestionTestCase
	err := r.conn(tx).
		Where("question_id = ?", questionID).
		Find(&testCases).Error
	return testCases, err
}

func (r *questionTestCaseRepository) DeleteByQuestion(tx *gorm.DB, questionID uuid.UUID) error {
	return r.conn(tx).Where("question_id = ?", questionID).Delete(&models.QuestionTestCase{}).Error
}
