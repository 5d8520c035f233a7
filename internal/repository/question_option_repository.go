package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type QuestionOptionRepository interface {
	Create(tx *gorm.DB, option *models.QuestionOption) error
	GetByQuestionID(tx *gorm.DB, questionID uuid.UUID) ([]*models.QuestionOption, error)
	DeleteByQuestion(tx *gorm.DB, questionID uuid.UUID) error
}

type questionOptionRepository struct {
	db *gorm.DB
}

func NewQuestionOptionRepository(db *gorm.DB) QuestionOptionRepository {
	return &questionOptionRepository{db: db}
}

func (r *questionOptionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *questionOptionRepository) Create(tx *gorm.DB, option *models.QuestionOption) error {
	if option.ID == uuid.Nil {
		option.ID = uuid.New()
	}
	return r.conn(tx).Create(option).Error
}

func (r *questionOptionRepository) GetByQuestionID(tx *gorm.DB, questionID uuid.UUID) ([]*models.QuestionOption, error) {
	var options []*models.QuestionOption
	err := r.conn(tx).
		Where("question_id = ?", questionID).
		Order("sort_order ASC").
		Find(&options).Error
	return options, err
}

func (r *questionOptionRepository) DeleteByQuestion(tx *gorm.DB, questionID uuid.UUID) error {
	return r.conn(tx).Where("question_id = ?", questionID).Delete(&models.QuestionOption{}).Error
}
