package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type QuestionRepository interface {
	Create(tx *gorm.DB, question *models.Question) error
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.Question, error)
	GetByPageID(tx *gorm.DB, pageID uuid.UUID) ([]*models.Question, error)
	MaxSortOrder(tx *gorm.DB, pageID uuid.UUID) (int, error)
	Update(tx *gorm.DB, question *models.Question) error
	DeleteByPage(tx *gorm.DB, pageID uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *questionRepository) Create(tx *gorm.DB, question *models.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	return r.conn(tx).Create(question).Error
}

func (r *questionRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.conn(tx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) GetByPageID(tx *gorm.DB, pageID uuid.UUID) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.conn(tx).
		Where("page_id = ?", pageID).
		Order("sort_order ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) MaxSortOrder(tx *gorm.DB, pageID uuid.UUID) (int, error) {
	var max *int
	err := r.conn(tx).Model(&models.Question{}).
		Where("page_id = ?", pageID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *questionRepository) Update(tx *gorm.DB, question *models.Question) error {
	question.UpdatedAt = time.Now()
	return r.conn(tx).Save(question).Error
}

func (r *questionRepository) DeleteByPage(tx *gorm.DB, pageID uuid.UUID) error {
	return r.conn(tx).Where("page_id = ?", pageID).Delete(&models.Question{}).Error
}
