package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type MethodicalContentRepository interface {
	Save(tx *gorm.DB, content *models.MethodicalPageContent) error
	GetByPageID(tx *gorm.DB, pageID uuid.UUID) (*models.MethodicalPageContent, error)
	DeleteByPage(tx *gorm.DB, pageID uuid.UUID) error
}

type methodicalContentRepository struct {
	db *gorm.DB
}

func NewMethodicalContentRepository(db *gorm.DB) MethodicalContentRepository {
	return &methodicalContentRepository{db: db}
}

func (r *methodicalContentRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Save создает или перезаписывает материал страницы (ключ 1:1 по pageId)
func (r *methodicalContentRepository) Save(tx *gorm.DB, content *models.MethodicalPageContent) error {
	return r.conn(tx).Save(content).Error
}

func (r *methodicalContentRepository) GetByPageID(tx *gorm.DB, pageID uuid.UUID) (*models.MethodicalPageContent, error) {
	var content models.MethodicalPageContent
	if err := r.conn(tx).First(&content, "page_id = ?", pageID).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *methodicalContentRepository) DeleteByPage(tx *gorm.DB, pageID uuid.UUID) error {
	return r.conn(tx).Delete(&models.MethodicalPageContent{}, "page_id = ?", pageID).Error
}
