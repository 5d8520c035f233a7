package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type LessonPageRepository interface {
	Create(tx *gorm.DB, page *models.LessonPage) error
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.LessonPage, error)
	GetByLessonID(tx *gorm.DB, lessonID uuid.UUID) ([]*models.LessonPage, error)
	ExistsByLessonID(tx *gorm.DB, lessonID uuid.UUID) (bool, error)
	MaxSortOrder(tx *gorm.DB, lessonID uuid.UUID) (int, error)
	Update(tx *gorm.DB, page *models.LessonPage) error
	DeleteByLesson(tx *gorm.DB, lessonID uuid.UUID) error
}

type lessonPageRepository struct {
	db *gorm.DB
}

func NewLessonPageRepository(db *gorm.DB) LessonPageRepository {
	return &lessonPageRepository{db: db}
}

func (r *lessonPageRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *lessonPageRepository) Create(tx *gorm.DB, page *models.LessonPage) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	return r.conn(tx).Create(page).Error
}

func (r *lessonPageRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.LessonPage, error) {
	var page models.LessonPage
	if err := r.conn(tx).First(&page, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// GetByLessonID возвращает страницы урока в порядке отображения
func (r *lessonPageRepository) GetByLessonID(tx *gorm.DB, lessonID uuid.UUID) ([]*models.LessonPage, error) {
	var pages []*models.LessonPage
	err := r.conn(tx).
		Where("lesson_id = ?", lessonID).
		Order("sort_order ASC").
		Find(&pages).Error
	return pages, err
}

func (r *lessonPageRepository) ExistsByLessonID(tx *gorm.DB, lessonID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(tx).Model(&models.LessonPage{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count > 0, err
}

func (r *lessonPageRepository) MaxSortOrder(tx *gorm.DB, lessonID uuid.UUID) (int, error) {
	var max *int
	err := r.conn(tx).Model(&models.LessonPage{}).
		Where("lesson_id = ?", lessonID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *lessonPageRepository) Update(tx *gorm.DB, page *models.LessonPage) error {
	page.UpdatedAt = time.Now()
	return r.conn(tx).Save(page).Error
}

func (r *lessonPageRepository) DeleteByLesson(tx *gorm.DB, lessonID uuid.UUID) error {
	return r.conn(tx).Where("lesson_id = ?", lessonID).Delete(&models.LessonPage{}).Error
}
