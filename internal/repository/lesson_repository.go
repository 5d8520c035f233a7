package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type LessonRepository interface {
	Create(tx *gorm.DB, lesson *models.Lesson) error
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.Lesson, error)
	GetByCourseID(tx *gorm.DB, courseID uuid.UUID) ([]*models.Lesson, error)
	MaxOrderIndex(tx *gorm.DB, courseID uuid.UUID) (int, error)
	Update(tx *gorm.DB, lesson *models.Lesson) error
	DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *lessonRepository) Create(tx *gorm.DB, lesson *models.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	return r.conn(tx).Create(lesson).Error
}

func (r *lessonRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.conn(tx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetByCourseID возвращает уроки курса в порядке отображения
func (r *lessonRepository) GetByCourseID(tx *gorm.DB, courseID uuid.UUID) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.conn(tx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) MaxOrderIndex(tx *gorm.DB, courseID uuid.UUID) (int, error) {
	var max *int
	err := r.conn(tx).Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *lessonRepository) Update(tx *gorm.DB, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now()
	return r.conn(tx).Save(lesson).Error
}

func (r *lessonRepository) DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error {
	return r.conn(tx).Where("course_id = ?", courseID).Delete(&models.Lesson{}).Error
}
