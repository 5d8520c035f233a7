package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

// CourseRepository работает с курсами. Параметр tx позволяет выполнять
// операции внутри внешней транзакции; при nil используется базовое подключение.
type CourseRepository interface {
	Create(tx *gorm.DB, course *models.Course) error
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.Course, error)
	GetByIDs(tx *gorm.DB, ids []uuid.UUID) ([]*models.Course, error)
	GetBySlugAndStatus(tx *gorm.DB, slug string, status models.CourseStatus) (*models.Course, error)
	FindByAuthorTitleStatus(tx *gorm.DB, authorID uuid.UUID, title string, status models.CourseStatus) ([]*models.Course, error)
	Update(tx *gorm.DB, course *models.Course) error
	MarkPublished(tx *gorm.DB, id uuid.UUID, now time.Time) (bool, error)
	MarkArchived(tx *gorm.DB, id uuid.UUID, now time.Time) (bool, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *courseRepository) Create(tx *gorm.DB, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	return r.conn(tx).Create(course).Error
}

func (r *courseRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.conn(tx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) GetByIDs(tx *gorm.DB, ids []uuid.UUID) ([]*models.Course, error) {
	var courses []*models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.conn(tx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepository) GetBySlugAndStatus(tx *gorm.DB, slug string, status models.CourseStatus) (*models.Course, error) {
	var course models.Course
	err := r.conn(tx).
		Where("slug = ? AND status = ?", slug, status).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByAuthorTitleStatus(tx *gorm.DB, authorID uuid.UUID, title string, status models.CourseStatus) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.conn(tx).
		Where("author_id = ? AND title = ? AND status = ?", authorID, title, status).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Update(tx *gorm.DB, course *models.Course) error {
	course.UpdatedAt = time.Now()
	return r.conn(tx).Save(course).Error
}

// MarkPublished переводит курс DRAFT -> PUBLISHED. Условие по статусу в WHERE
// защищает от двойной публикации при конкурентных запросах.
func (r *courseRepository) MarkPublished(tx *gorm.DB, id uuid.UUID, now time.Time) (bool, error) {
	res := r.conn(tx).Model(&models.Course{}).
		Where("id = ? AND status = ?", id, models.CourseStatusDraft).
		Updates(map[string]interface{}{
			"status":       models.CourseStatusPublished,
			"published_at": now,
			"updated_at":   now,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkArchived переводит курс PUBLISHED -> ARCHIVED по той же схеме
func (r *courseRepository) MarkArchived(tx *gorm.DB, id uuid.UUID, now time.Time) (bool, error) {
	res := r.conn(tx).Model(&models.Course{}).
		Where("id = ? AND status = ?", id, models.CourseStatusPublished).
		Updates(map[string]interface{}{
			"status":      models.CourseStatusArchived,
			"archived_at": now,
			"updated_at":  now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *courseRepository) Delete(tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).Delete(&models.Course{}, "id = ?", id).Error
}
