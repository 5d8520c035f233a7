package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

// ContentVersionRepository - журнал версий. Записи только добавляются
// и читаются, обновления не предусмотрены.
type ContentVersionRepository interface {
	Create(tx *gorm.DB, version *models.ContentVersion) error
	GetByID(tx *gorm.DB, id uuid.UUID) (*models.ContentVersion, error)
	FindCourseVersions(tx *gorm.DB, courseID uuid.UUID) ([]*models.ContentVersion, error)
	FindLessonVersions(tx *gorm.DB, lessonID uuid.UUID) ([]*models.ContentVersion, error)
	DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error
}

type contentVersionRepository struct {
	db *gorm.DB
}

func NewContentVersionRepository(db *gorm.DB) ContentVersionRepository {
	return &contentVersionRepository{db: db}
}

func (r *contentVersionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *contentVersionRepository) Create(tx *gorm.DB, version *models.ContentVersion) error {
	if version.ID == uuid.Nil {
		version.ID = uuid.New()
	}
	return r.conn(tx).Create(version).Error
}

func (r *contentVersionRepository) GetByID(tx *gorm.DB, id uuid.UUID) (*models.ContentVersion, error) {
	var version models.ContentVersion
	if err := r.conn(tx).First(&version, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

// FindCourseVersions возвращает версии курса, новые сверху
func (r *contentVersionRepository) FindCourseVersions(tx *gorm.DB, courseID uuid.UUID) ([]*models.ContentVersion, error) {
	var versions []*models.ContentVersion
	err := r.conn(tx).
		Where("course_id = ? AND scope = ?", courseID, models.VersionScopeCourse).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

// FindLessonVersions возвращает версии урока, новые сверху
func (r *contentVersionRepository) FindLessonVersions(tx *gorm.DB, lessonID uuid.UUID) ([]*models.ContentVersion, error) {
	var versions []*models.ContentVersion
	err := r.conn(tx).
		Where("lesson_id = ? AND scope = ?", lessonID, models.VersionScopeLesson).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

func (r *contentVersionRepository) DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error {
	return r.conn(tx).Where("course_id = ?", courseID).Delete(&models.ContentVersion{}).Error
}
