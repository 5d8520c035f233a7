package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
)

type CourseMemberRepository interface {
	Create(tx *gorm.DB, member *models.CourseMember) error
	Exists(tx *gorm.DB, courseID, userID uuid.UUID) (bool, error)
	IsCourseAdmin(tx *gorm.DB, courseID, userID uuid.UUID) (bool, error)
	FindByUser(tx *gorm.DB, userID uuid.UUID) ([]models.CourseMember, error)
	DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error
}

type courseMemberRepository struct {
	db *gorm.DB
}

func NewCourseMemberRepository(db *gorm.DB) CourseMemberRepository {
	return &courseMemberRepository{db: db}
}

func (r *courseMemberRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *courseMemberRepository) Create(tx *gorm.DB, member *models.CourseMember) error {
	return r.conn(tx).Create(member).Error
}

func (r *courseMemberRepository) Exists(tx *gorm.DB, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(tx).Model(&models.CourseMember{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsCourseAdmin проверяет, имеет ли пользователь роль OWNER или ADMIN на курсе
func (r *courseMemberRepository) IsCourseAdmin(tx *gorm.DB, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(tx).Model(&models.CourseMember{}).
		Where("course_id = ? AND user_id = ? AND role IN ?",
			courseID, userID, []models.MemberRole{models.MemberRoleOwner, models.MemberRoleAdmin}).
		Count(&count).Error
	return count > 0, err
}

func (r *courseMemberRepository) FindByUser(tx *gorm.DB, userID uuid.UUID) ([]models.CourseMember, error) {
	var members []models.CourseMember
	err := r.conn(tx).Where("user_id = ?", userID).Find(&members).Error
	return members, err
}

func (r *courseMemberRepository) DeleteByCourse(tx *gorm.DB, courseID uuid.UUID) error {
	return r.conn(tx).Where("course_id = ?", courseID).Delete(&models.CourseMember{}).Error
}
