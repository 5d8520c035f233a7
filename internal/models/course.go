package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CourseStatus определяет статус курса в жизненном цикле
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// AccessType определяет тип доступа к курсу
type AccessType string

const (
	AccessTypePublic      AccessType = "PUBLIC"
	AccessTypePrivateLink AccessType = "PRIVATE_LINK"
)

// Course - курс с полным деревом контента
type Course struct {
	ID                  uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	AuthorID            uuid.UUID    `json:"author_id" gorm:"type:text;not null;index"`
	Title               string       `json:"title" gorm:"not null"`
	Slug                string       `json:"slug" gorm:"uniqueIndex;not null"`
	Description         string       `json:"description"`
	CoverURL            string       `json:"cover_url"`
	Language            string       `json:"language"`
	Level               string       `json:"level"`
	EstimatedDurationMin *int        `json:"estimated_duration_min,omitempty"`
	Status              CourseStatus `json:"status" gorm:"not null;default:'DRAFT';index"`
	AccessType          AccessType   `json:"access_type" gorm:"not null;default:'PUBLIC'"`
	InviteCode          string       `json:"invite_code,omitempty"`
	RequiresEntitlement bool         `json:"requires_entitlement" gorm:"default:false"`
	MaxFreeEnrollments  *int         `json:"max_free_enrollments,omitempty"`

	// Номер версии курса. Информационный: увеличивается при создании черновика
	// из опубликованного курса.
	Version int `json:"version" gorm:"not null;default:1"`

	// Теги хранятся JSON-массивом строк
	Tags datatypes.JSON `json:"tags,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Связи
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

// MemberRole определяет роль участника курса
type MemberRole string

const (
	MemberRoleOwner MemberRole = "OWNER"
	MemberRoleAdmin MemberRole = "ADMIN"
)

// CourseMember - участник курса (Course-RBAC)
type CourseMember struct {
	CourseID uuid.UUID  `json:"course_id" gorm:"type:text;primaryKey"`
	UserID   uuid.UUID  `json:"user_id" gorm:"type:text;primaryKey"`
	Role     MemberRole `json:"role" gorm:"not null"`
	AddedBy  uuid.UUID  `json:"added_by" gorm:"type:text"`
	AddedAt  time.Time  `json:"added_at"`
}
