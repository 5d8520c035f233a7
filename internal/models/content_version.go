package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VersionScope определяет, что снимает версия: курс или урок
type VersionScope string

const (
	VersionScopeCourse VersionScope = "COURSE"
	VersionScopeLesson VersionScope = "LESSON"
)

// ContentVersion - неизменяемый снимок настроек курса или урока.
// Запись никогда не обновляется: только создаётся и читается.
type ContentVersion struct {
	ID       uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	Scope    VersionScope `json:"scope" gorm:"not null"`
	CourseID uuid.UUID    `json:"course_id" gorm:"type:text;not null;index"`

	// Заполнен только для scope=LESSON
	LessonID *uuid.UUID `json:"lesson_id,omitempty" gorm:"type:text;index"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	Comment   *string   `json:"comment,omitempty"`

	// Сериализованный снимок полей владельца
	Payload datatypes.JSON `json:"payload" gorm:"not null"`
}
