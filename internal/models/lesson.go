package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson - урок курса
type Lesson struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	CourseID    uuid.UUID `json:"course_id" gorm:"type:text;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`

	// Порядок отображения внутри курса. Назначается при создании, при
	// удалении уроков не пересчитывается.
	OrderIndex  int   `json:"order_index" gorm:"not null"`
	DurationMin *int  `json:"duration_min,omitempty"`
	IsDemo      bool  `json:"is_demo" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Pages []LessonPage `json:"pages,omitempty" gorm:"foreignKey:LessonID"`
}

// PageType определяет тип страницы урока
type PageType string

const (
	PageTypeTheory   PageType = "THEORY"
	PageTypeTest     PageType = "TEST"
	PageTypeCodeTask PageType = "CODE_TASK"
)

// LessonPage - страница урока
type LessonPage struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	LessonID uuid.UUID `json:"lesson_id" gorm:"type:text;not null;index"`
	Title    string    `json:"title" gorm:"not null"`
	PageType PageType  `json:"page_type" gorm:"not null"`

	// Порядок внутри урока, та же дисциплина что и Lesson.OrderIndex
	SortOrder int `json:"sort_order" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MethodicalPageContent - методический материал страницы THEORY, 1:1 по pageId
type MethodicalPageContent struct {
	PageID           uuid.UUID `json:"page_id" gorm:"type:text;primary_key"`
	Markdown         string    `json:"markdown" gorm:"not null"`
	ExternalVideoURL string    `json:"external_video_url,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
