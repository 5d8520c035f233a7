package services

import (
	"encoding/json"

	"github.com/offer-hunt/oh-course/internal/models"
)

// CourseVersionPayload - снимок изменяемых полей курса. Структурные дети
// (уроки, страницы, вопросы) в снимок не входят.
type CourseVersionPayload struct {
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	CoverURL             string              `json:"cover_url"`
	Language             string              `json:"language"`
	Level                string              `json:"level"`
	EstimatedDurationMin *int                `json:"estimated_duration_min"`
	Status               models.CourseStatus `json:"status"`
	AccessType           models.AccessType   `json:"access_type"`
	InviteCode           string              `json:"invite_code"`
	RequiresEntitlement  bool                `json:"requires_entitlement"`
	MaxFreeEnrollments   *int                `json:"max_free_enrollments"`
}

func courseVersionPayloadFrom(course *models.Course) CourseVersionPayload {
	return CourseVersionPayload{
		Title:                course.Title,
		Description:          course.Description,
		CoverURL:             course.CoverURL,
		Language:             course.Language,
		Level:                course.Level,
		EstimatedDurationMin: course.EstimatedDurationMin,
		Status:               course.Status,
		AccessType:           course.AccessType,
		InviteCode:           course.InviteCode,
		RequiresEntitlement:  course.RequiresEntitlement,
		MaxFreeEnrollments:   course.MaxFreeEnrollments,
	}
}

func (p CourseVersionPayload) applyTo(course *models.Course) {
	course.Title = p.Title
	course.Description = p.Description
	course.CoverURL = p.CoverURL
	course.Language = p.Language
	course.Level = p.Level
	course.EstimatedDurationMin = p.EstimatedDurationMin
	course.Status = p.Status
	course.AccessType = p.AccessType
	course.InviteCode = p.InviteCode
	course.RequiresEntitlement = p.RequiresEntitlement
	course.MaxFreeEnrollments = p.MaxFreeEnrollments
}

// LessonVersionPayload - снимок изменяемых полей урока
type LessonVersionPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
	DurationMin *int   `json:"duration_min"`
}

func lessonVersionPayloadFrom(lesson *models.Lesson) LessonVersionPayload {
	return LessonVersionPayload{
		Title:       lesson.Title,
		Description: lesson.Description,
		OrderIndex:  lesson.OrderIndex,
		DurationMin: lesson.DurationMin,
	}
}

func (p LessonVersionPayload) applyTo(lesson *models.Lesson) {
	lesson.Title = p.Title
	lesson.Description = p.Description
	lesson.OrderIndex = p.OrderIndex
	lesson.DurationMin = p.DurationMin
}

func encodePayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func decodePayload(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
