package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType определяет тип вопроса
type QuestionType string

const (
	QuestionTypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTextInput      QuestionType = "TEXT_INPUT"
	QuestionTypeCode           QuestionType = "CODE"
)

// Question - вопрос на странице TEST или CODE_TASK
type Question struct {
	ID            uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	PageID        uuid.UUID    `json:"page_id" gorm:"type:text;not null;index"`
	Type          QuestionType `json:"type" gorm:"not null"`
	Text          string       `json:"text" gorm:"not null"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	UseAiCheck    bool         `json:"use_ai_check" gorm:"default:false"`
	Points        *int         `json:"points,omitempty"`
	SortOrder     int          `json:"sort_order" gorm:"not null"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// QuestionOption - вариант ответа, имеет смысл для SINGLE_CHOICE и MULTIPLE_CHOICE
type QuestionOption struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:text;not null;index"`
	Label      string    `json:"label" gorm:"not null"`
	Correct    bool      `json:"correct" gorm:"column:is_correct"`
	SortOrder  int       `json:"sort_order" gorm:"not null"`
}

// QuestionTestCase - тест-кейс вопроса типа CODE
type QuestionTestCase struct {
	ID             uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	QuestionID     uuid.UUID `json:"question_id" gorm:"type:text;not null;index"`
	InputData      string    `json:"input_data" gorm:"not null"`
	ExpectedOutput string    `json:"expected_output" gorm:"not null"`
	TimeoutMs      *int      `json:"timeout_ms,omitempty"`
	MemoryLimitMb  *int      `json:"memory_limit_mb,omitempty"`
}
