package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/pkg/logger"
)

// CloneService выполняет структурное копирование дерева курса: уроки,
// страницы, материалы, вопросы с вариантами и тест-кейсами. Каждая копия
// получает новый ID, копия и источник не делят ни одной записи.
type CloneService struct {
	lessonRepo   repository.LessonRepository
	pageRepo     repository.LessonPageRepository
	contentRepo  repository.MethodicalContentRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.QuestionOptionRepository
	testCaseRepo repository.QuestionTestCaseRepository
	log          *logger.Logger
}

// NewCloneService создает новый сервис клонирования
func NewCloneService(
	lessonRepo repository.LessonRepository,
	pageRepo repository.LessonPageRepository,
	contentRepo repository.MethodicalContentRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.QuestionOptionRepository,
	testCaseRepo repository.QuestionTestCaseRepository,
	log *logger.Logger,
) *CloneService {
	return &CloneService{
		lessonRepo:   lessonRepo,
		pageRepo:     pageRepo,
		contentRepo:  contentRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		testCaseRepo: testCaseRepo,
		log:          log.With("service", "CloneService"),
	}
}

// CloneCourseStructure копирует всё дерево контента из sourceCourseID в
// targetCourseID. Вызывается внутри транзакции (tx) - при любой ошибке
// целевое дерево не остаётся записанным частично.
func (s *CloneService) CloneCourseStructure(tx *gorm.DB, sourceCourseID, targetCourseID uuid.UUID) error {
	sourceLessons, err := s.lessonRepo.GetByCourseID(tx, sourceCourseID)
	if err != nil {
		return fmt.Errorf("failed to load source lessons: %w", err)
	}

	now := time.Now()

	for _, sourceLesson := range sourceLessons {
		newLesson := &models.Lesson{
			ID:          uuid.New(),
			CourseID:    targetCourseID,
			Title:       sourceLesson.Title,
			Description: sourceLesson.Description,
			OrderIndex:  sourceLesson.OrderIndex,
			DurationMin: sourceLesson.DurationMin,
			IsDemo:      sourceLesson.IsDemo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.lessonRepo.Create(tx, newLesson); err != nil {
			return fmt.Errorf("failed to copy lesson %s: %w", sourceLesson.ID, err)
		}

		if err := s.cloneLessonPages(tx, sourceLesson.ID, newLesson.ID, now); err != nil {
			return err
		}
	}

	s.log.Info("course structure cloned",
		"sourceCourseId", sourceCourseID, "targetCourseId", targetCourseID,
		"lessons", len(sourceLessons))

	return nil
}

func (s *CloneService) cloneLessonPages(tx *gorm.DB, sourceLessonID, targetLessonID uuid.UUID, now time.Time) error {
	sourcePages, err := s.pageRepo.GetByLessonID(tx, sourceLessonID)
	if err != nil {
		return fmt.Errorf("failed to load source pages: %w", err)
	}

	for _, sourcePage := range sourcePages {
		newPage := &models.LessonPage{
			ID:        uuid.New(),
			LessonID:  targetLessonID,
			Title:     sourcePage.Title,
			PageType:  sourcePage.PageType,
			SortOrder: sourcePage.SortOrder,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.pageRepo.Create(tx, newPage); err != nil {
			return fmt.Errorf("failed to copy page %s: %w", sourcePage.ID, err)
		}

		if err := s.clonePageContent(tx, sourcePage.ID, newPage.ID, sourcePage.PageType, now); err != nil {
			return err
		}
	}
	return nil
}

// clonePageContent копирует содержимое страницы в зависимости от её типа
func (s *CloneService) clonePageContent(tx *gorm.DB, sourcePageID, targetPageID uuid.UUID, pageType models.PageType, now time.Time) error {
	switch pageType {
	case models.PageTypeTheory:
		return s.cloneMethodicalContent(tx, sourcePageID, targetPageID, now)
	case models.PageTypeTest, models.PageTypeCodeTask:
		return s.cloneQuestions(tx, sourcePageID, targetPageID, now)
	}
	return nil
}

func (s *CloneService) cloneMethodicalContent(tx *gorm.DB, sourcePageID, targetPageID uuid.UUID, now time.Time) error {
	source, err := s.contentRepo.GetByPageID(tx, sourcePageID)
	if err != nil {
		// Страница THEORY без материала допустима, копировать нечего
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load methodical content: %w", err)
	}

	newContent := &models.MethodicalPageContent{
		PageID:           targetPageID,
		Markdown:         source.Markdown,
		ExternalVideoURL: source.ExternalVideoURL,
		UpdatedAt:        now,
	}
	if err := s.contentRepo.Save(tx, newContent); err != nil {
		return fmt.Errorf("failed to copy methodical content: %w", err)
	}
	return nil
}

func (s *CloneService) cloneQuestions(tx *gorm.DB, sourcePageID, targetPageID uuid.UUID, now time.Time) error {
	sourceQuestions, err := s.questionRepo.GetByPageID(tx, sourcePageID)
	if err != nil {
		return fmt.Errorf("failed to load source questions: %w", err)
	}

	for _, sourceQ := range sourceQuestions {
		newQ := &models.Question{
			ID:            uuid.New(),
			PageID:        targetPageID,
			Type:          sourceQ.Type,
			Text:          sourceQ.Text,
			CorrectAnswer: sourceQ.CorrectAnswer,
			UseAiCheck:    sourceQ.UseAiCheck,
			Points:        sourceQ.Points,
			SortOrder:     sourceQ.SortOrder,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.questionRepo.Create(tx, newQ); err != nil {
			return fmt.Errorf("failed to copy question %s: %w", sourceQ.ID, err)
		}

		if err := s.cloneQuestionOptions(tx, sourceQ.ID, newQ.ID); err != nil {
			return err
		}

		// Тест-кейсы есть только у вопросов типа CODE
		if sourceQ.Type == models.QuestionTypeCode {
			if err := s.cloneQuestionTestCases(tx, sourceQ.ID, newQ.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CloneService) cloneQuestionOptions(tx *gorm.DB, sourceQuestionID, targetQuestionID uuid.UUID) error {
	options, err := s.optionRepo.GetByQuestionID(tx, sourceQuestionID)
	if err != nil {
		return fmt.Errorf("failed to load question options: %w", err)
	}

	for _, source := range options {
		newOption := &models.QuestionOption{
			ID:         uuid.New(),
			QuestionID: targetQuestionID,
			Label:      source.Label,
			Correct:    source.Correct,
			SortOrder:  source.SortOrder,
		}
		if err := s.optionRepo.Create(tx, newOption); err != nil {
			return fmt.Errorf("failed to copy question option %s: %w", source.ID, err)
		}
	}
	return nil
}

func (s *CloneService) cloneQuestionTestCases(tx *gorm.DB, sourceQuestionID, targetQuestionID uuid.UUID) error {
	testCases, err := s.testCaseRepo.GetByQuestionID(tx, sourceQuestionID)
	if err != nil {
		return fmt.Errorf("failed to load question test cases: %w", err)
	}

	for _, source := range testCases {
		newCase := &models.QuestionTestCase{
			ID:             uuid.New(),
			QuestionID:     targetQuestionID,
			InputData:      source.InputData,
			ExpectedOutput: source.ExpectedOutput,
			TimeoutMs:      source.TimeoutMs,
			MemoryLimitMb:  source.MemoryLimitMb,
		}
		if err := s.testCaseRepo.Create(tx, newCase); err != nil {
			return fmt.Errorf("failed to copy question test case %s: %w", source.ID, err)
		}
	}
	return nil
}
