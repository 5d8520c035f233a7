package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/apperrors"
	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/pkg/logger"
)

// LessonService - наполнение курса: уроки, страницы, методический
// материал и вопросы. Все операции доступны только администраторам курса.
type LessonService struct {
	db           *gorm.DB
	courseRepo   repository.CourseRepository
	lessonRepo   repository.LessonRepository
	pageRepo     repository.LessonPageRepository
	contentRepo  repository.MethodicalContentRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.QuestionOptionRepository
	testCaseRepo repository.QuestionTestCaseRepository
	memberRepo   repository.CourseMemberRepository
	log          *logger.Logger
}

func NewLessonService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	pageRepo repository.LessonPageRepository,
	contentRepo repository.MethodicalContentRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.QuestionOptionRepository,
	testCaseRepo repository.QuestionTestCaseRepository,
	memberRepo repository.CourseMemberRepository,
	log *logger.Logger,
) *LessonService {
	return &LessonService{
		db:           db,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		pageRepo:     pageRepo,
		contentRepo:  contentRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		testCaseRepo: testCaseRepo,
		memberRepo:   memberRepo,
		log:          log.With("service", "LessonService"),
	}
}

// CreateLessonRequest представляет запрос на создание урока
type CreateLessonRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMin *int   `json:"duration_min"`
	IsDemo      bool   `json:"is_demo"`
}

// CreateLesson создает урок в конце курса: orderIndex = максимум + 1
func (s *LessonService) CreateLesson(courseID, userID uuid.UUID, req *CreateLessonRequest) (*models.Lesson, error) {
	if err := s.ensureCourseEditable(courseID, userID); err != nil {
		return nil, err
	}

	maxOrder, err := s.lessonRepo.MaxOrderIndex(nil, courseID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось создать урок. Попробуйте позже.", err)
	}

	now := time.Now()
	lesson := &models.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		OrderIndex:  maxOrder + 1,
		DurationMin: req.DurationMin,
		IsDemo:      req.IsDemo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.lessonRepo.Create(nil, lesson); err != nil {
		s.log.Error("lesson creation failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось создать урок. Попробуйте позже.", err)
	}

	s.log.Info("lesson created", "courseId", courseID, "lessonId", lesson.ID)
	return lesson, nil
}

// UpdateLessonRequest представляет запрос на обновление урока
type UpdateLessonRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DurationMin *int    `json:"duration_min"`
	IsDemo      *bool   `json:"is_demo"`
}

// UpdateLesson обновляет переданные поля урока
func (s *LessonService) UpdateLesson(lessonID, userID uuid.UUID, req *UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		lesson.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		lesson.DurationMin = req.DurationMin
	}
	if req.IsDemo != nil {
		lesson.IsDemo = *req.IsDemo
	}
	lesson.UpdatedAt = time.Now()

	if err := s.lessonRepo.Update(nil, lesson); err != nil {
		s.log.Error("lesson update failed - server error", "lessonId", lessonID, "err", err)
		return nil, apperrors.Internal("Не удалось обновить урок. Попробуйте позже.", err)
	}
	return lesson, nil
}

// GetLessons возвращает уроки курса в порядке отображения
func (s *LessonService) GetLessons(courseID, userID uuid.UUID) ([]*models.Lesson, error) {
	if err := s.ensureCourseAdmin(courseID, userID); err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.GetByCourseID(nil, courseID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось загрузить уроки.", err)
	}
	return lessons, nil
}

// CreatePageRequest представляет запрос на создание страницы урока
type CreatePageRequest struct {
	Title    string `json:"title"`
	PageType string `json:"page_type"`
}

// CreatePage создает страницу в конце урока
func (s *LessonService) CreatePage(lessonID, userID uuid.UUID, req *CreatePageRequest) (*models.LessonPage, error) {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	pageType := models.PageType(req.PageType)
	switch pageType {
	case models.PageTypeTheory, models.PageTypeTest, models.PageTypeCodeTask:
	default:
		return nil, apperrors.BadRequest("Неверный тип страницы")
	}

	maxOrder, err := s.pageRepo.MaxSortOrder(nil, lessonID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось создать страницу. Попробуйте позже.", err)
	}

	now := time.Now()
	page := &models.LessonPage{
		ID:        uuid.New(),
		LessonID:  lessonID,
		Title:     strings.TrimSpace(req.Title),
		PageType:  pageType,
		SortOrder: maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.pageRepo.Create(nil, page); err != nil {
		s.log.Error("page creation failed - server error", "lessonId", lessonID, "err", err)
		return nil, apperrors.Internal("Не удалось создать страницу. Попробуйте позже.", err)
	}

	s.log.Info("page created", "lessonId", lessonID, "pageId", page.ID, "pageType", pageType)
	return page, nil
}

// UpdatePageRequest представляет запрос на обновление страницы
type UpdatePageRequest struct {
	Title *string `json:"title"`
}

// UpdatePage обновляет переданные поля страницы. Тип страницы после
// создания не меняется.
func (s *LessonService) UpdatePage(pageID, userID uuid.UUID, req *UpdatePageRequest) (*models.LessonPage, error) {
	page, err := s.getPage(pageID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.getLesson(page.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = strings.TrimSpace(*req.Title)
	}
	page.UpdatedAt = time.Now()

	if err := s.pageRepo.Update(nil, page); err != nil {
		s.log.Error("page update failed - server error", "pageId", pageID, "err", err)
		return nil, apperrors.Internal("Не удалось обновить страницу. Попробуйте позже.", err)
	}
	return page, nil
}

// SaveMethodicalContent сохраняет методический материал страницы THEORY.
// Повторный вызов перезаписывает содержимое.
func (s *LessonService) SaveMethodicalContent(pageID, userID uuid.UUID, markdown, externalVideoURL string) (*models.MethodicalPageContent, error) {
	page, err := s.getPage(pageID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.getLesson(page.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	if page.PageType != models.PageTypeTheory {
		return nil, apperrors.BadRequest("Методический материал доступен только для страниц теории")
	}

	content := &models.MethodicalPageContent{
		PageID:           pageID,
		Markdown:         markdown,
		ExternalVideoURL: externalVideoURL,
		UpdatedAt:        time.Now(),
	}
	if err := s.contentRepo.Save(nil, content); err != nil {
		s.log.Error("methodical content save failed - server error", "pageId", pageID, "err", err)
		return nil, apperrors.Internal("Не удалось сохранить материал. Попробуйте позже.", err)
	}
	return content, nil
}

// CreateQuestionRequest представляет запрос на создание вопроса вместе
// с вариантами ответа и тест-кейсами
type CreateQuestionRequest struct {
	Type          string `json:"type"`
	Text          string `json:"text"`
	CorrectAnswer string `json:"correct_answer"`
	UseAiCheck    bool   `json:"use_ai_check"`
	Points        *int   `json:"points"`

	Options []struct {
		Label   string `json:"label"`
		Correct bool   `json:"correct"`
	} `json:"options"`

	TestCases []struct {
		InputData      string `json:"input_data"`
		ExpectedOutput string `json:"expected_output"`
		TimeoutMs      *int   `json:"timeout_ms"`
		MemoryLimitMb  *int   `json:"memory_limit_mb"`
	} `json:"test_cases"`
}

// CreateQuestion создает вопрос на странице TEST или CODE_TASK. Варианты
// ответа и тест-кейсы пишутся той же транзакцией.
func (s *LessonService) CreateQuestion(pageID, userID uuid.UUID, req *CreateQuestionRequest) (*models.Question, error) {
	page, err := s.getPage(pageID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.getLesson(page.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	if page.PageType == models.PageTypeTheory {
		return nil, apperrors.BadRequest("На странице теории нельзя создать вопрос")
	}

	questionType := models.QuestionType(req.Type)
	switch questionType {
	case models.QuestionTypeSingleChoice, models.QuestionTypeMultipleChoice,
		models.QuestionTypeTextInput, models.QuestionTypeCode:
	default:
		return nil, apperrors.BadRequest("Неверный тип вопроса")
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.BadRequest("Текст вопроса обязателен")
	}

	maxOrder, err := s.questionRepo.MaxSortOrder(nil, pageID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось создать вопрос. Попробуйте позже.", err)
	}

	now := time.Now()
	question := &models.Question{
		ID:            uuid.New(),
		PageID:        pageID,
		Type:          questionType,
		Text:          strings.TrimSpace(req.Text),
		CorrectAnswer: req.CorrectAnswer,
		UseAiCheck:    req.UseAiCheck,
		Points:        req.Points,
		SortOrder:     maxOrder + 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.questionRepo.Create(tx, question); err != nil {
			return err
		}
		for i, opt := range req.Options {
			option := &models.QuestionOption{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Label:      opt.Label,
				Correct:    opt.Correct,
				SortOrder:  i + 1,
			}
			if err := s.optionRepo.Create(tx, option); err != nil {
				return err
			}
		}
		// Тест-кейсы имеют смысл только для вопросов типа CODE
		if questionType == models.QuestionTypeCode {
			for _, tc := range req.TestCases {
				testCase := &models.QuestionTestCase{
					ID:             uuid.New(),
					QuestionID:     question.ID,
					InputData:      tc.InputData,
					ExpectedOutput: tc.ExpectedOutput,
					TimeoutMs:      tc.TimeoutMs,
					MemoryLimitMb:  tc.MemoryLimitMb,
				}
				if err := s.testCaseRepo.Create(tx, testCase); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("question creation failed - server error", "pageId", pageID, "err", err)
		return nil, apperrors.Internal("Не удалось создать вопрос. Попробуйте позже.", err)
	}

	s.log.Info("question created", "pageId", pageID, "questionId", question.ID, "type", questionType)
	return question, nil
}

// UpdateQuestionRequest представляет запрос на обновление вопроса
type UpdateQuestionRequest struct {
	Text          *string `json:"text"`
	CorrectAnswer *string `json:"correct_answer"`
	UseAiCheck    *bool   `json:"use_ai_check"`
	Points        *int    `json:"points"`
}

// UpdateQuestion обновляет переданные поля вопроса. Тип вопроса после
// создания не меняется.
func (s *LessonService) UpdateQuestion(questionID, userID uuid.UUID, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(nil, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Вопрос не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить вопрос.", err)
	}
	page, err := s.getPage(question.PageID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.getLesson(page.LessonID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourseEditable(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, apperrors.BadRequest("Текст вопроса обязателен")
		}
		question.Text = strings.TrimSpace(*req.Text)
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.UseAiCheck != nil {
		question.UseAiCheck = *req.UseAiCheck
	}
	if req.Points != nil {
		question.Points = req.Points
	}
	question.UpdatedAt = time.Now()

	if err := s.questionRepo.Update(nil, question); err != nil {
		s.log.Error("question update failed - server error", "questionId", questionID, "err", err)
		return nil, apperrors.Internal("Не удалось обновить вопрос. Попробуйте позже.", err)
	}
	return question, nil
}

// ensureCourseEditable проверяет права и что курс еще черновик.
// Опубликованный и архивный контент неизменяем, правки идут через
// создание нового черновика.
func (s *LessonService) ensureCourseEditable(courseID, userID uuid.UUID) error {
	course, err := s.courseRepo.GetByID(nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Курс не найден")
		}
		return apperrors.Internal("Не удалось загрузить курс.", err)
	}

	if err := s.ensureCourseAdmin(courseID, userID); err != nil {
		return err
	}

	if course.Status != models.CourseStatusDraft {
		return apperrors.BadRequest("Редактировать можно только черновик курса")
	}
	return nil
}

func (s *LessonService) ensureCourseAdmin(courseID, userID uuid.UUID) error {
	allowed, err := s.memberRepo.IsCourseAdmin(nil, courseID, userID)
	if err != nil {
		return apperrors.Internal("Не удалось проверить права доступа.", err)
	}
	if !allowed {
		s.log.Warn("course access forbidden", "courseId", courseID, "userId", userID)
		return apperrors.Forbidden("У вас нет прав на редактирование этого курса")
	}
	return nil
}

func (s *LessonService) getLesson(lessonID uuid.UUID) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Урок не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить урок.", err)
	}
	return lesson, nil
}

func (s *LessonService) getPage(pageID uuid.UUID) (*models.LessonPage, error) {
	page, err := s.pageRepo.GetByID(nil, pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Страница не найдена")
		}
		return nil, apperrors.Internal("Не удалось загрузить страницу.", err)
	}
	return page, nil
}
