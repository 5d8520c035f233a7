package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/offer-hunt/oh-course/internal/models"
)

func TestCreateLessonAppendsToEnd(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)

	first, err := env.lessonService.CreateLesson(course.ID, authorID, &CreateLessonRequest{Title: "Первый урок"})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	if first.OrderIndex != 1 {
		t.Errorf("first lesson orderIndex = %d, want 1", first.OrderIndex)
	}

	second, err := env.lessonService.CreateLesson(course.ID, authorID, &CreateLessonRequest{Title: "Второй урок"})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	if second.OrderIndex != 2 {
		t.Errorf("second lesson orderIndex = %d, want 2", second.OrderIndex)
	}
}

func TestCreateLessonOnlyInDraft(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	published := env.seedCourse(t, authorID, models.CourseStatusPublished)

	_, err := env.lessonService.CreateLesson(published.ID, authorID, &CreateLessonRequest{Title: "Урок"})
	assertAppError(t, err, http.StatusBadRequest, "Редактировать можно только черновик курса")
}

func TestCreateLessonForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, uuid.New(), models.CourseStatusDraft)

	_, err := env.lessonService.CreateLesson(course.ID, uuid.New(), &CreateLessonRequest{Title: "Урок"})
	assertAppError(t, err, http.StatusForbidden, "У вас нет прав на редактирование этого курса")
}

func TestUpdateLessonPartialFields(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Старое название", 1)

	newTitle := "Новое название"
	updated, err := env.lessonService.UpdateLesson(lesson.ID, authorID, &UpdateLessonRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateLesson: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	// Непереданные поля не трогаются
	if updated.OrderIndex != 1 {
		t.Errorf("orderIndex changed to %d", updated.OrderIndex)
	}
}

func TestCreatePage(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)

	page, err := env.lessonService.CreatePage(lesson.ID, authorID, &CreatePageRequest{
		Title:    "Теория",
		PageType: string(models.PageTypeTheory),
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.SortOrder != 1 {
		t.Errorf("sortOrder = %d, want 1", page.SortOrder)
	}

	_, err = env.lessonService.CreatePage(lesson.ID, authorID, &CreatePageRequest{
		Title:    "Что-то",
		PageType: "VIDEO",
	})
	assertAppError(t, err, http.StatusBadRequest, "Неверный тип страницы")
}

func TestSaveMethodicalContentUpserts(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)
	theory := env.seedPage(t, lesson.ID, models.PageTypeTheory, 1)
	test := env.seedPage(t, lesson.ID, models.PageTypeTest, 2)

	if _, err := env.lessonService.SaveMethodicalContent(theory.ID, authorID, "# Версия 1", ""); err != nil {
		t.Fatalf("SaveMethodicalContent: %v", err)
	}
	if _, err := env.lessonService.SaveMethodicalContent(theory.ID, authorID, "# Версия 2", "https://example.com/v"); err != nil {
		t.Fatalf("SaveMethodicalContent (overwrite): %v", err)
	}

	stored, err := env.contentRepo.GetByPageID(nil, theory.ID)
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	if stored.Markdown != "# Версия 2" {
		t.Errorf("markdown = %q, want overwritten value", stored.Markdown)
	}

	// На страницу TEST материал не сохраняется
	_, err = env.lessonService.SaveMethodicalContent(test.ID, authorID, "# Нет", "")
	assertAppError(t, err, http.StatusBadRequest, "Методический материал доступен только для страниц теории")
}

func TestCreateQuestionWithOptionsAndTestCases(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)
	testPage := env.seedPage(t, lesson.ID, models.PageTypeTest, 1)
	codePage := env.seedPage(t, lesson.ID, models.PageTypeCodeTask, 2)
	theoryPage := env.seedPage(t, lesson.ID, models.PageTypeTheory, 3)

	choiceReq := &CreateQuestionRequest{
		Type: string(models.QuestionTypeSingleChoice),
		Text: "Выберите верный ответ",
	}
	choiceReq.Options = append(choiceReq.Options, struct {
		Label   string `json:"label"`
		Correct bool   `json:"correct"`
	}{Label: "Да", Correct: true}, struct {
		Label   string `json:"label"`
		Correct bool   `json:"correct"`
	}{Label: "Нет", Correct: false})

	question, err := env.lessonService.CreateQuestion(testPage.ID, authorID, choiceReq)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	options, err := env.optionRepo.GetByQuestionID(nil, question.ID)
	if err != nil {
		t.Fatalf("load options: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options, want 2", len(options))
	}

	// CODE-вопрос с тест-кейсом
	codeReq := &CreateQuestionRequest{
		Type: string(models.QuestionTypeCode),
		Text: "Напишите функцию",
	}
	codeReq.TestCases = append(codeReq.TestCases, struct {
		InputData      string `json:"input_data"`
		ExpectedOutput string `json:"expected_output"`
		TimeoutMs      *int   `json:"timeout_ms"`
		MemoryLimitMb  *int   `json:"memory_limit_mb"`
	}{InputData: "2 2", ExpectedOutput: "4"})

	codeQ, err := env.lessonService.CreateQuestion(codePage.ID, authorID, codeReq)
	if err != nil {
		t.Fatalf("CreateQuestion (code): %v", err)
	}
	cases, err := env.testCaseRepo.GetByQuestionID(nil, codeQ.ID)
	if err != nil {
		t.Fatalf("load test cases: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("got %d test cases, want 1", len(cases))
	}

	// На странице теории вопросы не создаются
	_, err = env.lessonService.CreateQuestion(theoryPage.ID, authorID, &CreateQuestionRequest{
		Type: string(models.QuestionTypeTextInput),
		Text: "Вопрос",
	})
	assertAppError(t, err, http.StatusBadRequest, "На странице теории нельзя создать вопрос")
}

func TestCreateQuestionIgnoresTestCasesForNonCode(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)
	page := env.seedPage(t, lesson.ID, models.PageTypeTest, 1)

	req := &CreateQuestionRequest{
		Type: string(models.QuestionTypeTextInput),
		Text: "Введите ответ",
	}
	req.TestCases = append(req.TestCases, struct {
		InputData      string `json:"input_data"`
		ExpectedOutput string `json:"expected_output"`
		TimeoutMs      *int   `json:"timeout_ms"`
		MemoryLimitMb  *int   `json:"memory_limit_mb"`
	}{InputData: "in", ExpectedOutput: "out"})

	question, err := env.lessonService.CreateQuestion(page.ID, authorID, req)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	cases, err := env.testCaseRepo.GetByQuestionID(nil, question.ID)
	if err != nil {
		t.Fatalf("load test cases: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("TEXT_INPUT question should not store test cases, got %d", len(cases))
	}
}

func TestUpdatePage(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)
	page := env.seedPage(t, lesson.ID, models.PageTypeTheory, 1)

	title := "  Новое название страницы  "
	updated, err := env.lessonService.UpdatePage(page.ID, authorID, &UpdatePageRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if updated.Title != "Новое название страницы" {
		t.Errorf("title = %q, want trimmed", updated.Title)
	}
	if updated.PageType != models.PageTypeTheory {
		t.Errorf("page type must not change, got %s", updated.PageType)
	}

	stored, err := env.pageRepo.GetByID(nil, page.ID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	if stored.Title != "Новое название страницы" {
		t.Errorf("stored title = %q", stored.Title)
	}

	// Не в черновике страницы не редактируются
	published := env.seedCourse(t, authorID, models.CourseStatusPublished)
	publishedLesson := env.seedLesson(t, published.ID, "Урок", 1)
	publishedPage := env.seedPage(t, publishedLesson.ID, models.PageTypeTheory, 1)
	_, err = env.lessonService.UpdatePage(publishedPage.ID, authorID, &UpdatePageRequest{Title: &title})
	assertAppError(t, err, http.StatusBadRequest, "Редактировать можно только черновик курса")
}

func TestUpdateQuestion(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID, models.CourseStatusDraft)
	lesson := env.seedLesson(t, course.ID, "Урок", 1)
	page := env.seedPage(t, lesson.ID, models.PageTypeTest, 1)
	question := env.seedQuestion(t, page.ID, models.QuestionTypeTextInput, 1)

	text := "Что выведет программа?"
	answer := "42"
	points := 5
	updated, err := env.lessonService.UpdateQuestion(question.ID, authorID, &UpdateQuestionRequest{
		Text:          &text,
		CorrectAnswer: &answer,
		Points:        &points,
	})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Text != text {
		t.Errorf("text = %q, want %q", updated.Text, text)
	}
	if updated.CorrectAnswer != answer {
		t.Errorf("correctAnswer = %q, want %q", updated.CorrectAnswer, answer)
	}
	if updated.Points == nil || *updated.Points != points {
		t.Errorf("points not updated")
	}
	if updated.Type != models.QuestionTypeTextInput {
		t.Errorf("question type must not change, got %s", updated.Type)
	}

	stored, err := env.questionRepo.GetByID(nil, question.ID)
	if err != nil {
		t.Fatalf("reload question: %v", err)
	}
	if stored.Text != text {
		t.Errorf("stored text = %q", stored.Text)
	}

	// Пустой текст не принимается
	empty := "   "
	_, err = env.lessonService.UpdateQuestion(question.ID, authorID, &UpdateQuestionRequest{Text: &empty})
	assertAppError(t, err, http.StatusBadRequest, "Текст вопроса обязателен")

	// Посторонний пользователь не редактирует вопросы
	_, err = env.lessonService.UpdateQuestion(question.ID, uuid.New(), &UpdateQuestionRequest{Text: &text})
	assertAppError(t, err, http.StatusForbidden, "У вас нет прав на редактирование этого курса")
}
