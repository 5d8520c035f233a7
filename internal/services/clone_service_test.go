package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/offer-hunt/oh-course/internal/models"
)

// buildSourceTree наполняет курс деревом: два урока, страницы всех типов,
// вопросы с вариантами и тест-кейсами
func buildSourceTree(t *testing.T, env *testEnv, courseID uuid.UUID) {
	t.Helper()
	now := time.Now()

	lesson1 := env.seedLesson(t, courseID, "Урок 1", 1)
	lesson2 := env.seedLesson(t, courseID, "Урок 2", 2)

	theory := env.seedPage(t, lesson1.ID, models.PageTypeTheory, 1)
	test := env.seedPage(t, lesson1.ID, models.PageTypeTest, 2)
	code := env.seedPage(t, lesson2.ID, models.PageTypeCodeTask, 1)

	content := &models.MethodicalPageContent{
		PageID:           theory.ID,
		Markdown:         "# Теория",
		ExternalVideoURL: "https://example.com/video",
		UpdatedAt:        now,
	}
	if err := env.contentRepo.Save(nil, content); err != nil {
		t.Fatalf("seed methodical content: %v", err)
	}

	choiceQ := env.seedQuestion(t, test.ID, models.QuestionTypeSingleChoice, 1)
	for i, label := range []string{"Вариант 1", "Вариант 2"} {
		option := &models.QuestionOption{
			ID:         uuid.New(),
			QuestionID: choiceQ.ID,
			Label:      label,
			Correct:    i == 0,
			SortOrder:  i + 1,
		}
		if err := env.optionRepo.Create(nil, option); err != nil {
			t.Fatalf("seed option: %v", err)
		}
	}

	codeQ := env.seedQuestion(t, code.ID, models.QuestionTypeCode, 1)
	timeout := 1000
	testCase := &models.QuestionTestCase{
		ID:             uuid.New(),
		QuestionID:     codeQ.ID,
		InputData:      "1 2",
		ExpectedOutput: "3",
		TimeoutMs:      &timeout,
	}
	if err := env.testCaseRepo.Create(nil, testCase); err != nil {
		t.Fatalf("seed test case: %v", err)
	}
}

func TestCloneCourseStructure(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	source := env.seedCourse(t, authorID, models.CourseStatusPublished)
	target := env.seedCourse(t, authorID, models.CourseStatusDraft)
	buildSourceTree(t, env, source.ID)

	if err := env.cloneService.CloneCourseStructure(nil, source.ID, target.ID); err != nil {
		t.Fatalf("CloneCourseStructure: %v", err)
	}

	sourceLessons, _ := env.lessonRepo.GetByCourseID(nil, source.ID)
	targetLessons, err := env.lessonRepo.GetByCourseID(nil, target.ID)
	if err != nil {
		t.Fatalf("load target lessons: %v", err)
	}
	if len(targetLessons) != len(sourceLessons) {
		t.Fatalf("cloned %d lessons, want %d", len(targetLessons), len(sourceLessons))
	}

	// Ни один ID источника не должен встретиться в копии
	sourceIDs := map[uuid.UUID]bool{}
	for _, l := range sourceLessons {
		sourceIDs[l.ID] = true
	}
	for i, l := range targetLessons {
		if sourceIDs[l.ID] {
			t.Errorf("cloned lesson reuses source id %s", l.ID)
		}
		if l.CourseID != target.ID {
			t.Errorf("cloned lesson points at course %s, want %s", l.CourseID, target.ID)
		}
		if l.Title != sourceLessons[i].Title || l.OrderIndex != sourceLessons[i].OrderIndex {
			t.Errorf("cloned lesson %d lost attributes", i)
		}
	}

	// Страницы первого урока: THEORY + TEST в исходном порядке
	targetPages, err := env.pageRepo.GetByLessonID(nil, targetLessons[0].ID)
	if err != nil {
		t.Fatalf("load target pages: %v", err)
	}
	if len(targetPages) != 2 {
		t.Fatalf("cloned %d pages for first lesson, want 2", len(targetPages))
	}
	if targetPages[0].PageType != models.PageTypeTheory || targetPages[1].PageType != models.PageTypeTest {
		t.Errorf("page types/order not preserved: %s, %s", targetPages[0].PageType, targetPages[1].PageType)
	}

	// Методический материал скопирован под новым pageId
	content, err := env.contentRepo.GetByPageID(nil, targetPages[0].ID)
	if err != nil {
		t.Fatalf("load cloned methodical content: %v", err)
	}
	if content.Markdown != "# Теория" || content.ExternalVideoURL != "https://example.com/video" {
		t.Errorf("methodical content not copied verbatim")
	}

	// Вопрос с вариантами
	questions, err := env.questionRepo.GetByPageID(nil, targetPages[1].ID)
	if err != nil {
		t.Fatalf("load cloned questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("cloned %d questions, want 1", len(questions))
	}
	options, err := env.optionRepo.GetByQuestionID(nil, questions[0].ID)
	if err != nil {
		t.Fatalf("load cloned options: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("cloned %d options, want 2", len(options))
	}
	if !options[0].Correct || options[1].Correct {
		t.Errorf("option correctness flags not preserved")
	}
}

func TestCloneCopiesTestCasesOnlyForCodeQuestions(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	source := env.seedCourse(t, authorID, models.CourseStatusPublished)
	target := env.seedCourse(t, authorID, models.CourseStatusDraft)

	lesson := env.seedLesson(t, source.ID, "Урок", 1)
	page := env.seedPage(t, lesson.ID, models.PageTypeCodeTask, 1)

	codeQ := env.seedQuestion(t, page.ID, models.QuestionTypeCode, 1)
	textQ := env.seedQuestion(t, page.ID, models.QuestionTypeTextInput, 2)

	// Тест-кейс у обоих вопросов: у TEXT_INPUT он мусорный и копироваться
	// не должен
	for _, qID := range []uuid.UUID{codeQ.ID, textQ.ID} {
		tc := &models.QuestionTestCase{
			ID:             uuid.New(),
			QuestionID:     qID,
			InputData:      "in",
			ExpectedOutput: "out",
		}
		if err := env.testCaseRepo.Create(nil, tc); err != nil {
			t.Fatalf("seed test case: %v", err)
		}
	}

	if err := env.cloneService.CloneCourseStructure(nil, source.ID, target.ID); err != nil {
		t.Fatalf("CloneCourseStructure: %v", err)
	}

	targetLessons, _ := env.lessonRepo.GetByCourseID(nil, target.ID)
	targetPages, _ := env.pageRepo.GetByLessonID(nil, targetLessons[0].ID)
	questions, err := env.questionRepo.GetByPageID(nil, targetPages[0].ID)
	if err != nil {
		t.Fatalf("load cloned questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("cloned %d questions, want 2", len(questions))
	}

	for _, q := range questions {
		cases, err := env.testCaseRepo.GetByQuestionID(nil, q.ID)
		if err != nil {
			t.Fatalf("load cloned test cases: %v", err)
		}
		switch q.Type {
		case models.QuestionTypeCode:
			if len(cases) != 1 {
				t.Errorf("CODE question should keep its test case, got %d", len(cases))
			}
		default:
			if len(cases) != 0 {
				t.Errorf("%s question should not get test cases, got %d", q.Type, len(cases))
			}
		}
	}
}

func TestCloneTheoryPageWithoutContent(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	source := env.seedCourse(t, authorID, models.CourseStatusPublished)
	target := env.seedCourse(t, authorID, models.CourseStatusDraft)

	lesson := env.seedLesson(t, source.ID, "Урок", 1)
	env.seedPage(t, lesson.ID, models.PageTypeTheory, 1)

	// Страница теории без материала не должна ломать клонирование
	if err := env.cloneService.CloneCourseStructure(nil, source.ID, target.ID); err != nil {
		t.Fatalf("CloneCourseStructure: %v", err)
	}

	targetLessons, _ := env.lessonRepo.GetByCourseID(nil, target.ID)
	targetPages, _ := env.pageRepo.GetByLessonID(nil, targetLessons[0].ID)
	if len(targetPages) != 1 {
		t.Fatalf("cloned %d pages, want 1", len(targetPages))
	}
}

func TestCloneEmptyCourse(t *testing.T) {
	env := newTestEnv(t)
	authorID := uuid.New()
	source := env.seedCourse(t, authorID, models.CourseStatusPublished)
	target := env.seedCourse(t, authorID, models.CourseStatusDraft)

	if err := env.cloneService.CloneCourseStructure(nil, source.ID, target.ID); err != nil {
		t.Fatalf("CloneCourseStructure on empty course: %v", err)
	}

	targetLessons, err := env.lessonRepo.GetByCourseID(nil, target.ID)
	if err != nil {
		t.Fatalf("load target lessons: %v", err)
	}
	if len(targetLessons) != 0 {
		t.Errorf("empty course should clone to empty course, got %d lessons", len(targetLessons))
	}
}
