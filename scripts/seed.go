package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/pkg/database"
)

func main() {
	// Подключаемся к базе данных
	db, err := gorm.Open(sqlite.Open("test.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	authorID := uuid.New()
	now := time.Now()

	// Демо-курс с одним уроком каждого типа страниц
	course := models.Course{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       "Алгоритмы и структуры данных",
		Slug:        "algorithms-and-data-structures",
		Description: "Базовый курс по алгоритмам: сложность, сортировки, деревья и графы.",
		CoverURL:    "/static/covers/demo/cover.jpg",
		Language:    "ru",
		Level:       "BEGINNER",
		Status:      models.CourseStatusDraft,
		AccessType:  models.AccessTypePublic,
		Version:     1,
		Tags:        datatypes.JSON(`["алгоритмы","go"]`),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&course).Error; err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}

	member := models.CourseMember{
		CourseID: course.ID,
		UserID:   authorID,
		Role:     models.MemberRoleOwner,
		AddedBy:  authorID,
		AddedAt:  now,
	}
	if err := db.Create(&member).Error; err != nil {
		log.Fatalf("Failed to create course member: %v", err)
	}

	lesson := models.Lesson{
		ID:          uuid.New(),
		CourseID:    course.ID,
		Title:       "Введение в сложность алгоритмов",
		Description: "O-нотация и базовые оценки времени работы",
		OrderIndex:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&lesson).Error; err != nil {
		log.Fatalf("Failed to create lesson: %v", err)
	}

	theoryPage := models.LessonPage{
		ID:        uuid.New(),
		LessonID:  lesson.ID,
		Title:     "Что такое O-нотация",
		PageType:  models.PageTypeTheory,
		SortOrder: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	testPage := models.LessonPage{
		ID:        uuid.New(),
		LessonID:  lesson.ID,
		Title:     "Проверка знаний",
		PageType:  models.PageTypeTest,
		SortOrder: 2,
		CreatedAt: now,
		UpdatedAt: now,
	}
	codePage := models.LessonPage{
		ID:        uuid.New(),
		LessonID:  lesson.ID,
		Title:     "Практика: линейный поиск",
		PageType:  models.PageTypeCodeTask,
		SortOrder: 3,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, page := range []models.LessonPage{theoryPage, testPage, codePage} {
		if err := db.Create(&page).Error; err != nil {
			log.Fatalf("Failed to create page: %v", err)
		}
	}

	content := models.MethodicalPageContent{
		PageID:    theoryPage.ID,
		Markdown:  "# O-нотация\n\nO-нотация описывает рост времени работы алгоритма...",
		UpdatedAt: now,
	}
	if err := db.Create(&content).Error; err != nil {
		log.Fatalf("Failed to create methodical content: %v", err)
	}

	choiceQuestion := models.Question{
		ID:        uuid.New(),
		PageID:    testPage.ID,
		Type:      models.QuestionTypeSingleChoice,
		Text:      "Какова сложность бинарного поиска?",
		SortOrder: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&choiceQuestion).Error; err != nil {
		log.Fatalf("Failed to create question: %v", err)
	}
	options := []models.QuestionOption{
		{ID: uuid.New(), QuestionID: choiceQuestion.ID, Label: "O(n)", Correct: false, SortOrder: 1},
		{ID: uuid.New(), QuestionID: choiceQuestion.ID, Label: "O(log n)", Correct: true, SortOrder: 2},
		{ID: uuid.New(), QuestionID: choiceQuestion.ID, Label: "O(n log n)", Correct: false, SortOrder: 3},
	}
	for _, opt := range options {
		if err := db.Create(&opt).Error; err != nil {
			log.Fatalf("Failed to create option: %v", err)
		}
	}

	timeout := 2000
	codeQuestion := models.Question{
		ID:        uuid.New(),
		PageID:    codePage.ID,
		Type:      models.QuestionTypeCode,
		Text:      "Реализуйте линейный поиск элемента в срезе",
		SortOrder: 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&codeQuestion).Error; err != nil {
		log.Fatalf("Failed to create code question: %v", err)
	}
	testCases := []models.QuestionTestCase{
		{ID: uuid.New(), QuestionID: codeQuestion.ID, InputData: "1 2 3\n2", ExpectedOutput: "1", TimeoutMs: &timeout},
		{ID: uuid.New(), QuestionID: codeQuestion.ID, InputData: "5 7 9\n4", ExpectedOutput: "-1", TimeoutMs: &timeout},
	}
	for _, tc := range testCases {
		if err := db.Create(&tc).Error; err != nil {
			log.Fatalf("Failed to create test case: %v", err)
		}
	}

	fmt.Println("Seed data created:")
	fmt.Printf("  author:  %s\n", authorID)
	fmt.Printf("  course:  %s (%s)\n", course.ID, course.Slug)
	fmt.Printf("  lesson:  %s\n", lesson.ID)
}
