package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/pkg/database"
	"github.com/offer-hunt/oh-course/pkg/logger"
)

// testEnv собирает репозитории и сервисы поверх чистой in-memory базы
type testEnv struct {
	db *gorm.DB

	courseRepo   repository.CourseRepository
	memberRepo   repository.CourseMemberRepository
	lessonRepo   repository.LessonRepository
	pageRepo     repository.LessonPageRepository
	contentRepo  repository.MethodicalContentRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.QuestionOptionRepository
	testCaseRepo repository.QuestionTestCaseRepository
	versionRepo  repository.ContentVersionRepository

	cloneService   *CloneService
	courseService  *CourseService
	lessonService  *LessonService
	versionService *VersionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Именованная in-memory база: у каждого теста своя, но все соединения
	// пула gorm видят одни и те же данные
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{db: db}
	env.courseRepo = repository.NewCourseRepository(db)
	env.memberRepo = repository.NewCourseMemberRepository(db)
	env.lessonRepo = repository.NewLessonRepository(db)
	env.pageRepo = repository.NewLessonPageRepository(db)
	env.contentRepo = repository.NewMethodicalContentRepository(db)
	env.questionRepo = repository.NewQuestionRepository(db)
	env.optionRepo = repository.NewQuestionOptionRepository(db)
	env.testCaseRepo = repository.NewQuestionTestCaseRepository(db)
	env.versionRepo = repository.NewContentVersionRepository(db)

	log := logger.NewNop()
	env.cloneService = NewCloneService(
		env.lessonRepo, env.pageRepo, env.contentRepo,
		env.questionRepo, env.optionRepo, env.testCaseRepo, log)
	env.courseService = NewCourseService(
		db, env.courseRepo, env.lessonRepo, env.pageRepo, env.contentRepo,
		env.questionRepo, env.optionRepo, env.testCaseRepo,
		env.memberRepo, env.versionRepo, env.cloneService, nil, log)
	env.lessonService = NewLessonService(
		db, env.courseRepo, env.lessonRepo, env.pageRepo, env.contentRepo,
		env.questionRepo, env.optionRepo, env.testCaseRepo, env.memberRepo, log)
	env.versionService = NewVersionService(
		env.courseRepo, env.lessonRepo, env.memberRepo, env.versionRepo, log)

	return env
}

// seedCourse создает курс с владельцем-автором
func (env *testEnv) seedCourse(t *testing.T, authorID uuid.UUID, status models.CourseStatus) *models.Course {
	t.Helper()

	now := time.Now()
	course := &models.Course{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       "Курс по программированию",
		Slug:        "course-" + uuid.NewString(),
		Description: "Описание тестового курса",
		CoverURL:    "/static/covers/test/cover.jpg",
		Language:    "ru",
		Level:       "BEGINNER",
		Status:      status,
		AccessType:  models.AccessTypePublic,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.CourseStatusPublished {
		course.PublishedAt = &now
	}
	if err := env.courseRepo.Create(nil, course); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}

	member := &models.CourseMember{
		CourseID: course.ID,
		UserID:   authorID,
		Role:     models.MemberRoleOwner,
		AddedBy:  authorID,
		AddedAt:  now,
	}
	if err := env.memberRepo.Create(nil, member); err != nil {
		t.Fatalf("failed to seed course member: %v", err)
	}

	return course
}

// seedMember добавляет участника курса с заданной ролью
func (env *testEnv) seedMember(t *testing.T, courseID, userID uuid.UUID, role models.MemberRole) {
	t.Helper()

	member := &models.CourseMember{
		CourseID: courseID,
		UserID:   userID,
		Role:     role,
		AddedBy:  userID,
		AddedAt:  time.Now(),
	}
	if err := env.memberRepo.Create(nil, member); err != nil {
		t.Fatalf("failed to seed course member: %v", err)
	}
}

func (env *testEnv) seedLesson(t *testing.T, courseID uuid.UUID, title string, orderIndex int) *models.Lesson {
	t.Helper()

	now := time.Now()
	lesson := &models.Lesson{
		ID:         uuid.New(),
		CourseID:   courseID,
		Title:      title,
		OrderIndex: orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := env.lessonRepo.Create(nil, lesson); err != nil {
		t.Fatalf("failed to seed lesson: %v", err)
	}
	return lesson
}

func (env *testEnv) seedPage(t *testing.T, lessonID uuid.UUID, pageType models.PageType, sortOrder int) *models.LessonPage {
	t.Helper()

	now := time.Now()
	page := &models.LessonPage{
		ID:        uuid.New(),
		LessonID:  lessonID,
		Title:     "Страница " + string(pageType),
		PageType:  pageType,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := env.pageRepo.Create(nil, page); err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return page
}

func (env *testEnv) seedQuestion(t *testing.T, pageID uuid.UUID, qType models.QuestionType, sortOrder int) *models.Question {
	t.Helper()

	now := time.Now()
	question := &models.Question{
		ID:        uuid.New(),
		PageID:    pageID,
		Type:      qType,
		Text:      "Вопрос " + string(qType),
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := env.questionRepo.Create(nil, question); err != nil {
		t.Fatalf("failed to seed question: %v", err)
	}
	return question
}
