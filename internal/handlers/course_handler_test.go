package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/internal/services"
	"github.com/offer-hunt/oh-course/pkg/database"
	"github.com/offer-hunt/oh-course/pkg/logger"
	"github.com/offer-hunt/oh-course/pkg/storage"
)

// handlerEnv поднимает роутер с реальными сервисами поверх in-memory базы
// и временного каталога обложек
type handlerEnv struct {
	router     *gin.Engine
	courseRepo repository.CourseRepository
	memberRepo repository.CourseMemberRepository
	coversDir  string
}

// identityHeader имитирует авторизацию: идентификатор пользователя берется
// из заголовка X-Test-User
func identityHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	courseRepo := repository.NewCourseRepository(db)
	memberRepo := repository.NewCourseMemberRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	pageRepo := repository.NewLessonPageRepository(db)
	contentRepo := repository.NewMethodicalContentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	optionRepo := repository.NewQuestionOptionRepository(db)
	testCaseRepo := repository.NewQuestionTestCaseRepository(db)
	versionRepo := repository.NewContentVersionRepository(db)

	log := logger.NewNop()
	cloneService := services.NewCloneService(
		lessonRepo, pageRepo, contentRepo, questionRepo, optionRepo, testCaseRepo, log)
	courseService := services.NewCourseService(
		db, courseRepo, lessonRepo, pageRepo, contentRepo,
		questionRepo, optionRepo, testCaseRepo,
		memberRepo, versionRepo, cloneService, nil, log)

	coversDir := t.TempDir()
	coverStorage, err := storage.NewCoverStorage(coversDir, "/static", 2*1024*1024)
	if err != nil {
		t.Fatalf("failed to create cover storage: %v", err)
	}

	courseHandler := NewCourseHandler(courseService, coverStorage)

	router := gin.New()
	api := router.Group("/api", identityHeader())
	api.POST("/courses/:id/cover", courseHandler.UploadCover)
	api.POST("/courses/:id/members", courseHandler.AddMember)
	api.DELETE("/courses/:id", courseHandler.DeleteCourse)

	return &handlerEnv{
		router:     router,
		courseRepo: courseRepo,
		memberRepo: memberRepo,
		coversDir:  coversDir,
	}
}

func (env *handlerEnv) seedCourse(t *testing.T, authorID uuid.UUID) *models.Course {
	t.Helper()

	now := time.Now()
	course := &models.Course{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Title:      "Курс по программированию",
		Slug:       "course-" + uuid.NewString(),
		Status:     models.CourseStatusDraft,
		AccessType: models.AccessTypePublic,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
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

// coverUploadRequest собирает multipart-запрос с маленьким валидным PNG
func coverUploadRequest(t *testing.T, courseID uuid.UUID, userID uuid.UUID) *http.Request {
	t.Helper()

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "cover.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(img.Bytes()); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/courses/"+courseID.String()+"/cover", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Test-User", userID.String())
	return req
}

// countFiles считает обычные файлы в каталоге обложек
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk covers dir: %v", err)
	}
	return count
}

func TestUploadCoverChecksAccessBeforeSavingFile(t *testing.T) {
	env := newHandlerEnv(t)
	authorID := uuid.New()
	strangerID := uuid.New()
	course := env.seedCourse(t, authorID)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, coverUploadRequest(t, course.ID, strangerID))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body: %s", rec.Code, rec.Body.String())
	}
	// Отказ в правах не должен оставлять файлов на диске
	if n := countFiles(t, env.coversDir); n != 0 {
		t.Errorf("covers dir has %d files after forbidden upload, want 0", n)
	}

	stored, err := env.courseRepo.GetByID(nil, course.ID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if stored.CoverURL != "" {
		t.Errorf("coverURL = %q, want empty", stored.CoverURL)
	}
}

func TestUploadCoverByAuthor(t *testing.T) {
	env := newHandlerEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, coverUploadRequest(t, course.ID, authorID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if n := countFiles(t, env.coversDir); n != 1 {
		t.Errorf("covers dir has %d files, want 1", n)
	}

	stored, err := env.courseRepo.GetByID(nil, course.ID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if stored.CoverURL == "" {
		t.Errorf("coverURL should be set after upload")
	}
}

func TestDeleteCourseRemovesCoverFiles(t *testing.T) {
	env := newHandlerEnv(t)
	authorID := uuid.New()
	course := env.seedCourse(t, authorID)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, coverUploadRequest(t, course.ID, authorID))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/courses/"+course.ID.String(), nil)
	req.Header.Set("X-Test-User", authorID.String())
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if n := countFiles(t, env.coversDir); n != 0 {
		t.Errorf("covers dir has %d files after course deletion, want 0", n)
	}
}

func TestAddMemberEndpoint(t *testing.T) {
	env := newHandlerEnv(t)
	authorID := uuid.New()
	adminID := uuid.New()
	course := env.seedCourse(t, authorID)

	payload, _ := json.Marshal(gin.H{"user_id": adminID, "role": "ADMIN"})
	req := httptest.NewRequest(http.MethodPost, "/api/courses/"+course.ID.String()+"/members", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", authorID.String())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	exists, err := env.memberRepo.Exists(nil, course.ID, adminID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Errorf("member should be stored")
	}
}
