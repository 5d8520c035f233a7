package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/offer-hunt/oh-course/internal/config"
	"github.com/offer-hunt/oh-course/internal/handlers"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/internal/services"
	"github.com/offer-hunt/oh-course/pkg/database"
	"github.com/offer-hunt/oh-course/pkg/logger"
	"github.com/offer-hunt/oh-course/pkg/storage"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализируем логгер
	appLog, err := logger.New(cfg.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		appLog.Fatal("failed to connect to database", "err", err)
	}
	defer db.Close()

	// Инициализируем хранилище обложек
	coverStorage, err := storage.NewCoverStorage(cfg.UploadPath, cfg.PublicBaseURL, cfg.MaxCoverSize)
	if err != nil {
		appLog.Fatal("failed to initialize cover storage", "err", err)
	}

	// Создаем репозитории
	courseRepo := repository.NewCourseRepository(db.DB)
	memberRepo := repository.NewCourseMemberRepository(db.DB)
	lessonRepo := repository.NewLessonRepository(db.DB)
	pageRepo := repository.NewLessonPageRepository(db.DB)
	contentRepo := repository.NewMethodicalContentRepository(db.DB)
	questionRepo := repository.NewQuestionRepository(db.DB)
	optionRepo := repository.NewQuestionOptionRepository(db.DB)
	testCaseRepo := repository.NewQuestionTestCaseRepository(db.DB)
	versionRepo := repository.NewContentVersionRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)
	cloneService := services.NewCloneService(
		lessonRepo, pageRepo, contentRepo, questionRepo, optionRepo, testCaseRepo, appLog)
	courseService := services.NewCourseService(
		db.DB, courseRepo, lessonRepo, pageRepo, contentRepo,
		questionRepo, optionRepo, testCaseRepo, memberRepo, versionRepo, cloneService, nil, appLog)
	lessonService := services.NewLessonService(
		db.DB, courseRepo, lessonRepo, pageRepo, contentRepo,
		questionRepo, optionRepo, testCaseRepo, memberRepo, appLog)
	versionService := services.NewVersionService(
		courseRepo, lessonRepo, memberRepo, versionRepo, appLog)

	// Создаем обработчики
	courseHandler := handlers.NewCourseHandler(courseService, coverStorage)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	versionHandler := handlers.NewVersionHandler(versionService)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Статика обложек
	router.Static("/static/covers", cfg.UploadPath)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API маршруты
	api := router.Group("/api")

	// Публичный каталог. Токен необязателен: администраторы курса
	// проходят к приватным курсам без кода приглашения
	api.GET("/courses/slug/:slug", handlers.GuestMiddleware(authService), courseHandler.GetCourseBySlug)

	// Защищенные маршруты (требуют авторизации)
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware(authService))
	{
		// Жизненный цикл курса
		protected.POST("/courses", courseHandler.CreateCourse)
		protected.GET("/courses/my", courseHandler.GetMyCourses)
		protected.GET("/courses/:id/preview", courseHandler.GetCoursePreview)
		protected.POST("/courses/:id/publish", courseHandler.PublishCourse)
		protected.POST("/courses/:id/archive", courseHandler.ArchiveCourse)
		protected.POST("/courses/:id/draft", courseHandler.CreateDraft)
		protected.DELETE("/courses/:id", courseHandler.DeleteCourse)
		protected.POST("/courses/:id/tags", courseHandler.AddTags)
		protected.DELETE("/courses/:id/tags/:tag", courseHandler.RemoveTag)
		protected.POST("/courses/:id/cover", courseHandler.UploadCover)
		protected.POST("/courses/:id/members", courseHandler.AddMember)

		// Наполнение курса
		protected.POST("/courses/:id/lessons", lessonHandler.CreateLesson)
		protected.GET("/courses/:id/lessons", lessonHandler.GetLessons)
		protected.PUT("/lessons/:id", lessonHandler.UpdateLesson)
		protected.POST("/lessons/:id/pages", lessonHandler.CreatePage)
		protected.PUT("/pages/:id", lessonHandler.UpdatePage)
		protected.PUT("/pages/:id/content", lessonHandler.SaveMethodicalContent)
		protected.POST("/pages/:id/questions", lessonHandler.CreateQuestion)
		protected.PUT("/questions/:id", lessonHandler.UpdateQuestion)

		// Версии курса
		protected.POST("/courses/:id/versions", versionHandler.SaveCourseVersion)
		protected.GET("/courses/:id/versions", versionHandler.ListCourseVersions)
		protected.GET("/courses/:id/versions/:versionId", versionHandler.GetCourseVersion)
		protected.POST("/courses/:id/versions/:versionId/restore", versionHandler.RestoreCourseVersion)

		// Версии урока
		protected.POST("/lessons/:id/versions", versionHandler.SaveLessonVersion)
		protected.GET("/lessons/:id/versions", versionHandler.ListLessonVersions)
		protected.GET("/lessons/:id/versions/:versionId", versionHandler.GetLessonVersion)
		protected.POST("/lessons/:id/versions/:versionId/restore", versionHandler.RestoreLessonVersion)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	appLog.Info("starting course service", "addr", addr)

	if err := router.Run(addr); err != nil {
		appLog.Fatal("failed to start server", "err", err)
	}
}
