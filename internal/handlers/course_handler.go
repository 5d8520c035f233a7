package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/services"
	"github.com/offer-hunt/oh-course/pkg/storage"
)

// CourseHandler представляет обработчик жизненного цикла курсов
type CourseHandler struct {
	courseService *services.CourseService
	coverStorage  *storage.CoverStorage
}

// NewCourseHandler создает новый обработчик курсов
func NewCourseHandler(courseService *services.CourseService, coverStorage *storage.CoverStorage) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		coverStorage:  coverStorage,
	}
}

// CreateCourse создает новый курс-черновик
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.CreateCourse(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetMyCourses возвращает курсы текущего пользователя.
// Статусы передаются через ?status=DRAFT,PUBLISHED
func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}

	var statuses []models.CourseStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, models.CourseStatus(strings.TrimSpace(s)))
		}
	}

	courses, err := h.courseService.GetMyCourses(userID, statuses)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourseBySlug возвращает опубликованный курс по адресу. Для курсов
// с доступом по ссылке код передается через ?invite_code=, администраторы
// курса с токеном проходят без кода.
func (h *CourseHandler) GetCourseBySlug(c *gin.Context) {
	userID, _ := currentUserID(c)

	course, err := h.courseService.GetPublishedCourseBySlug(c.Param("slug"), c.Query("invite_code"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCoursePreview возвращает черновик с полным деревом уроков
func (h *CourseHandler) GetCoursePreview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	preview, err := h.courseService.GetCoursePreview(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// PublishCourse публикует черновик
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.PublishCourse(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ArchiveCourse архивирует опубликованный курс
func (h *CourseHandler) ArchiveCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.ArchiveCourse(courseID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ARCHIVED"})
}

// CreateDraft создает новый черновик из опубликованного курса
func (h *CourseHandler) CreateDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	draft, err := h.courseService.CreateDraftFromPublished(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// DeleteCourse удаляет курс со всем содержимым
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(courseID, userID); err != nil {
		respondError(c, err)
		return
	}

	// Файлы обложек чистятся в лучшем случае, запись уже удалена
	_ = h.coverStorage.RemoveCovers(courseID)

	c.JSON(http.StatusOK, gin.H{"status": "DELETED"})
}

// AddTags добавляет теги курса
func (h *CourseHandler) AddTags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.AddTags(courseID, userID, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// RemoveTag удаляет тег курса
func (h *CourseHandler) RemoveTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag := c.Param("tag")
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр tag обязателен"})
		return
	}

	course, err := h.courseService.RemoveTag(courseID, userID, tag)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UploadCover загружает обложку курса
func (h *CourseHandler) UploadCover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Сначала проверка прав, файл на диск пишется только для автора
	if err := h.courseService.CheckEditAccess(courseID, userID); err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл не найден в запросе"})
		return
	}

	coverURL, err := h.coverStorage.SaveCover(file, courseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат или размер файла. Максимум 2 МБ, JPG или PNG"})
		return
	}

	course, err := h.courseService.SetCoverURL(courseID, userID, coverURL)
	if err != nil {
		// Не оставляем осиротевший файл, если запись в базу не удалась
		_ = h.coverStorage.RemoveCover(coverURL)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// AddMember добавляет соавтора курса
func (h *CourseHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
		Role   string    `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.courseService.AddCourseMember(courseID, userID, req.UserID, models.MemberRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}
