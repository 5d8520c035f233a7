package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offer-hunt/oh-course/internal/services"
)

// LessonHandler представляет обработчик наполнения курса
type LessonHandler struct {
	lessonService *services.LessonService
}

// NewLessonHandler создает новый обработчик уроков
func NewLessonHandler(lessonService *services.LessonService) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
	}
}

// CreateLesson создает урок в курсе
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.lessonService.CreateLesson(courseID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// GetLessons возвращает уроки курса
func (h *LessonHandler) GetLessons(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lessons, err := h.lessonService.GetLessons(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// UpdateLesson обновляет урок
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.lessonService.UpdateLesson(lessonID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// CreatePage создает страницу урока
func (h *LessonHandler) CreatePage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.lessonService.CreatePage(lessonID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

// UpdatePage обновляет страницу урока
func (h *LessonHandler) UpdatePage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	pageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.lessonService.UpdatePage(pageID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SaveMethodicalContent сохраняет материал страницы теории
func (h *LessonHandler) SaveMethodicalContent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	pageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Markdown         string `json:"markdown"`
		ExternalVideoURL string `json:"external_video_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.lessonService.SaveMethodicalContent(pageID, userID, req.Markdown, req.ExternalVideoURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// CreateQuestion создает вопрос на странице
func (h *LessonHandler) CreateQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	pageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.lessonService.CreateQuestion(pageID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion обновляет вопрос
func (h *LessonHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.lessonService.UpdateQuestion(questionID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}
