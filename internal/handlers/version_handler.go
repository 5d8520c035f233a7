package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offer-hunt/oh-course/internal/services"
)

// VersionHandler представляет обработчик версий контента.
// Обслуживает обе области: версии курса и версии урока.
type VersionHandler struct {
	versionService *services.VersionService
}

// NewVersionHandler создает новый обработчик версий
func NewVersionHandler(versionService *services.VersionService) *VersionHandler {
	return &VersionHandler{
		versionService: versionService,
	}
}

type saveVersionRequest struct {
	Comment string `json:"comment"`
}

// SaveCourseVersion сохраняет снимок полей курса
func (h *VersionHandler) SaveCourseVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req saveVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.SaveCourseVersion(courseID, userID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

// ListCourseVersions возвращает историю версий курса, новые сверху
func (h *VersionHandler) ListCourseVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.ListCourseVersions(courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

// GetCourseVersion возвращает версию курса вместе с содержимым снимка
func (h *VersionHandler) GetCourseVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseIDParam(c, "versionId")
	if !ok {
		return
	}

	version, err := h.versionService.GetCourseVersion(courseID, versionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}

// RestoreCourseVersion применяет снимок обратно к курсу
func (h *VersionHandler) RestoreCourseVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseIDParam(c, "versionId")
	if !ok {
		return
	}

	if err := h.versionService.RestoreCourseVersion(courseID, versionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "RESTORED"})
}

// SaveLessonVersion сохраняет снимок полей урока
func (h *VersionHandler) SaveLessonVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req saveVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionService.SaveLessonVersion(lessonID, userID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

// ListLessonVersions возвращает историю версий урока, новые сверху
func (h *VersionHandler) ListLessonVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.ListLessonVersions(lessonID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

// GetLessonVersion возвращает версию урока вместе с содержимым снимка
func (h *VersionHandler) GetLessonVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseIDParam(c, "versionId")
	if !ok {
		return
	}

	version, err := h.versionService.GetLessonVersion(lessonID, versionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}

// RestoreLessonVersion применяет снимок обратно к уроку
func (h *VersionHandler) RestoreLessonVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseIDParam(c, "versionId")
	if !ok {
		return
	}

	if err := h.versionService.RestoreLessonVersion(lessonID, versionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "RESTORED"})
}
