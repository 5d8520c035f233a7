package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/offer-hunt/oh-course/internal/apperrors"
	"github.com/offer-hunt/oh-course/internal/services"
)

// AuthMiddleware создает middleware для авторизации
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем токен из заголовка Authorization или cookie
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			if cookie, err := c.Cookie("jwt"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			c.Abort()
			return
		}

		c.Set("user_id", userID) // uuid.UUID
		c.Next()
	}
}

// GuestMiddleware создает middleware для гостевого доступа: токен
// необязателен, но если он есть и валиден - пользователь в контексте
func GuestMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			c.Next()
			return
		}

		userID, err := authService.ValidateToken(tokenParts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// currentUserID достает идентификатор пользователя из контекста запроса
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok
}

// parseIDParam парсит uuid из параметра пути
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
