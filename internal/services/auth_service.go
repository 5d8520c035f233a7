package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService извлекает идентификатор действующего пользователя из JWT.
// Каталог пользователей и выдача ролей живут в отдельном сервисе платформы,
// здесь токен только проверяется.
type AuthService struct {
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// ValidateToken валидирует JWT токен и возвращает ID пользователя
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return uuid.Nil, fmt.Errorf("invalid token claims")
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user ID in token: %w", err)
		}

		return userID, nil
	}

	return uuid.Nil, fmt.Errorf("invalid token")
}

// GenerateToken выпускает токен для пользователя. Используется в локальной
// разработке и тестах, в проде токены выдает сервис аутентификации.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(s.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
