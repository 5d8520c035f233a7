package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string
	Mode string

	// Database
	DatabaseURL string
	DBPath      string

	// File Storage
	UploadPath    string
	PublicBaseURL string
	MaxCoverSize  int64

	// Security
	JWTSecret     string
	JWTExpiration time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:          getEnv("PORT", "8080"),
		Host:          getEnv("HOST", "0.0.0.0"),
		Mode:          getEnv("APP_MODE", "dev"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBPath:        getEnv("DB_PATH", "/tmp/oh-course.db"),
		UploadPath:    getEnv("UPLOAD_PATH", "/tmp/oh-course-uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080/static"),
		JWTSecret:     getEnv("JWT_SECRET", "oh_course_secret_key"),
		JWTExpiration: 24 * time.Hour,
	}

	if maxCoverSize, err := strconv.ParseInt(getEnv("MAX_COVER_SIZE", "2097152"), 10, 64); err == nil {
		config.MaxCoverSize = maxCoverSize
	} else {
		config.MaxCoverSize = 2 * 1024 * 1024 // 2MB по умолчанию
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
