package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/offer-hunt/oh-course/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase открывает подключение. При заданном databaseURL используется
// PostgreSQL, иначе - локальный файл SQLite.
func NewDatabase(databaseURL, dbPath string) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormCfg)
	} else {
		// Создаем директорию для базы данных если она не существует
		if mkErr := os.MkdirAll(filepath.Dir(dbPath), 0755); mkErr != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", mkErr)
		}
		db, err = gorm.Open(sqlite.Open(dbPath), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Автомиграция моделей
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Migrate мигрирует все модели на переданном подключении
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Course{},
		&models.CourseMember{},
		&models.Lesson{},
		&models.LessonPage{},
		&models.MethodicalPageContent{},
		&models.Question{},
		&models.QuestionOption{},
		&models.QuestionTestCase{},
		&models.ContentVersion{},
	)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
