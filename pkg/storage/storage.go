package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Максимальная ширина обложки. Всё что шире - уменьшается с сохранением пропорций.
const coverMaxWidth = 1280

// CoverStorage хранит обложки курсов на диске
type CoverStorage struct {
	basePath    string
	publicBase  string
	maxFileSize int64
}

// NewCoverStorage создает хранилище обложек
func NewCoverStorage(basePath, publicBase string, maxFileSize int64) (*CoverStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &CoverStorage{
		basePath:    basePath,
		publicBase:  strings.TrimRight(publicBase, "/"),
		maxFileSize: maxFileSize,
	}, nil
}

// SaveCover сохраняет загруженную обложку курса и возвращает её публичный URL.
// Принимаются только JPG и PNG не больше maxFileSize.
func (s *CoverStorage) SaveCover(file *multipart.FileHeader, courseID uuid.UUID) (string, error) {
	if file.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum allowed size")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("unsupported cover format: %s", ext)
	}

	fileName := uuid.New().String() + ext
	filePath := filepath.Join(s.basePath, "covers", courseID.String(), fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cover directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	if err := s.normalizeCover(filePath); err != nil {
		return "", fmt.Errorf("failed to process cover image: %w", err)
	}

	return s.publicBase + "/covers/" + courseID.String() + "/" + fileName, nil
}

// normalizeCover уменьшает слишком широкие изображения
func (s *CoverStorage) normalizeCover(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	if img.Bounds().Dx() <= coverMaxWidth {
		return nil
	}

	resized := imaging.Resize(img, coverMaxWidth, 0, imaging.Lanczos)
	return imaging.Save(resized, filePath, imaging.JPEGQuality(85))
}

// RemoveCover удаляет один файл обложки по его публичному URL
func (s *CoverStorage) RemoveCover(coverURL string) error {
	rel := strings.TrimPrefix(coverURL, s.publicBase)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid cover url: %s", coverURL)
	}
	return os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel)))
}

// RemoveCovers удаляет все обложки курса
func (s *CoverStorage) RemoveCovers(courseID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(s.basePath, "covers", courseID.String()))
}
