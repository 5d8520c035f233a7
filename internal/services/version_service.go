package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/apperrors"
	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/pkg/logger"
)

// VersionService сохраняет и восстанавливает версии настроек курсов и уроков.
// Версия - неизменяемая запись; восстановление переписывает поля владельца,
// не трогая его структурных детей.
type VersionService struct {
	courseRepo  repository.CourseRepository
	lessonRepo  repository.LessonRepository
	memberRepo  repository.CourseMemberRepository
	versionRepo repository.ContentVersionRepository
	log         *logger.Logger
}

// NewVersionService создает новый сервис версий
func NewVersionService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	memberRepo repository.CourseMemberRepository,
	versionRepo repository.ContentVersionRepository,
	log *logger.Logger,
) *VersionService {
	return &VersionService{
		courseRepo:  courseRepo,
		lessonRepo:  lessonRepo,
		memberRepo:  memberRepo,
		versionRepo: versionRepo,
		log:         log.With("service", "VersionService"),
	}
}

// Версии курсов

// SaveCourseVersion сохраняет снимок настроек курса
func (s *VersionService) SaveCourseVersion(courseID, userID uuid.UUID, comment string) (*models.ContentVersion, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(course.ID, userID); err != nil {
		return nil, err
	}

	payload, err := encodePayload(courseVersionPayloadFrom(course))
	if err != nil {
		s.log.Error("version save failed - payload encode error",
			"scope", models.VersionScopeCourse, "courseId", courseID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось сохранить версию.", err)
	}

	version := &models.ContentVersion{
		ID:        uuid.New(),
		Scope:     models.VersionScopeCourse,
		CourseID:  course.ID,
		CreatedBy: userID,
		CreatedAt: time.Now(),
		Comment:   normalizeComment(comment),
		Payload:   payload,
	}

	if err := s.versionRepo.Create(nil, version); err != nil {
		s.log.Error("version save failed - server error",
			"scope", models.VersionScopeCourse, "courseId", courseID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось сохранить версию.", err)
	}

	s.log.Info("version saved",
		"scope", models.VersionScopeCourse, "courseId", course.ID, "versionId", version.ID, "userId", userID)

	return version, nil
}

// ListCourseVersions возвращает версии курса, новые сверху
func (s *VersionService) ListCourseVersions(courseID, userID uuid.UUID) ([]*models.ContentVersion, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(course.ID, userID); err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.FindCourseVersions(nil, course.ID)
	if err != nil {
		s.log.Error("version list failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось получить список версий.", err)
	}
	return versions, nil
}

// GetCourseVersion возвращает версию курса вместе со снимком
func (s *VersionService) GetCourseVersion(courseID, versionID, userID uuid.UUID) (*models.ContentVersion, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(course.ID, userID); err != nil {
		return nil, err
	}

	return s.getScopedCourseVersion(course.ID, versionID)
}

// RestoreCourseVersion переписывает настройки курса из снимка.
// Уроки и прочие структурные дети не затрагиваются.
func (s *VersionService) RestoreCourseVersion(courseID, versionID, userID uuid.UUID) error {
	course, err := s.getCourse(courseID)
	if err != nil {
		return err
	}

	if err := s.ensureCourseAdmin(course.ID, userID); err != nil {
		return err
	}

	version, err := s.getScopedCourseVersion(course.ID, versionID)
	if err != nil {
		return err
	}

	var payload CourseVersionPayload
	if err := decodePayload(version.Payload, &payload); err != nil {
		s.log.Error("version restore failed - payload decode error",
			"scope", models.VersionScopeCourse, "courseId", courseID, "versionId", versionID, "err", err)
		return apperrors.Internal("Не удалось восстановить версию.", err)
	}

	payload.applyTo(course)

	if err := s.courseRepo.Update(nil, course); err != nil {
		s.log.Error("version restore failed - server error",
			"scope", models.VersionScopeCourse, "courseId", courseID, "versionId", versionID, "err", err)
		return apperrors.Internal("Не удалось восстановить версию.", err)
	}

	s.log.Info("version restored",
		"scope", models.VersionScopeCourse, "courseId", course.ID, "versionId", version.ID, "userId", userID)

	return nil
}

// Версии уроков

// SaveLessonVersion сохраняет снимок настроек урока. Права проверяются
// по курсу, которому принадлежит урок.
func (s *VersionService) SaveLessonVersion(lessonID, userID uuid.UUID, comment string) (*models.ContentVersion, error) {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	payload, err := encodePayload(lessonVersionPayloadFrom(lesson))
	if err != nil {
		s.log.Error("version save failed - payload encode error",
			"scope", models.VersionScopeLesson, "lessonId", lessonID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось сохранить версию.", err)
	}

	lessonRef := lesson.ID
	version := &models.ContentVersion{
		ID:        uuid.New(),
		Scope:     models.VersionScopeLesson,
		CourseID:  lesson.CourseID,
		LessonID:  &lessonRef,
		CreatedBy: userID,
		CreatedAt: time.Now(),
		Comment:   normalizeComment(comment),
		Payload:   payload,
	}

	if err := s.versionRepo.Create(nil, version); err != nil {
		s.log.Error("version save failed - server error",
			"scope", models.VersionScopeLesson, "lessonId", lessonID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось сохранить версию.", err)
	}

	s.log.Info("version saved",
		"scope", models.VersionScopeLesson, "courseId", lesson.CourseID,
		"lessonId", lessonID, "versionId", version.ID, "userId", userID)

	return version, nil
}

// ListLessonVersions возвращает версии урока, новые сверху
func (s *VersionService) ListLessonVersions(lessonID, userID uuid.UUID) ([]*models.ContentVersion, error) {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.FindLessonVersions(nil, lesson.ID)
	if err != nil {
		s.log.Error("version list failed - server error", "lessonId", lessonID, "err", err)
		return nil, apperrors.Internal("Не удалось получить список версий.", err)
	}
	return versions, nil
}

// GetLessonVersion возвращает версию урока вместе со снимком
func (s *VersionService) GetLessonVersion(lessonID, versionID, userID uuid.UUID) (*models.ContentVersion, error) {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(lesson.CourseID, userID); err != nil {
		return nil, err
	}

	return s.getScopedLessonVersion(lesson.ID, versionID)
}

// RestoreLessonVersion переписывает настройки урока из снимка
func (s *VersionService) RestoreLessonVersion(lessonID, versionID, userID uuid.UUID) error {
	lesson, err := s.getLesson(lessonID)
	if err != nil {
		return err
	}

	if err := s.ensureCourseAdmin(lesson.CourseID, userID); err != nil {
		return err
	}

	version, err := s.getScopedLessonVersion(lesson.ID, versionID)
	if err != nil {
		return err
	}

	var payload LessonVersionPayload
	if err := decodePayload(version.Payload, &payload); err != nil {
		s.log.Error("version restore failed - payload decode error",
			"scope", models.VersionScopeLesson, "lessonId", lessonID, "versionId", versionID, "err", err)
		return apperrors.Internal("Не удалось восстановить версию.", err)
	}

	payload.applyTo(lesson)

	if err := s.lessonRepo.Update(nil, lesson); err != nil {
		s.log.Error("version restore failed - server error",
			"scope", models.VersionScopeLesson, "lessonId", lessonID, "versionId", versionID, "err", err)
		return apperrors.Internal("Не удалось восстановить версию.", err)
	}

	s.log.Info("version restored",
		"scope", models.VersionScopeLesson, "courseId", lesson.CourseID,
		"lessonId", lesson.ID, "versionId", version.ID, "userId", userID)

	return nil
}

// Вспомогательные методы

func (s *VersionService) getCourse(courseID uuid.UUID) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Курс не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить курс.", err)
	}
	return course, nil
}

func (s *VersionService) getLesson(lessonID uuid.UUID) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Урок не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить урок.", err)
	}
	return lesson, nil
}

// getScopedCourseVersion находит версию и проверяет что она принадлежит
// именно этому курсу и снята в области COURSE. Несовпадение - BadRequest,
// чтобы нельзя было дотянуться до чужой версии подбором ID.
func (s *VersionService) getScopedCourseVersion(courseID, versionID uuid.UUID) (*models.ContentVersion, error) {
	version, err := s.versionRepo.GetByID(nil, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Версия не найдена")
		}
		return nil, apperrors.Internal("Не удалось загрузить версию.", err)
	}

	if version.CourseID != courseID || version.Scope != models.VersionScopeCourse {
		return nil, apperrors.BadRequest("Версия не относится к этому курсу")
	}
	return version, nil
}

func (s *VersionService) getScopedLessonVersion(lessonID, versionID uuid.UUID) (*models.ContentVersion, error) {
	version, err := s.versionRepo.GetByID(nil, versionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Версия не найдена")
		}
		return nil, apperrors.Internal("Не удалось загрузить версию.", err)
	}

	if version.LessonID == nil || *version.LessonID != lessonID || version.Scope != models.VersionScopeLesson {
		return nil, apperrors.BadRequest("Версия не относится к этому уроку")
	}
	return version, nil
}

func (s *VersionService) ensureCourseAdmin(courseID, userID uuid.UUID) error {
	allowed, err := s.memberRepo.IsCourseAdmin(nil, courseID, userID)
	if err != nil {
		return apperrors.Internal("Не удалось проверить права доступа.", err)
	}
	if !allowed {
		s.log.Warn("version access forbidden", "courseId", courseID, "userId", userID)
		return apperrors.Forbidden("Недостаточно прав для работы с версиями")
	}
	return nil
}

// normalizeComment обрезает пробелы, пустой комментарий превращает в NULL
func normalizeComment(comment string) *string {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
