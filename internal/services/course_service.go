package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/offer-hunt/oh-course/internal/apperrors"
	"github.com/offer-hunt/oh-course/internal/models"
	"github.com/offer-hunt/oh-course/internal/repository"
	"github.com/offer-hunt/oh-course/pkg/logger"
)

const (
	titleMinLen       = 10
	titleMaxLen       = 100
	descriptionMaxLen = 1000
	tagMaxLen         = 15
	tagsMaxCount      = 10
)

// StatsRecalculator - внешний сервис статистики обучения. Вызывается при
// публикации; его недоступность не должна выглядеть для клиента как ошибка
// в запросе.
type StatsRecalculator interface {
	RecalculateCourse(courseID uuid.UUID) error
}

// CourseService управляет жизненным циклом курса: создание, публикация,
// архивация, вывод новой версии из опубликованного курса.
type CourseService struct {
	db           *gorm.DB
	courseRepo   repository.CourseRepository
	lessonRepo   repository.LessonRepository
	pageRepo     repository.LessonPageRepository
	contentRepo  repository.MethodicalContentRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.QuestionOptionRepository
	testCaseRepo repository.QuestionTestCaseRepository
	memberRepo   repository.CourseMemberRepository
	versionRepo  repository.ContentVersionRepository
	cloneService *CloneService
	stats        StatsRecalculator
	log          *logger.Logger
}

// NewCourseService создает новый сервис курсов. stats может быть nil -
// тогда пересчет статистики при публикации пропускается.
func NewCourseService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	pageRepo repository.LessonPageRepository,
	contentRepo repository.MethodicalContentRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.QuestionOptionRepository,
	testCaseRepo repository.QuestionTestCaseRepository,
	memberRepo repository.CourseMemberRepository,
	versionRepo repository.ContentVersionRepository,
	cloneService *CloneService,
	stats StatsRecalculator,
	log *logger.Logger,
) *CourseService {
	return &CourseService{
		db:           db,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		pageRepo:     pageRepo,
		contentRepo:  contentRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		testCaseRepo: testCaseRepo,
		memberRepo:   memberRepo,
		versionRepo:  versionRepo,
		cloneService: cloneService,
		stats:        stats,
		log:          log.With("service", "CourseService"),
	}
}

// CreateCourseRequest представляет запрос на создание курса
type CreateCourseRequest struct {
	Title                string   `json:"title"`
	Slug                 string   `json:"slug"`
	Description          string   `json:"description"`
	CoverURL             string   `json:"cover_url"`
	Language             string   `json:"language"`
	Level                string   `json:"level"`
	EstimatedDurationMin *int     `json:"estimated_duration_min"`
	AccessType           string   `json:"access_type"`
	InviteCode           string   `json:"invite_code"`
	Tags                 []string `json:"tags"`
}

// CreateCourse создает новый курс в статусе DRAFT, автор становится OWNER
func (s *CourseService) CreateCourse(authorID uuid.UUID, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validateCourseData(req); err != nil {
		return nil, err
	}

	now := time.Now()

	tags, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, apperrors.Internal("Не удалось создать курс. Попробуйте позже.", err)
	}

	course := &models.Course{
		ID:                   uuid.New(),
		AuthorID:             authorID,
		Title:                strings.TrimSpace(req.Title),
		Slug:                 strings.TrimSpace(req.Slug),
		Description:          strings.TrimSpace(req.Description),
		CoverURL:             req.CoverURL,
		Language:             req.Language,
		Level:                req.Level,
		EstimatedDurationMin: req.EstimatedDurationMin,
		Status:               models.CourseStatusDraft,
		AccessType:           models.AccessType(req.AccessType),
		InviteCode:           req.InviteCode,
		Version:              1,
		Tags:                 datatypes.JSON(tags),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.courseRepo.Create(tx, course); err != nil {
			return err
		}
		// OWNER-членство автора (Course-RBAC)
		return s.memberRepo.Create(tx, &models.CourseMember{
			CourseID: course.ID,
			UserID:   authorID,
			Role:     models.MemberRoleOwner,
			AddedBy:  authorID,
			AddedAt:  now,
		})
	})
	if err != nil {
		if isSlugUniqueViolation(err) {
			s.log.Warn("course creation failed - slug already exists", "slug", req.Slug)
			return nil, apperrors.Conflict("Курс с таким адресом уже существует")
		}
		s.log.Error("course creation failed - server error", "err", err)
		return nil, apperrors.Internal("Не удалось создать курс. Попробуйте позже.", err)
	}

	return course, nil
}

// GetPublishedCourseBySlug возвращает опубликованный курс по адресу.
// Для курсов с доступом по ссылке требуется код приглашения;
// администраторы курса проходят без кода. userID может быть uuid.Nil
// для анонимного запроса.
func (s *CourseService) GetPublishedCourseBySlug(slug, inviteCode string, userID uuid.UUID) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlugAndStatus(nil, slug, models.CourseStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Курс не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить курс.", err)
	}

	if course.AccessType == models.AccessTypePrivateLink {
		if course.InviteCode == "" || inviteCode == "" || course.InviteCode != inviteCode {
			if userID == uuid.Nil {
				return nil, apperrors.Forbidden("Доступ к этому курсу ограничен")
			}
			isAdmin, err := s.memberRepo.IsCourseAdmin(nil, course.ID, userID)
			if err != nil {
				return nil, apperrors.Internal("Не удалось загрузить курс.", err)
			}
			if !isAdmin {
				return nil, apperrors.Forbidden("Доступ к этому курсу ограничен")
			}
		}
	}

	return course, nil
}

// GetMyCourses возвращает курсы, где пользователь OWNER или ADMIN,
// с необязательной фильтрацией по статусам. Недавно обновлённые сверху.
func (s *CourseService) GetMyCourses(userID uuid.UUID, statuses []models.CourseStatus) ([]*models.Course, error) {
	memberships, err := s.memberRepo.FindByUser(nil, userID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось загрузить курсы.", err)
	}
	if len(memberships) == 0 {
		return []*models.Course{}, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		courseIDs = append(courseIDs, m.CourseID)
	}

	courses, err := s.courseRepo.GetByIDs(nil, courseIDs)
	if err != nil {
		return nil, apperrors.Internal("Не удалось загрузить курсы.", err)
	}

	if len(statuses) > 0 {
		filtered := courses[:0]
		for _, c := range courses {
			for _, st := range statuses {
				if c.Status == st {
					filtered = append(filtered, c)
					break
				}
			}
		}
		courses = filtered
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].UpdatedAt.After(courses[j].UpdatedAt)
	})

	return courses, nil
}

// CoursePreview - черновик курса вместе с полным деревом уроков и страниц
type CoursePreview struct {
	Course  *models.Course   `json:"course"`
	Lessons []*models.Lesson `json:"lessons"`
}

// GetCoursePreview возвращает предпросмотр черновика
func (s *CourseService) GetCoursePreview(courseID, userID uuid.UUID) (*CoursePreview, error) {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return nil, err
	}

	if course.Status != models.CourseStatusDraft {
		return nil, apperrors.BadRequest("Предпросмотр доступен только для черновиков")
	}

	lessons, err := s.lessonRepo.GetByCourseID(nil, courseID)
	if err != nil {
		s.log.Error("preview failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось загрузить предпросмотр.", err)
	}

	for _, lesson := range lessons {
		pages, err := s.pageRepo.GetByLessonID(nil, lesson.ID)
		if err != nil {
			s.log.Error("preview failed - server error", "courseId", courseID, "err", err)
			return nil, apperrors.Internal("Не удалось загрузить предпросмотр.", err)
		}
		for _, p := range pages {
			lesson.Pages = append(lesson.Pages, *p)
		}
	}

	return &CoursePreview{Course: course, Lessons: lessons}, nil
}

// PublishCourse публикует курс: проверяет готовность, внутри одной
// транзакции архивирует прежние опубликованные версии с тем же автором и
// названием и переводит курс в PUBLISHED.
func (s *CourseService) PublishCourse(courseID, userID uuid.UUID) (*models.Course, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(course.ID, userID); err != nil {
		return nil, err
	}

	switch course.Status {
	case models.CourseStatusPublished:
		return nil, apperrors.BadRequest("Курс уже опубликован")
	case models.CourseStatusArchived:
		return nil, apperrors.BadRequest("Заархивированный курс нельзя опубликовать")
	}

	issues, err := s.validateCourseReadyForPublication(course)
	if err != nil {
		return nil, apperrors.Internal("Не удалось опубликовать курс. Попробуйте позже.", err)
	}
	if len(issues) > 0 {
		s.log.Warn("course publication failed - requirements not met",
			"courseId", courseID, "issues", issues)
		return nil, apperrors.BadRequest("Курс не готов к публикации: " + strings.Join(issues, "; "))
	}

	now := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.archivePreviousVersions(tx, course, now); err != nil {
			return err
		}

		published, err := s.courseRepo.MarkPublished(tx, course.ID, now)
		if err != nil {
			return err
		}
		if !published {
			// Кто-то успел изменить статус между чтением и записью
			return apperrors.BadRequest("Курс уже опубликован")
		}

		if s.stats != nil {
			if err := s.stats.RecalculateCourse(course.ID); err != nil {
				return fmt.Errorf("stats recalculation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if isConnectionError(err) {
			s.log.Error("course publication failed - stats service unreachable",
				"courseId", courseID, "err", err)
			return nil, apperrors.ServiceUnavailable("Сервис статистики недоступен. Попробуйте позже.")
		}
		s.log.Error("course publication failed - server error",
			"courseId", courseID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось опубликовать курс. Попробуйте позже.", err)
	}

	course.Status = models.CourseStatusPublished
	course.PublishedAt = &now
	course.UpdatedAt = now

	s.log.Info("course published", "courseId", courseID, "userId", userID)

	return course, nil
}

// ArchiveCourse архивирует опубликованный курс. ARCHIVED - терминальный
// статус, из него переходов нет.
func (s *CourseService) ArchiveCourse(courseID, userID uuid.UUID) error {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return err
	}

	if course.Status != models.CourseStatusPublished {
		s.log.Warn("attempt to archive non-published course", "courseId", courseID)
		return apperrors.BadRequest("Архивировать можно только опубликованный курс")
	}

	archived, err := s.courseRepo.MarkArchived(nil, course.ID, time.Now())
	if err != nil {
		s.log.Error("course archivation failed - server error", "courseId", courseID, "err", err)
		return apperrors.Internal("Не удалось заархивировать курс. Попробуйте позже.", err)
	}
	if !archived {
		return apperrors.BadRequest("Архивировать можно только опубликованный курс")
	}

	s.log.Info("course archived", "courseId", courseID)
	return nil
}

// CreateDraftFromPublished выводит новый черновик из опубликованного курса:
// создается новая запись курса с версией source+1 и полная независимая
// копия дерева контента. Всё в одной транзакции.
func (s *CourseService) CreateDraftFromPublished(sourceCourseID, userID uuid.UUID) (*models.Course, error) {
	sourceCourse, err := s.getCourse(sourceCourseID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCourseAdmin(sourceCourse.ID, userID); err != nil {
		return nil, err
	}

	if sourceCourse.Status != models.CourseStatusPublished {
		return nil, apperrors.BadRequest("Черновик можно создать только из опубликованного курса")
	}

	now := time.Now()

	draftCourse := &models.Course{
		ID:                   uuid.New(),
		AuthorID:             userID,
		Title:                sourceCourse.Title,
		Slug:                 fmt.Sprintf("%s-draft-%d", sourceCourse.Slug, now.UnixMilli()),
		Description:          sourceCourse.Description,
		CoverURL:             sourceCourse.CoverURL,
		Language:             sourceCourse.Language,
		Level:                sourceCourse.Level,
		EstimatedDurationMin: sourceCourse.EstimatedDurationMin,
		AccessType:           sourceCourse.AccessType,
		InviteCode:           sourceCourse.InviteCode,
		RequiresEntitlement:  sourceCourse.RequiresEntitlement,
		MaxFreeEnrollments:   sourceCourse.MaxFreeEnrollments,
		Status:               models.CourseStatusDraft,
		Version:              sourceCourse.Version + 1,
		Tags:                 sourceCourse.Tags,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.courseRepo.Create(tx, draftCourse); err != nil {
			return err
		}
		if err := s.memberRepo.Create(tx, &models.CourseMember{
			CourseID: draftCourse.ID,
			UserID:   userID,
			Role:     models.MemberRoleOwner,
			AddedBy:  userID,
			AddedAt:  now,
		}); err != nil {
			return err
		}
		return s.cloneService.CloneCourseStructure(tx, sourceCourse.ID, draftCourse.ID)
	})
	if err != nil {
		s.log.Error("draft creation failed - server error",
			"sourceCourseId", sourceCourseID, "userId", userID, "err", err)
		return nil, apperrors.Internal("Не удалось создать черновик. Попробуйте позже.", err)
	}

	s.log.Info("draft version created",
		"sourceCourseId", sourceCourseID, "draftCourseId", draftCourse.ID, "version", draftCourse.Version)

	return draftCourse, nil
}

// DeleteCourse удаляет курс вместе со всем деревом контента, членствами и
// версиями. Доступно только автору.
func (s *CourseService) DeleteCourse(courseID, userID uuid.UUID) error {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		lessons, err := s.lessonRepo.GetByCourseID(tx, course.ID)
		if err != nil {
			return err
		}
		for _, lesson := range lessons {
			pages, err := s.pageRepo.GetByLessonID(tx, lesson.ID)
			if err != nil {
				return err
			}
			for _, page := range pages {
				if err := s.deletePageContent(tx, page.ID); err != nil {
					return err
				}
			}
			if err := s.pageRepo.DeleteByLesson(tx, lesson.ID); err != nil {
				return err
			}
		}
		if err := s.lessonRepo.DeleteByCourse(tx, course.ID); err != nil {
			return err
		}
		if err := s.versionRepo.DeleteByCourse(tx, course.ID); err != nil {
			return err
		}
		if err := s.memberRepo.DeleteByCourse(tx, course.ID); err != nil {
			return err
		}
		return s.courseRepo.Delete(tx, course.ID)
	})
	if err != nil {
		s.log.Error("course deletion failed - server error", "courseId", courseID, "err", err)
		return apperrors.Internal("Не удалось удалить курс. Попробуйте позже.", err)
	}

	s.log.Info("course deleted", "courseId", courseID)
	return nil
}

// AddTags добавляет теги курса. Не более 10 тегов, каждый не длиннее 15 символов.
func (s *CourseService) AddTags(courseID, userID uuid.UUID, tags []string) (*models.Course, error) {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return course, nil
	}

	current, err := decodeTags(course.Tags)
	if err != nil {
		return nil, apperrors.Internal("Не удалось добавить теги. Попробуйте позже.", err)
	}

	changed := false
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if len([]rune(tag)) > tagMaxLen {
			return nil, apperrors.BadRequest("Тег не длиннее 15 символов")
		}
		if !containsTag(current, tag) {
			current = append(current, tag)
			changed = true
		}
	}

	if len(current) > tagsMaxCount {
		return nil, apperrors.BadRequest("Количество тегов слишком большое")
	}

	if changed {
		encoded, err := json.Marshal(current)
		if err != nil {
			return nil, apperrors.Internal("Не удалось добавить теги. Попробуйте позже.", err)
		}
		course.Tags = datatypes.JSON(encoded)
		if err := s.courseRepo.Update(nil, course); err != nil {
			s.log.Error("tags add failed - server error", "courseId", courseID, "err", err)
			return nil, apperrors.Internal("Не удалось добавить теги. Попробуйте позже.", err)
		}
		s.log.Info("tags added", "courseId", courseID)
	}

	return course, nil
}

// RemoveTag удаляет тег курса. Последний тег удалить нельзя.
func (s *CourseService) RemoveTag(courseID, userID uuid.UUID, tag string) (*models.Course, error) {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return nil, err
	}

	current, err := decodeTags(course.Tags)
	if err != nil {
		return nil, apperrors.Internal("Не удалось удалить теги. Попробуйте позже.", err)
	}

	if len(current) <= 1 {
		return nil, apperrors.BadRequest("Количество тегов слишком маленькое, добавьте хотя бы один тег")
	}

	remaining := current[:0]
	removed := false
	for _, t := range current {
		if t == tag {
			removed = true
			continue
		}
		remaining = append(remaining, t)
	}
	if !removed {
		return nil, apperrors.BadRequest("Тег не найден у курса")
	}

	encoded, err := json.Marshal(remaining)
	if err != nil {
		return nil, apperrors.Internal("Не удалось удалить теги. Попробуйте позже.", err)
	}
	course.Tags = datatypes.JSON(encoded)
	if err := s.courseRepo.Update(nil, course); err != nil {
		s.log.Error("tags delete failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось удалить теги. Попробуйте позже.", err)
	}

	s.log.Info("tag deleted", "courseId", courseID, "tag", tag)
	return course, nil
}

// SetCoverURL сохраняет адрес обложки курса
func (s *CourseService) SetCoverURL(courseID, userID uuid.UUID, coverURL string) (*models.Course, error) {
	course, err := s.getCourseWithAuthCheck(courseID, userID)
	if err != nil {
		return nil, err
	}

	course.CoverURL = coverURL
	if err := s.courseRepo.Update(nil, course); err != nil {
		s.log.Error("cover update failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось обновить обложку. Попробуйте позже.", err)
	}
	return course, nil
}

// AddCourseMember добавляет соавтора курса с ролью OWNER или ADMIN.
// Управлять составом могут только OWNER и ADMIN курса.
func (s *CourseService) AddCourseMember(courseID, actingUserID, newUserID uuid.UUID, role models.MemberRole) (*models.CourseMember, error) {
	if _, err := s.getCourse(courseID); err != nil {
		return nil, err
	}

	if role != models.MemberRoleOwner && role != models.MemberRoleAdmin {
		return nil, apperrors.BadRequest("Недопустимая роль")
	}

	allowed, err := s.memberRepo.IsCourseAdmin(nil, courseID, actingUserID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось проверить права доступа.", err)
	}
	if !allowed {
		s.log.Warn("member management forbidden", "courseId", courseID, "userId", actingUserID)
		return nil, apperrors.Forbidden("Недостаточно прав для управления ролями в курсе")
	}

	exists, err := s.memberRepo.Exists(nil, courseID, newUserID)
	if err != nil {
		return nil, apperrors.Internal("Не удалось добавить соавтора. Попробуйте позже.", err)
	}
	if exists {
		return nil, apperrors.BadRequest("Этот пользователь уже является соавтором")
	}

	member := &models.CourseMember{
		CourseID: courseID,
		UserID:   newUserID,
		Role:     role,
		AddedBy:  actingUserID,
		AddedAt:  time.Now(),
	}
	if err := s.memberRepo.Create(nil, member); err != nil {
		s.log.Error("member add failed - server error", "courseId", courseID, "err", err)
		return nil, apperrors.Internal("Не удалось добавить соавтора. Попробуйте позже.", err)
	}

	s.log.Info("course member added", "courseId", courseID, "userId", newUserID, "role", role)
	return member, nil
}

// CheckEditAccess проверяет, что пользователь вправе редактировать курс
func (s *CourseService) CheckEditAccess(courseID, userID uuid.UUID) error {
	_, err := s.getCourseWithAuthCheck(courseID, userID)
	return err
}

// archivePreviousVersions архивирует прочие опубликованные курсы с теми же
// автором и названием. Гарантия единственной опубликованной версии.
func (s *CourseService) archivePreviousVersions(tx *gorm.DB, draftCourse *models.Course, now time.Time) error {
	publishedVersions, err := s.courseRepo.FindByAuthorTitleStatus(
		tx, draftCourse.AuthorID, draftCourse.Title, models.CourseStatusPublished)
	if err != nil {
		return err
	}

	for _, oldVersion := range publishedVersions {
		if oldVersion.ID == draftCourse.ID {
			continue
		}
		if _, err := s.courseRepo.MarkArchived(tx, oldVersion.ID, now); err != nil {
			return err
		}
		s.log.Info("previous version archived", "courseId", oldVersion.ID)
	}
	return nil
}

// validateCourseReadyForPublication возвращает полный список причин,
// мешающих публикации, чтобы клиент показал их все разом.
func (s *CourseService) validateCourseReadyForPublication(course *models.Course) ([]string, error) {
	var issues []string

	if strings.TrimSpace(course.Title) == "" {
		issues = append(issues, "Добавьте название курса")
	}
	if strings.TrimSpace(course.Description) == "" {
		issues = append(issues, "Добавьте описание курса")
	}
	if strings.TrimSpace(course.CoverURL) == "" {
		issues = append(issues, "Добавьте обложку")
	}

	lessons, err := s.lessonRepo.GetByCourseID(nil, course.ID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		issues = append(issues, "Добавьте хотя бы один урок")
		return issues, nil
	}

	hasLessonWithContent := false
	for _, lesson := range lessons {
		if strings.TrimSpace(lesson.Title) == "" {
			issues = append(issues, fmt.Sprintf("Заполните название урока (id=%s)", lesson.ID))
		}
		hasPages, err := s.pageRepo.ExistsByLessonID(nil, lesson.ID)
		if err != nil {
			return nil, err
		}
		if hasPages {
			hasLessonWithContent = true
		}
	}

	if !hasLessonWithContent {
		issues = append(issues, "Добавьте хотя бы один урок с содержимым")
	}

	return issues, nil
}

func (s *CourseService) validateCourseData(req *CreateCourseRequest) error {
	title := strings.TrimSpace(req.Title)
	if n := len([]rune(title)); n < titleMinLen || n > titleMaxLen {
		s.log.Warn("course creation failed - invalid title", "len", len(title))
		return apperrors.BadRequest("Название должно быть от 10 до 100 символов")
	}

	description := strings.TrimSpace(req.Description)
	if n := len([]rune(description)); n == 0 || n > descriptionMaxLen {
		s.log.Warn("course creation failed - invalid description", "len", len(description))
		return apperrors.BadRequest("Описание должно быть от 1 до 1000 символов")
	}

	if req.CoverURL != "" {
		lower := strings.ToLower(req.CoverURL)
		if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") && !strings.HasSuffix(lower, ".png") {
			s.log.Warn("course creation failed - invalid cover", "coverUrl", req.CoverURL)
			return apperrors.BadRequest("Неверный формат или размер файла. Максимум 2 МБ, JPG или PNG")
		}
	}

	if len(req.Tags) > tagsMaxCount {
		s.log.Warn("course creation failed - invalid tags count", "size", len(req.Tags))
		return apperrors.BadRequest("Не более 10 тегов")
	}
	for _, rawTag := range req.Tags {
		if len([]rune(strings.TrimSpace(rawTag))) > tagMaxLen {
			return apperrors.BadRequest("Тег не длиннее 15 символов")
		}
	}

	switch models.AccessType(req.AccessType) {
	case models.AccessTypePublic, models.AccessTypePrivateLink:
	default:
		s.log.Warn("course creation failed - invalid access type", "accessType", req.AccessType)
		return apperrors.BadRequest("Тип доступа обязателен")
	}

	return nil
}

func (s *CourseService) getCourse(courseID uuid.UUID) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Курс не найден")
		}
		return nil, apperrors.Internal("Не удалось загрузить курс.", err)
	}
	return course, nil
}

// getCourseWithAuthCheck загружает курс и проверяет что действует автор
func (s *CourseService) getCourseWithAuthCheck(courseID, userID uuid.UUID) (*models.Course, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}

	if course.AuthorID != userID {
		s.log.Warn("unauthorized access attempt", "courseId", courseID, "userId", userID)
		return nil, apperrors.Forbidden("У вас нет прав на редактирование этого курса")
	}
	return course, nil
}

func (s *CourseService) ensureCourseAdmin(courseID, userID uuid.UUID) error {
	allowed, err := s.memberRepo.IsCourseAdmin(nil, courseID, userID)
	if err != nil {
		return apperrors.Internal("Не удалось проверить права доступа.", err)
	}
	if !allowed {
		s.log.Warn("course access forbidden", "courseId", courseID, "userId", userID)
		return apperrors.Forbidden("Недостаточно прав для публикации курса")
	}
	return nil
}

func (s *CourseService) deletePageContent(tx *gorm.DB, pageID uuid.UUID) error {
	if err := s.contentRepo.DeleteByPage(tx, pageID); err != nil {
		return err
	}

	questions, err := s.questionRepo.GetByPageID(tx, pageID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if err := s.optionRepo.DeleteByQuestion(tx, q.ID); err != nil {
			return err
		}
		if err := s.testCaseRepo.DeleteByQuestion(tx, q.ID); err != nil {
			return err
		}
	}
	return s.questionRepo.DeleteByPage(tx, pageID)
}

func decodeTags(tags datatypes.JSON) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var decoded []string
	if err := json.Unmarshal(tags, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// isSlugUniqueViolation распознает нарушение уникальности slug по тексту
// ошибки драйвера (postgres и sqlite формулируют по-разному)
func isSlugUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "slug") {
		return false
	}
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "stats recalculation")
}
