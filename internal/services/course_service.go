package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"gorm.io/datatypes"

	"github.com/campuscms/course-service/internal/events"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/storage"
	"github.com/campuscms/course-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	storage   storage.ObjectStorage
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	maxUpload int64
	allowed   []string
}

func NewCourseService(repo repositories.Repository, store storage.ObjectStorage, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, maxUpload int64, allowedExtensions []string) CourseService {
	return &courseService{
		repo:      repo,
		storage:   store,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		maxUpload: maxUpload,
		allowed:   allowedExtensions,
	}
}

func (s *courseService) Create(ctx context.Context, actor *models.User, req *CreateCourseRequest) (*CourseResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if !actor.IsAdmin() && !actor.IsInstructor() {
		return nil, NewPermissionError(actor.ID, 0, "course", "create", "insufficient role permissions")
	}

	if exists, err := s.repo.Course().ExistsByCode(ctx, req.Code); err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	} else if exists {
		return nil, NewConflictError("course", "course code already in use")
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Code:         req.Code,
		InstructorID: actor.ID,
		StartDate:    parseDate(req.StartDate),
		EndDate:      parseDate(req.EndDate),
		IsActive:     true,
		MaxStudents:  50,
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("course", "course code already in use")
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "code", course.Code, "instructor_id", actor.ID)
	s.publish(ctx, events.CourseCreated, map[string]interface{}{
		"course_id":     course.ID,
		"code":          course.Code,
		"instructor_id": actor.ID,
	})

	return s.toResponse(ctx, course, actor), nil
}

func (s *courseService) GetByID(ctx context.Context, id uint, actor *models.User) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return s.toResponse(ctx, course, actor), nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, actor *models.User) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, len(courses))
	for i, course := range courses {
		responses[i] = s.toResponse(ctx, course, actor)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &CourseListResponse{Courses: responses, Total: total, Page: page, Size: size}, nil
}

func (s *courseService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateCourseRequest) (*CourseResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.getOwnedCourse(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.StartDate != nil {
		course.StartDate = parseDate(req.StartDate)
	}
	if req.EndDate != nil {
		course.EndDate = parseDate(req.EndDate)
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if req.MaxStudents != nil {
		course.MaxStudents = *req.MaxStudents
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", course.ID, "actor_id", actor.ID)

	return s.toResponse(ctx, course, actor), nil
}

// Delete removes a course with its enrollments and videos in one
// transaction, then drops the thumbnail object best effort.
func (s *courseService) Delete(ctx context.Context, actor *models.User, id uint) error {
	course, err := s.getOwnedCourse(ctx, actor, id, "delete")
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().DeleteByCourse(ctx, course.ID); err != nil {
			return err
		}
		if err := txRepo.CourseVideo().DeleteByCourse(ctx, course.ID); err != nil {
			return err
		}
		if err := txRepo.Course().Delete(ctx, course.ID); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if course.ThumbnailURL != nil && *course.ThumbnailURL != "" {
		if err := s.storage.Delete(*course.ThumbnailURL); err != nil {
			s.logger.Warn("Failed to delete course thumbnail", "course_id", course.ID, "error", err)
		}
	}

	s.logger.Info("Course deleted", "course_id", course.ID, "actor_id", actor.ID)

	return nil
}

// UploadThumbnail behaves like profile image upload: a failed relay keeps
// the previous thumbnail and reports a warning.
func (s *courseService) UploadThumbnail(ctx context.Context, actor *models.User, id uint, fileHeader *multipart.FileHeader) (*ImageUploadResult, error) {
	if errs := s.validator.GetBusinessValidator().ValidateImageUpload(fileHeader.Filename, fileHeader.Size, s.maxUpload, s.allowed); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.getOwnedCourse(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key := storage.ObjectKey(storage.ThumbnailFolder, fileHeader.Filename)
	url, err := s.storage.Upload(key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Warn("Thumbnail relay failed", "course_id", course.ID, "error", err)
		return &ImageUploadResult{Warning: "thumbnail could not be stored, previous thumbnail kept"}, nil
	}

	oldURL := course.ThumbnailURL
	course.ThumbnailURL = &url
	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save thumbnail: %w", err)
	}

	if oldURL != nil && *oldURL != "" {
		if err := s.storage.Delete(*oldURL); err != nil {
			s.logger.Warn("Failed to delete previous thumbnail", "course_id", course.ID, "error", err)
		}
	}

	return &ImageUploadResult{URL: url}, nil
}

func (s *courseService) AddVideo(ctx context.Context, actor *models.User, courseID uint, req *AddVideoRequest) (*models.CourseVideo, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.getOwnedCourse(ctx, actor, courseID, "update")
	if err != nil {
		return nil, err
	}

	video := &models.CourseVideo{
		CourseID:    course.ID,
		Title:       req.Title,
		VideoType:   models.VideoType(req.VideoType),
		VideoURL:    req.VideoURL,
		Description: req.Description,
		Order:       req.Order,
	}

	if err := s.repo.CourseVideo().Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to add video: %w", err)
	}

	s.logger.Info("Course video added", "course_id", course.ID, "video_id", video.ID)

	return video, nil
}

func (s *courseService) DeleteVideo(ctx context.Context, actor *models.User, courseID, videoID uint) error {
	course, err := s.getOwnedCourse(ctx, actor, courseID, "update")
	if err != nil {
		return err
	}

	video, err := s.repo.CourseVideo().GetByID(ctx, videoID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("video", videoID)
		}
		return fmt.Errorf("failed to get video: %w", err)
	}
	if video.CourseID != course.ID {
		return NewNotFoundError("video", videoID)
	}

	if err := s.repo.CourseVideo().Delete(ctx, videoID); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	return nil
}

// getOwnedCourse loads the course and verifies the actor may modify it.
// Admins pass every ownership check.
func (s *courseService) getOwnedCourse(ctx context.Context, actor *models.User, id uint, action string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if !actor.IsAdmin() && course.InstructorID != actor.ID {
		return nil, NewPermissionError(actor.ID, id, "course", action, "not the course instructor")
	}

	return course, nil
}

func (s *courseService) toResponse(ctx context.Context, course *models.Course, actor *models.User) *CourseResponse {
	resp := &CourseResponse{Course: course}
	if actor == nil {
		return resp
	}

	owns := actor.IsAdmin() || course.InstructorID == actor.ID
	resp.CanEdit = owns
	resp.CanDelete = owns

	if actor.IsStudent() {
		enrolled, err := s.repo.Enrollment().ExistsByStudentAndCourse(ctx, actor.ID, course.ID)
		if err != nil {
			s.logger.Warn("Failed to check enrollment", "course_id", course.ID, "user_id", actor.ID, "error", err)
		}
		resp.IsEnrolled = enrolled
	}

	return resp
}

func (s *courseService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

func parseDate(s *string) *datatypes.Date {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	d := datatypes.Date(t)
	return &d
}
