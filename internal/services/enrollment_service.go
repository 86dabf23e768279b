package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuscms/course-service/internal/events"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Enroll creates an active enrollment after checking the preconditions. The
// pre-checks race with concurrent enrolls; the unique index settles the
// duplicate case and the insert error is mapped to the same conflict.
func (s *enrollmentService) Enroll(ctx context.Context, actor *models.User, courseID uint) (*models.Enrollment, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("course", courseID)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrolled, err := s.repo.Enrollment().ExistsByStudentAndCourse(ctx, actor.ID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	errs := s.validator.GetBusinessValidator().ValidateEnrollmentStart(
		actor.Role, course.IsActive, course.EnrollmentCount, course.MaxStudents, enrolled)
	if len(errs) > 0 {
		if actor.Role != models.RoleStudent {
			return nil, NewPermissionError(actor.ID, courseID, "course", "enroll", "only students can enroll")
		}
		if enrolled {
			return nil, NewConflictError("enrollment", "already enrolled in this course")
		}
		if !course.IsActive {
			return nil, NewConflictError("enrollment", "course is not active")
		}
		return nil, NewConflictError("enrollment", "course is full")
	}

	enrollment := &models.Enrollment{
		StudentID: actor.ID,
		CourseID:  courseID,
		Status:    models.EnrollmentActive,
	}

	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("enrollment", "already enrolled in this course")
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("Student enrolled", "student_id", actor.ID, "course_id", courseID)
	s.publish(ctx, events.EnrollmentCreated, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    actor.ID,
		"course_id":     courseID,
	})

	return enrollment, nil
}

// Unenroll removes the actor's own active enrollment in the course.
// Completed and dropped records belong to the admin ledger and stay put.
func (s *enrollmentService) Unenroll(ctx context.Context, actor *models.User, courseID uint) error {
	enrollment, err := s.repo.Enrollment().GetByStudentAndCourse(ctx, actor.ID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("enrollment", 0)
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.Status != models.EnrollmentActive {
		return NewConflictError("enrollment", "only active enrollments can be dropped")
	}

	if err := s.repo.Enrollment().Delete(ctx, enrollment.ID); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.Info("Student unenrolled", "student_id", actor.ID, "course_id", courseID)
	s.publish(ctx, events.EnrollmentDeleted, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    actor.ID,
		"course_id":     courseID,
	})

	return nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &EnrollmentListResponse{Enrollments: enrollments, Total: total, Page: page, Size: size}, nil
}

func (s *enrollmentService) AdminDelete(ctx context.Context, actor *models.User, id uint) error {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("enrollment", id)
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	if err := s.repo.Enrollment().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.Info("Enrollment deleted by admin", "admin_id", actor.ID, "enrollment_id", id)
	s.publish(ctx, events.EnrollmentDeleted, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    enrollment.StudentID,
		"course_id":     enrollment.CourseID,
	})

	return nil
}

func (s *enrollmentService) AdminUpdateStatus(ctx context.Context, actor *models.User, id uint, req *UpdateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.repo.Enrollment().UpdateStatus(ctx, id, models.EnrollmentStatus(req.Status)); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("enrollment", id)
		}
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload enrollment: %w", err)
	}

	s.logger.Info("Enrollment status updated", "admin_id", actor.ID, "enrollment_id", id, "status", req.Status)

	return enrollment, nil
}

func (s *enrollmentService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
