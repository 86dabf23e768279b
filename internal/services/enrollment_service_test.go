package services

import (
	"context"
	"testing"

	"github.com/campuscms/course-service/internal/events"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

func newEnrollmentService(t *testing.T) (EnrollmentService, repositories.Repository, *events.MockEventPublisher) {
	t.Helper()
	repo := newTestRepo(t)
	publisher := events.NewMockEventPublisher()
	return NewEnrollmentService(repo, publisher, testLogger(), newTestValidator()), repo, publisher
}

func TestEnrollmentService_Enroll(t *testing.T) {
	service, repo, publisher := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)

	enrollment, err := service.Enroll(ctx, student, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		t.Errorf("Enroll() status = %q, want active", enrollment.Status)
	}
	if len(publisher.EventsOfType(events.EnrollmentCreated)) != 1 {
		t.Error("Enroll() did not publish enrollment.created")
	}
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)

	if _, err := service.Enroll(ctx, student, course.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	_, err := service.Enroll(ctx, student, course.ID)
	if !IsConflict(err) {
		t.Fatalf("Enroll() duplicate error = %v, want conflict", err)
	}

	// Only the first enrollment exists
	count, err := repo.Enrollment().CountActiveByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("CountActiveByCourse() error = %v", err)
	}
	if count != 1 {
		t.Errorf("active enrollments = %d, want 1", count)
	}
}

func TestEnrollmentService_Enroll_NonStudent(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	admin := seedUser(t, repo, models.RoleAdmin)
	course := seedCourse(t, repo, instructor.ID, nil)

	if _, err := service.Enroll(ctx, instructor, course.ID); !IsPermission(err) {
		t.Errorf("Enroll() as instructor error = %v, want permission error", err)
	}
	if _, err := service.Enroll(ctx, admin, course.ID); !IsPermission(err) {
		t.Errorf("Enroll() as admin error = %v, want permission error", err)
	}
}

func TestEnrollmentService_Enroll_InactiveCourse(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, func(c *models.Course) {
		c.IsActive = false
	})

	if _, err := service.Enroll(ctx, student, course.ID); !IsConflict(err) {
		t.Errorf("Enroll() inactive course error = %v, want conflict", err)
	}
}

func TestEnrollmentService_Enroll_CapacityOne(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	first := seedUser(t, repo, models.RoleStudent)
	second := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, func(c *models.Course) {
		c.MaxStudents = 1
	})

	if _, err := service.Enroll(ctx, first, course.ID); err != nil {
		t.Fatalf("Enroll() first student error = %v", err)
	}

	_, err := service.Enroll(ctx, second, course.ID)
	if !IsConflict(err) {
		t.Fatalf("Enroll() second student error = %v, want conflict", err)
	}

	// The rejected attempt left no record behind
	enrolled, err := repo.Enrollment().ExistsByStudentAndCourse(ctx, second.ID, course.ID)
	if err != nil {
		t.Fatalf("ExistsByStudentAndCourse() error = %v", err)
	}
	if enrolled {
		t.Error("rejected enrollment was persisted")
	}
}

func TestEnrollmentService_Enroll_CourseNotFound(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	student := seedUser(t, repo, models.RoleStudent)

	if _, err := service.Enroll(context.Background(), student, 9999); !IsNotFound(err) {
		t.Errorf("Enroll() missing course error = %v, want not found", err)
	}
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	service, repo, publisher := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)
	seedEnrollment(t, repo, student.ID, course.ID)

	if err := service.Unenroll(ctx, student, course.ID); err != nil {
		t.Fatalf("Unenroll() error = %v", err)
	}
	if len(publisher.EventsOfType(events.EnrollmentDeleted)) != 1 {
		t.Error("Unenroll() did not publish enrollment.deleted")
	}

	if err := service.Unenroll(ctx, student, course.ID); !IsNotFound(err) {
		t.Errorf("Unenroll() when not enrolled error = %v, want not found", err)
	}
}

func TestEnrollmentService_Unenroll_NonActiveStatus(t *testing.T) {
	service, repo, publisher := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)
	enrollment := seedEnrollment(t, repo, student.ID, course.ID)

	if err := repo.Enrollment().UpdateStatus(ctx, enrollment.ID, models.EnrollmentCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if err := service.Unenroll(ctx, student, course.ID); !IsConflict(err) {
		t.Errorf("Unenroll() of completed enrollment error = %v, want conflict", err)
	}
	if len(publisher.EventsOfType(events.EnrollmentDeleted)) != 0 {
		t.Error("Unenroll() of completed enrollment published enrollment.deleted")
	}

	// The record survives the attempt
	kept, err := repo.Enrollment().GetByID(ctx, enrollment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if kept.Status != models.EnrollmentCompleted {
		t.Errorf("status = %q, want completed", kept.Status)
	}
}

func TestEnrollmentService_AdminUpdateStatus(t *testing.T) {
	service, repo, _ := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	admin := seedUser(t, repo, models.RoleAdmin)
	course := seedCourse(t, repo, instructor.ID, nil)
	enrollment := seedEnrollment(t, repo, student.ID, course.ID)

	updated, err := service.AdminUpdateStatus(ctx, admin, enrollment.ID, &UpdateEnrollmentRequest{Status: "completed"})
	if err != nil {
		t.Fatalf("AdminUpdateStatus() error = %v", err)
	}
	if updated.Status != models.EnrollmentCompleted {
		t.Errorf("AdminUpdateStatus() status = %q, want completed", updated.Status)
	}

	if _, err := service.AdminUpdateStatus(ctx, admin, enrollment.ID, &UpdateEnrollmentRequest{Status: "paused"}); err == nil {
		t.Error("AdminUpdateStatus() with invalid status should fail")
	}

	if _, err := service.AdminUpdateStatus(ctx, admin, 9999, &UpdateEnrollmentRequest{Status: "dropped"}); !IsNotFound(err) {
		t.Errorf("AdminUpdateStatus() missing enrollment error = %v, want not found", err)
	}
}

func TestEnrollmentService_AdminDelete(t *testing.T) {
	service, repo, publisher := newEnrollmentService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	admin := seedUser(t, repo, models.RoleAdmin)
	course := seedCourse(t, repo, instructor.ID, nil)
	enrollment := seedEnrollment(t, repo, student.ID, course.ID)

	if err := service.AdminDelete(ctx, admin, enrollment.ID); err != nil {
		t.Fatalf("AdminDelete() error = %v", err)
	}
	if len(publisher.EventsOfType(events.EnrollmentDeleted)) != 1 {
		t.Error("AdminDelete() did not publish enrollment.deleted")
	}

	if err := service.AdminDelete(ctx, admin, enrollment.ID); !IsNotFound(err) {
		t.Errorf("AdminDelete() twice error = %v, want not found", err)
	}
}
