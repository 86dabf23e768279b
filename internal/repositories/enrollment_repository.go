package repositories

import (
	"context"

	"github.com/campuscms/course-service/internal/models"
)

// EnrollmentFilters defines filters for enrollment queries
type EnrollmentFilters struct {
	StudentID *uint
	CourseID  *uint
	Status    *models.EnrollmentStatus
	Limit     int
	Offset    int
}

// EnrollmentRepository interface for ledger operations
type EnrollmentRepository interface {
	// Create inserts the enrollment; a concurrent duplicate surfaces as a
	// duplicate-key error (see IsDuplicateKeyError).
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id uint) error

	// Cascade helpers used inside ownership-delete transactions
	DeleteByStudent(ctx context.Context, studentID uint) error
	DeleteByCourse(ctx context.Context, courseID uint) error

	// List with relations preloaded for paginated admin views
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)

	// ListAll returns every row matching the filters, ignoring Limit and
	// Offset. Backs the export, which must cover the whole ledger.
	ListAll(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, error)

	// Validation and checks
	ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error)
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
}
