package repositories

import (
	"context"

	"github.com/campuscms/course-service/internal/models"
)

// CourseFilters defines filters for course queries
type CourseFilters struct {
	Query        string // Search query for title or code
	InstructorID *uint
	IsActive     *bool
	Limit        int
	Offset       int
}

// CourseRepository interface for catalog operations. Read methods populate
// EnrollmentCount with the active-enrollment count.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*models.Course, error)
	MostEnrolled(ctx context.Context, limit int) ([]*models.Course, error)

	// ListIDsByInstructor returns all course IDs taught by the instructor,
	// used when cascading a user delete.
	ListIDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error)

	// Validation and checks
	ExistsByCode(ctx context.Context, code string) (bool, error)
	CountActiveByInstructor(ctx context.Context, instructorID uint) (int64, error)
}
