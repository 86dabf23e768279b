package repositories

import (
	"context"

	"github.com/campuscms/course-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string           // Search query for username, name or email
	Role   *models.UserRole // Filter by role
	Limit  int              // Page size
	Offset int              // Offset for pagination
}

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Delete removes only the user row; the service wraps it in a transaction
	// together with the dependent course/enrollment deletes.
	Delete(ctx context.Context, id uint) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
