package repositories

import (
	"context"

	"github.com/campuscms/course-service/internal/models"
)

// DashboardRepository interface for aggregate count queries backing the
// public stats endpoint and role dashboards.
type DashboardRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountActiveCourses(ctx context.Context) (int64, error)
	CountEnrollments(ctx context.Context) (int64, error)
	RecentUsers(ctx context.Context, limit int) ([]*models.User, error)
	RecentCourses(ctx context.Context, limit int) ([]*models.Course, error)
}
