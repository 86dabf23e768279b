package repositories

import (
	"context"

	"github.com/campuscms/course-service/internal/models"
)

// CourseVideoRepository interface for course video operations
type CourseVideoRepository interface {
	Create(ctx context.Context, video *models.CourseVideo) error
	GetByID(ctx context.Context, id uint) (*models.CourseVideo, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.CourseVideo, error)
	Delete(ctx context.Context, id uint) error

	// Cascade helper used inside course-delete transactions
	DeleteByCourse(ctx context.Context, courseID uint) error
}
