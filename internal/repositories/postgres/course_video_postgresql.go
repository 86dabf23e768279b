package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campuscms/course-service/internal/cache"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

type CourseVideoPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCourseVideoPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseVideoRepository {
	return &CourseVideoPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (v *CourseVideoPostgreSQL) Create(ctx context.Context, video *models.CourseVideo) error {
	if err := v.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create course video: %w", err)
	}
	cache.SafeDelete(ctx, v.cacheManager.Course, fmt.Sprintf("details:%d", video.CourseID))

	return nil
}

func (v *CourseVideoPostgreSQL) GetByID(ctx context.Context, id uint) (*models.CourseVideo, error) {
	var video models.CourseVideo
	if err := v.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (v *CourseVideoPostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.CourseVideo, error) {
	var videos []*models.CourseVideo
	err := v.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("display_order ASC, id ASC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list course videos: %w", err)
	}
	return videos, nil
}

func (v *CourseVideoPostgreSQL) DeleteByCourse(ctx context.Context, courseID uint) error {
	err := v.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.CourseVideo{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete videos for course: %w", err)
	}
	cache.SafeDelete(ctx, v.cacheManager.Course, fmt.Sprintf("details:%d", courseID))

	return nil
}

func (v *CourseVideoPostgreSQL) Delete(ctx context.Context, id uint) error {
	var video models.CourseVideo
	if err := v.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return err
	}

	if err := v.db.WithContext(ctx).Delete(&video).Error; err != nil {
		return fmt.Errorf("failed to delete course video: %w", err)
	}
	cache.SafeDelete(ctx, v.cacheManager.Course, fmt.Sprintf("details:%d", video.CourseID))

	return nil
}
