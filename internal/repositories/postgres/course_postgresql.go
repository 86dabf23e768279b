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

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a new course and invalidates catalog caches
func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, fmt.Sprintf("instructor:%d:*", course.InstructorID))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Stats, "dashboard:*")

	return nil
}

// GetByID retrieves a course with its instructor and active-enrollment count
func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Instructor").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}

	if err := c.populateEnrollmentCount(ctx, &course); err != nil {
		return nil, err
	}

	return &course, nil
}

// GetByIDWithDetails retrieves a course with instructor, videos and count.
// This backs the course detail page, so it is cached.
func (c *CoursePostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("details:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := c.db.WithContext(ctx).
			Preload("Instructor").
			Preload("Videos", func(db *gorm.DB) *gorm.DB {
				return db.Order("course_videos.display_order ASC")
			}).
			First(&dbCourse, id).Error
		if err != nil {
			return nil, err
		}

		if err := c.populateEnrollmentCount(ctx, &dbCourse); err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).Where("code = ?", code).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// Update saves the course and invalidates its caches
func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)

	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "*")
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Stats, "dashboard:*")

	return nil
}

// List returns a page of courses with instructor and counts, plus the total
func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.helpers.ApplyCourseFilters(c.db.WithContext(ctx).Model(&models.Course{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []*models.Course
	err := c.helpers.ApplyPagination(query.Preload("Instructor").Order("created_at DESC"), filters.Limit, filters.Offset).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	if err := c.populateEnrollmentCounts(ctx, courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// ListByStudent returns the courses a student holds an active enrollment in
func (c *CoursePostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, models.EnrollmentActive).
		Preload("Instructor").
		Order("enrollments.enrolled_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}

	if err := c.populateEnrollmentCounts(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

// MostEnrolled returns active courses ordered by active-enrollment count
func (c *CoursePostgreSQL) MostEnrolled(ctx context.Context, limit int) ([]*models.Course, error) {
	if limit <= 0 {
		limit = 3
	}

	var courses []*models.Course
	err := c.db.WithContext(ctx).
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.status = ?", models.EnrollmentActive).
		Where("courses.is_active = ?", true).
		Group("courses.id").
		Order("COUNT(enrollments.id) DESC").
		Limit(limit).
		Preload("Instructor").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list most enrolled courses: %w", err)
	}

	if err := c.populateEnrollmentCounts(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

func (c *CoursePostgreSQL) ListIDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error) {
	var ids []uint
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor course ids: %w", err)
	}
	return ids, nil
}

func (c *CoursePostgreSQL) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) CountActiveByInstructor(ctx context.Context, instructorID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("instructor_id = ? AND is_active = ?", instructorID, true).
		Count(&count).Error
	return count, err
}

func (c *CoursePostgreSQL) populateEnrollmentCount(ctx context.Context, course *models.Course) error {
	count, err := c.helpers.CountActiveEnrollments(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}
	course.EnrollmentCount = int(count)
	return nil
}

func (c *CoursePostgreSQL) populateEnrollmentCounts(ctx context.Context, courses []*models.Course) error {
	ids := make([]uint, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}

	counts, err := c.helpers.ActiveEnrollmentCounts(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}

	for _, course := range courses {
		course.EnrollmentCount = counts[course.ID]
	}
	return nil
}
