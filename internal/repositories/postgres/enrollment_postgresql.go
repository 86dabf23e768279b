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

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts the enrollment. The unique (student_id, course_id) index is
// the final arbiter; a duplicate-key error here means a concurrent enroll won.
func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, e.cacheManager, enrollment.CourseID, 0)

	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error {
	result := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Course, "*")
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Stats, "dashboard:*")

	return nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := e.db.WithContext(ctx).Delete(&models.Enrollment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Course, "*")
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Stats, "dashboard:*")

	return nil
}

func (e *EnrollmentPostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) error {
	err := e.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollments for student: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Course, "*")
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Stats, "dashboard:*")

	return nil
}

func (e *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, courseID uint) error {
	err := e.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollments for course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Course, "*")
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Stats, "dashboard:*")

	return nil
}

// List returns a page of enrollments with student and course preloaded
func (e *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := e.helpers.ApplyEnrollmentFilters(e.db.WithContext(ctx).Model(&models.Enrollment{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var enrollments []*models.Enrollment
	err := e.helpers.ApplyPagination(query.Preload("Student").Preload("Course").Order("enrolled_at DESC"), filters.Limit, filters.Offset).
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, total, nil
}

// ListAll returns the full filtered ledger, unpaginated
func (e *EnrollmentPostgreSQL) ListAll(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	query := e.helpers.ApplyEnrollmentFilters(e.db.WithContext(ctx).Model(&models.Enrollment{}), filters)

	var enrollments []*models.Enrollment
	err := query.Preload("Student").Preload("Course").Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (e *EnrollmentPostgreSQL) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	return e.helpers.CountActiveEnrollments(ctx, courseID)
}
