package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountActiveEnrollments counts active enrollments for a course
func (h *SharedHelpers) CountActiveEnrollments(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&count).Error
	return count, err
}

// ActiveEnrollmentCounts returns active-enrollment counts keyed by course ID
func (h *SharedHelpers) ActiveEnrollmentCounts(ctx context.Context, courseIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	type row struct {
		CourseID uint
		Total    int
	}
	var rows []row
	err := h.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ? AND status = ?", courseIDs, models.EnrollmentActive).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.CourseID] = r.Total
	}
	return counts, nil
}

// ApplyUserFilters applies common filters to user queries
func (h *SharedHelpers) ApplyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where(
			"LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)",
			like, like, like, like,
		)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	return query
}

// ApplyCourseFilters applies common filters to course queries
func (h *SharedHelpers) ApplyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?)", like, like)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	return query
}

// ApplyEnrollmentFilters applies common filters to enrollment queries
func (h *SharedHelpers) ApplyEnrollmentFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}

// ApplyPagination applies limit/offset with sane defaults
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
