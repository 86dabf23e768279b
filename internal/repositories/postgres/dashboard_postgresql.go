package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) CountActiveCourses(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) CountEnrollments(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Enrollment{}).Count(&count).Error
	return count, err
}

func (d *DashboardPostgreSQL) RecentUsers(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 5
	}
	var users []*models.User
	err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

func (d *DashboardPostgreSQL) RecentCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	if limit <= 0 {
		limit = 5
	}
	var courses []*models.Course
	err := d.db.WithContext(ctx).
		Preload("Instructor").
		Order("created_at DESC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent courses: %w", err)
	}
	return courses, nil
}
