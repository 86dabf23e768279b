package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

// PublicStats backs the unauthenticated landing stats.
func (s *dashboardService) PublicStats(ctx context.Context) (*PublicStats, error) {
	activeCourses, err := s.repo.Dashboard().CountActiveCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active courses: %w", err)
	}

	totalUsers, err := s.repo.Dashboard().CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalEnrollments, err := s.repo.Dashboard().CountEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	featured, err := s.repo.Course().MostEnrolled(ctx, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured courses: %w", err)
	}

	return &PublicStats{
		ActiveCourses:    activeCourses,
		TotalUsers:       totalUsers,
		TotalEnrollments: totalEnrollments,
		FeaturedCourses:  featured,
	}, nil
}

// ForUser builds the dashboard for the actor's role.
func (s *dashboardService) ForUser(ctx context.Context, actor *models.User) (*DashboardResponse, error) {
	resp := &DashboardResponse{Role: actor.Role}

	switch actor.Role {
	case models.RoleAdmin:
		dashboard, err := s.adminDashboard(ctx)
		if err != nil {
			return nil, err
		}
		resp.Admin = dashboard

	case models.RoleInstructor:
		dashboard, err := s.instructorDashboard(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		resp.Instructor = dashboard

	case models.RoleStudent:
		dashboard, err := s.studentDashboard(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		resp.Student = dashboard

	default:
		return nil, fmt.Errorf("unknown role %q", actor.Role)
	}

	return resp, nil
}

func (s *dashboardService) adminDashboard(ctx context.Context) (*AdminDashboard, error) {
	dash := &AdminDashboard{}
	var err error

	if dash.TotalUsers, err = s.repo.Dashboard().CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if dash.TotalStudents, err = s.repo.Dashboard().CountUsersByRole(ctx, models.RoleStudent); err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	if dash.TotalInstructors, err = s.repo.Dashboard().CountUsersByRole(ctx, models.RoleInstructor); err != nil {
		return nil, fmt.Errorf("failed to count instructors: %w", err)
	}
	if dash.TotalCourses, err = s.repo.Dashboard().CountCourses(ctx); err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if dash.ActiveCourses, err = s.repo.Dashboard().CountActiveCourses(ctx); err != nil {
		return nil, fmt.Errorf("failed to count active courses: %w", err)
	}
	if dash.TotalEnrollments, err = s.repo.Dashboard().CountEnrollments(ctx); err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	if dash.RecentUsers, err = s.repo.Dashboard().RecentUsers(ctx, 5); err != nil {
		return nil, err
	}
	if dash.RecentCourses, err = s.repo.Dashboard().RecentCourses(ctx, 5); err != nil {
		return nil, err
	}

	return dash, nil
}

func (s *dashboardService) instructorDashboard(ctx context.Context, instructorID uint) (*InstructorDashboard, error) {
	courses, _, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		InstructorID: &instructorID,
		Limit:        100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor courses: %w", err)
	}

	var totalStudents int64
	for _, course := range courses {
		totalStudents += int64(course.EnrollmentCount)
	}

	return &InstructorDashboard{Courses: courses, TotalStudents: totalStudents}, nil
}

func (s *dashboardService) studentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	enrolled, err := s.repo.Course().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	active := true
	available, _, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		IsActive: &active,
		Limit:    100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list available courses: %w", err)
	}

	enrolledIDs := make(map[uint]bool, len(enrolled))
	for _, course := range enrolled {
		enrolledIDs[course.ID] = true
	}

	var open []*models.Course
	for _, course := range available {
		if !enrolledIDs[course.ID] && !course.IsFull() {
			open = append(open, course)
		}
	}

	return &StudentDashboard{EnrolledCourses: enrolled, AvailableCourses: open}, nil
}
