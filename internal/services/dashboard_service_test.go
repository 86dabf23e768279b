package services

import (
	"context"
	"testing"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

func newDashboardService(t *testing.T) (DashboardService, repositories.Repository) {
	t.Helper()
	repo := newTestRepo(t)
	return NewDashboardService(repo, testLogger()), repo
}

func TestDashboardService_PublicStats(t *testing.T) {
	service, repo := newDashboardService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	popular := seedCourse(t, repo, instructor.ID, nil)
	seedCourse(t, repo, instructor.ID, func(c *models.Course) { c.IsActive = false })
	seedEnrollment(t, repo, student.ID, popular.ID)

	stats, err := service.PublicStats(ctx)
	if err != nil {
		t.Fatalf("PublicStats() error = %v", err)
	}
	if stats.ActiveCourses != 1 {
		t.Errorf("ActiveCourses = %d, want 1", stats.ActiveCourses)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalEnrollments != 1 {
		t.Errorf("TotalEnrollments = %d, want 1", stats.TotalEnrollments)
	}
	if len(stats.FeaturedCourses) == 0 || stats.FeaturedCourses[0].ID != popular.ID {
		t.Errorf("FeaturedCourses = %v, want %d first", stats.FeaturedCourses, popular.ID)
	}
}

func TestDashboardService_ForUser_Admin(t *testing.T) {
	service, repo := newDashboardService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	instructor := seedUser(t, repo, models.RoleInstructor)
	seedUser(t, repo, models.RoleStudent)
	seedCourse(t, repo, instructor.ID, nil)

	resp, err := service.ForUser(ctx, admin)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if resp.Role != models.RoleAdmin || resp.Admin == nil {
		t.Fatalf("ForUser() response = %+v, want admin dashboard", resp)
	}
	if resp.Admin.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", resp.Admin.TotalUsers)
	}
	if resp.Admin.TotalInstructors != 1 || resp.Admin.TotalStudents != 1 {
		t.Errorf("role counts = %d instructors / %d students", resp.Admin.TotalInstructors, resp.Admin.TotalStudents)
	}
	if len(resp.Admin.RecentUsers) == 0 || len(resp.Admin.RecentCourses) == 0 {
		t.Error("recent lists are empty")
	}
}

func TestDashboardService_ForUser_Instructor(t *testing.T) {
	service, repo := newDashboardService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	other := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	mine := seedCourse(t, repo, instructor.ID, nil)
	seedCourse(t, repo, other.ID, nil)
	seedEnrollment(t, repo, student.ID, mine.ID)

	resp, err := service.ForUser(ctx, instructor)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if resp.Instructor == nil {
		t.Fatal("ForUser() instructor dashboard missing")
	}
	if len(resp.Instructor.Courses) != 1 {
		t.Errorf("courses = %d, want 1 (own only)", len(resp.Instructor.Courses))
	}
	if resp.Instructor.TotalStudents != 1 {
		t.Errorf("total students = %d, want 1", resp.Instructor.TotalStudents)
	}
}

func TestDashboardService_ForUser_Student(t *testing.T) {
	service, repo := newDashboardService(t)
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	other := seedUser(t, repo, models.RoleStudent)

	enrolledCourse := seedCourse(t, repo, instructor.ID, nil)
	openCourse := seedCourse(t, repo, instructor.ID, nil)
	fullCourse := seedCourse(t, repo, instructor.ID, func(c *models.Course) { c.MaxStudents = 1 })
	seedCourse(t, repo, instructor.ID, func(c *models.Course) { c.IsActive = false })

	seedEnrollment(t, repo, student.ID, enrolledCourse.ID)
	seedEnrollment(t, repo, other.ID, fullCourse.ID)

	resp, err := service.ForUser(ctx, student)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if resp.Student == nil {
		t.Fatal("ForUser() student dashboard missing")
	}
	if len(resp.Student.EnrolledCourses) != 1 || resp.Student.EnrolledCourses[0].ID != enrolledCourse.ID {
		t.Errorf("enrolled courses = %v", resp.Student.EnrolledCourses)
	}

	// Available list excludes enrolled, full and inactive courses
	if len(resp.Student.AvailableCourses) != 1 || resp.Student.AvailableCourses[0].ID != openCourse.ID {
		ids := make([]uint, len(resp.Student.AvailableCourses))
		for i, c := range resp.Student.AvailableCourses {
			ids[i] = c.ID
		}
		t.Errorf("available course ids = %v, want [%d]", ids, openCourse.ID)
	}
}
