package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

func TestReportService_ExportEnrollments(t *testing.T) {
	repo := newTestRepo(t)
	service := NewReportService(repo, testLogger())
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)
	seedEnrollment(t, repo, student.ID, course.ID)

	data, err := service.ExportEnrollments(ctx, repositories.EnrollmentFilters{})
	if err != nil {
		t.Fatalf("ExportEnrollments() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not parse: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Enrollments")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 enrollment", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][3] != "Course Code" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][1] != student.Username || rows[1][3] != course.Code {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestReportService_ExportEnrollments_WholeLedger(t *testing.T) {
	repo := newTestRepo(t)
	service := NewReportService(repo, testLogger())
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	course := seedCourse(t, repo, instructor.ID, nil)

	const enrolled = 25
	for i := 0; i < enrolled; i++ {
		student := seedUser(t, repo, models.RoleStudent)
		seedEnrollment(t, repo, student.ID, course.ID)
	}

	data, err := service.ExportEnrollments(ctx, repositories.EnrollmentFilters{})
	if err != nil {
		t.Fatalf("ExportEnrollments() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not parse: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Enrollments")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if got := len(rows) - 1; got != enrolled {
		t.Fatalf("exported rows = %d, want %d (ledger must not be paginated)", got, enrolled)
	}
}

func TestReportService_ExportEnrollments_StatusFilter(t *testing.T) {
	repo := newTestRepo(t)
	service := NewReportService(repo, testLogger())
	ctx := context.Background()

	instructor := seedUser(t, repo, models.RoleInstructor)
	active := seedUser(t, repo, models.RoleStudent)
	dropped := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)

	seedEnrollment(t, repo, active.ID, course.ID)
	enrollment := seedEnrollment(t, repo, dropped.ID, course.ID)
	if err := repo.Enrollment().UpdateStatus(ctx, enrollment.ID, models.EnrollmentDropped); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	status := models.EnrollmentDropped
	data, err := service.ExportEnrollments(ctx, repositories.EnrollmentFilters{Status: &status})
	if err != nil {
		t.Fatalf("ExportEnrollments() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not parse: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Enrollments")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 dropped enrollment", len(rows))
	}
	if rows[1][5] != "dropped" {
		t.Errorf("status column = %q, want dropped", rows[1][5])
	}
}
