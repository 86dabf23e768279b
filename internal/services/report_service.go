package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/campuscms/course-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

const exportSheet = "Enrollments"

// ExportEnrollments renders the filtered ledger as an .xlsx workbook.
// The whole ledger goes into the file; pagination does not apply here.
func (s *reportService) ExportEnrollments(ctx context.Context, filters repositories.EnrollmentFilters) ([]byte, error) {
	enrollments, err := s.repo.Enrollment().ListAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Student", "Student Email", "Course Code", "Course Title", "Status", "Enrolled At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, enrollment := range enrollments {
		values := []interface{}{
			enrollment.ID,
			"",
			"",
			"",
			"",
			string(enrollment.Status),
			enrollment.EnrolledAt.Format("2006-01-02 15:04:05"),
		}
		if enrollment.Student != nil {
			values[1] = enrollment.Student.Username
			values[2] = enrollment.Student.Email
		}
		if enrollment.Course != nil {
			values[3] = enrollment.Course.Code
			values[4] = enrollment.Course.Title
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Enrollment export generated", "rows", len(enrollments))

	return buf.Bytes(), nil
}
