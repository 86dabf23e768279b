package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
	reports services.ReportService
}

func NewEnrollmentHandler(service services.EnrollmentService, reports services.ReportService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		reports:     reports,
	}
}

// Enroll enrolls the calling student into a course
// @Summary Enroll in a course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 403 {object} ErrorResponse "Only students can enroll"
// @Failure 409 {object} ErrorResponse "Already enrolled, course full or inactive"
// @Router /courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Enrolling student", "course_id", id, "student_id", actor.ID)

	enrollment, err := h.service.Enroll(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Unenroll removes the caller's enrollment from a course
// @Summary Unenroll from a course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 204 "Enrollment removed"
// @Failure 404 {object} ErrorResponse "Not enrolled"
// @Router /courses/{id}/enroll [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Unenrolling student", "course_id", id, "student_id", actor.ID)

	if err := h.service.Unenroll(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListEnrollments lists the ledger with filters (admin only)
// @Summary List enrollments
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param student_id query int false "Filter by student"
// @Param course_id query int false "Filter by course"
// @Param status query string false "Filter by status (active, completed, dropped)"
// @Success 200 {object} services.EnrollmentListResponse
// @Router /admin/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	h.LogRequest(c, "Listing enrollments")

	filters := h.parseEnrollmentFilters(c)

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateEnrollment changes an enrollment's status (admin only)
// @Summary Update enrollment status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body services.UpdateEnrollmentRequest true "New status"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /admin/enrollments/{id} [put]
func (h *EnrollmentHandler) UpdateEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating enrollment", "enrollment_id", id)

	enrollment, err := h.service.AdminUpdateStatus(c.Request.Context(), currentUser(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// DeleteEnrollment removes any enrollment (admin only)
// @Summary Delete an enrollment
// @Tags admin
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 204 "Enrollment deleted"
// @Failure 404 {object} ErrorResponse "Enrollment not found"
// @Router /admin/enrollments/{id} [delete]
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting enrollment", "enrollment_id", id)

	if err := h.service.AdminDelete(c.Request.Context(), currentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportEnrollments streams the filtered ledger as an xlsx workbook (admin only)
// @Summary Export enrollments
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param student_id query int false "Filter by student"
// @Param course_id query int false "Filter by course"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary "Workbook"
// @Router /admin/enrollments/export [get]
func (h *EnrollmentHandler) ExportEnrollments(c *gin.Context) {
	h.LogRequest(c, "Exporting enrollments")

	filters := h.parseEnrollmentFilters(c)

	data, err := h.reports.ExportEnrollments(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("enrollments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *EnrollmentHandler) parseEnrollmentFilters(c *gin.Context) repositories.EnrollmentFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.EnrollmentFilters{
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("student_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			studentID := uint(id)
			filters.StudentID = &studentID
		}
	}
	if raw := c.Query("course_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			courseID := uint(id)
			filters.CourseID = &courseID
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := models.EnrollmentStatus(raw)
		if status.Valid() {
			filters.Status = &status
		}
	}

	return filters
}
