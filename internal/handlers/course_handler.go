package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListCourses returns a filtered page of the catalog
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (title or code)"
// @Param instructor_id query int false "Filter by instructor"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} services.CourseListResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	filters := h.parseCourseFilters(c)

	resp, err := h.service.List(c.Request.Context(), filters, currentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCourse returns one course with its videos
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting course", "course_id", id)

	resp, err := h.service.GetByID(c.Request.Context(), id, currentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateCourse creates a new course owned by the caller
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body services.CreateCourseRequest true "Course data"
// @Success 201 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Course code taken"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Creating course", "code", req.Code, "instructor_id", actor.ID)

	resp, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateCourse updates a course owned by the caller (or any course for admins)
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body services.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} services.CourseResponse
// @Failure 403 {object} ErrorResponse "Not the course instructor"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	resp, err := h.service.Update(c.Request.Context(), currentUser(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteCourse removes a course with its enrollments and videos
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 204 "Course deleted"
// @Failure 403 {object} ErrorResponse "Not the course instructor"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.service.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadThumbnail uploads a course thumbnail
// @Summary Upload course thumbnail
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Course ID"
// @Param image formData file true "Image file (png, jpg, jpeg; max 16 MiB)"
// @Success 200 {object} services.ImageUploadResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Router /courses/{id}/thumbnail [post]
func (h *CourseHandler) UploadThumbnail(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Image file is required",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Uploading thumbnail", "course_id", id, "filename", fileHeader.Filename)

	result, err := h.service.UploadThumbnail(c.Request.Context(), currentUser(c), id, fileHeader)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddVideo attaches a video to a course
// @Summary Add a course video
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body services.AddVideoRequest true "Video data"
// @Success 201 {object} models.CourseVideo
// @Failure 403 {object} ErrorResponse "Not the course instructor"
// @Router /courses/{id}/videos [post]
func (h *CourseHandler) AddVideo(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Adding course video", "course_id", id)

	video, err := h.service.AddVideo(c.Request.Context(), currentUser(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

// DeleteVideo removes a video from a course
// @Summary Delete a course video
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Param video_id path int true "Video ID"
// @Success 204 "Video deleted"
// @Failure 404 {object} ErrorResponse "Video not found"
// @Router /courses/{id}/videos/{video_id} [delete]
func (h *CourseHandler) DeleteVideo(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	videoID := h.parseIDParam(c, "video_id")
	if videoID == 0 {
		return
	}

	h.LogRequest(c, "Deleting course video", "course_id", id, "video_id", videoID)

	if err := h.service.DeleteVideo(c.Request.Context(), currentUser(c), id, videoID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.CourseFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("instructor_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			instructorID := uint(id)
			filters.InstructorID = &instructorID
		}
	}

	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}

	return filters
}
