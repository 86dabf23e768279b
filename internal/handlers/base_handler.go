package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
	"github.com/campuscms/course-service/internal/validator"
)

// ErrorResponse is the error envelope for all endpoints
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides shared helpers for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming handler invocation
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Info(msg, args...)
}

// LogError logs a handler failure
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.Request.URL.Path, "request_id", c.GetString("request_id"))
	h.logger.Error(msg, args...)
}

// parseIDParam parses a numeric path parameter; on failure it writes a 400
// response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// parsePagination reads page/size query params into limit and offset
func (h *BaseHandler) parsePagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	return size, (page - 1) * size
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid username or password",
		})
		return
	}

	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if services.IsPermission(err) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if services.IsConflict(err) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	h.LogError(c, err, "Unhandled service error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
