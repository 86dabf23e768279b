package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(userService services.UserService, authService services.AuthService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		authService: authService,
	}
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body services.ProfileUpdateRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Email taken"
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Updating profile", "user_id", actor.ID)

	user, err := h.userService.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadProfileImage uploads a new profile image
// @Summary Upload profile image
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (png, jpg, jpeg; max 16 MiB)"
// @Success 200 {object} services.ImageUploadResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Router /profile/image [post]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Image file is required",
			Details: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Uploading profile image", "user_id", actor.ID, "filename", fileHeader.Filename)

	result, err := h.userService.UploadProfileImage(c.Request.Context(), actor, fileHeader)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ChangePassword updates the authenticated user's password
// @Summary Change password
// @Tags profile
// @Accept json
// @Produce json
// @Param request body services.PasswordChangeRequest true "Current and new password"
// @Success 204 "Password changed"
// @Failure 401 {object} ErrorResponse "Current password incorrect"
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req services.PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Changing password", "user_id", actor.ID)

	if err := h.authService.ChangePassword(c.Request.Context(), actor, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUsers lists users with optional filtering (admin only)
// @Summary List users
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (username, name or email)"
// @Param role query string false "Filter by role (student, instructor, admin)"
// @Success 200 {object} services.UserListResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	resp, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUser applies an admin edit to a user
// @Summary Update a user (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.AdminUserUpdateRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed or guarded role change"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Admin updating user", "user_id", id)

	user, err := h.userService.AdminUpdate(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and everything they own
// @Summary Delete a user (admin)
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 403 {object} ErrorResponse "Cannot delete own account"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	actor := currentUser(c)
	h.LogRequest(c, "Admin deleting user", "user_id", id)

	if err := h.userService.AdminDelete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	limit, offset := h.parsePagination(c)

	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	if roleParam := c.Query("role"); roleParam != "" {
		if role, err := models.ParseRole(roleParam); err == nil {
			filters.Role = &role
		}
	}

	return filters
}
