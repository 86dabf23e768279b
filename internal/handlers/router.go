package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/auth"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *JWTAuthMiddleware
	repo              repositories.Repository
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.Service,
	repo repositories.Repository,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens, repo.User())

	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), serviceManager.Auth(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), serviceManager.Report(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    authMiddleware,
		repo:              repo,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
		}
		v1.GET("/stats", hm.dashboardHandler.Stats)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(hm.authMiddleware.AuthMiddleware())
		{
			// Profile routes
			profile := authed.Group("/profile")
			{
				profile.GET("", hm.userHandler.GetProfile)
				profile.PUT("", hm.userHandler.UpdateProfile)
				profile.POST("/image", hm.userHandler.UploadProfileImage)
				profile.PUT("/password", hm.userHandler.ChangePassword)
			}

			authed.GET("/dashboard", hm.dashboardHandler.Dashboard)

			// Course routes
			courses := authed.Group("/courses")
			{
				// View catalog - all authenticated users
				courses.GET("", hm.courseHandler.ListCourses)
				courses.GET("/:id", hm.courseHandler.GetCourse)

				// Enrollment - students (service enforces the role)
				courses.POST("/:id/enroll", hm.enrollmentHandler.Enroll)
				courses.DELETE("/:id/enroll", hm.enrollmentHandler.Unenroll)

				// Manage courses - Instructors and Admins only
				courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.CreateCourse)
				courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.UpdateCourse)
				courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.DeleteCourse)
				courses.POST("/:id/thumbnail", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.UploadThumbnail)
				courses.POST("/:id/videos", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.AddVideo)
				courses.DELETE("/:id/videos/:video_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.DeleteVideo)
			}

			// Admin routes
			admin := authed.Group("/admin")
			admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
			{
				admin.GET("/users", hm.userHandler.ListUsers)
				admin.PUT("/users/:id", hm.userHandler.UpdateUser)
				admin.DELETE("/users/:id", hm.userHandler.DeleteUser)

				admin.GET("/courses", hm.courseHandler.ListCourses)

				admin.GET("/enrollments", hm.enrollmentHandler.ListEnrollments)
				admin.GET("/enrollments/export", hm.enrollmentHandler.ExportEnrollments)
				admin.PUT("/enrollments/:id", hm.enrollmentHandler.UpdateEnrollment)
				admin.DELETE("/enrollments/:id", hm.enrollmentHandler.DeleteEnrollment)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.repo.Ping(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "course-service",
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})
}
