package services

import (
	"context"
	"mime/multipart"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type PasswordChangeRequest = validator.PasswordChangeRequest
type AdminUserUpdateRequest = validator.AdminUserUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type AddVideoRequest = validator.VideoCreateRequest
type UpdateEnrollmentRequest = validator.EnrollmentUpdateRequest

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type CourseResponse struct {
	*models.Course
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	IsEnrolled bool `json:"is_enrolled"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}

// ImageUploadResult reports the outcome of a media upload. Warning is set
// when the record was saved but the relay to object storage failed.
type ImageUploadResult struct {
	URL     string `json:"url,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// ===== DASHBOARD DTOs =====

type PublicStats struct {
	ActiveCourses    int64            `json:"active_courses"`
	TotalUsers       int64            `json:"total_users"`
	TotalEnrollments int64            `json:"total_enrollments"`
	FeaturedCourses  []*models.Course `json:"featured_courses"`
}

type AdminDashboard struct {
	TotalUsers       int64            `json:"total_users"`
	TotalStudents    int64            `json:"total_students"`
	TotalInstructors int64            `json:"total_instructors"`
	TotalCourses     int64            `json:"total_courses"`
	ActiveCourses    int64            `json:"active_courses"`
	TotalEnrollments int64            `json:"total_enrollments"`
	RecentUsers      []*models.User   `json:"recent_users"`
	RecentCourses    []*models.Course `json:"recent_courses"`
}

type InstructorDashboard struct {
	Courses       []*models.Course `json:"courses"`
	TotalStudents int64            `json:"total_students"`
}

type StudentDashboard struct {
	EnrolledCourses  []*models.Course `json:"enrolled_courses"`
	AvailableCourses []*models.Course `json:"available_courses"`
}

type DashboardResponse struct {
	Role       models.UserRole      `json:"role"`
	Admin      *AdminDashboard      `json:"admin,omitempty"`
	Instructor *InstructorDashboard `json:"instructor,omitempty"`
	Student    *StudentDashboard    `json:"student,omitempty"`
}

// ===== SERVICE INTERFACES =====

// AuthService handles registration, login and password management.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ChangePassword(ctx context.Context, actor *models.User, req *PasswordChangeRequest) error
}

// UserService handles profile and admin user management.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, req *ProfileUpdateRequest) (*models.User, error)
	UploadProfileImage(ctx context.Context, actor *models.User, fileHeader *multipart.FileHeader) (*ImageUploadResult, error)

	// Admin operations
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	AdminUpdate(ctx context.Context, actor *models.User, id uint, req *AdminUserUpdateRequest) (*models.User, error)
	AdminDelete(ctx context.Context, actor *models.User, id uint) error
}

// CourseService handles the catalog, thumbnails and videos.
type CourseService interface {
	Create(ctx context.Context, actor *models.User, req *CreateCourseRequest) (*CourseResponse, error)
	GetByID(ctx context.Context, id uint, actor *models.User) (*CourseResponse, error)
	List(ctx context.Context, filters repositories.CourseFilters, actor *models.User) (*CourseListResponse, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateCourseRequest) (*CourseResponse, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
	UploadThumbnail(ctx context.Context, actor *models.User, id uint, fileHeader *multipart.FileHeader) (*ImageUploadResult, error)

	// Videos
	AddVideo(ctx context.Context, actor *models.User, courseID uint, req *AddVideoRequest) (*models.CourseVideo, error)
	DeleteVideo(ctx context.Context, actor *models.User, courseID, videoID uint) error
}

// EnrollmentService handles the ledger.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor *models.User, courseID uint) (*models.Enrollment, error)
	Unenroll(ctx context.Context, actor *models.User, courseID uint) error

	// Admin operations
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
	AdminDelete(ctx context.Context, actor *models.User, id uint) error
	AdminUpdateStatus(ctx context.Context, actor *models.User, id uint, req *UpdateEnrollmentRequest) (*models.Enrollment, error)
}

// DashboardService backs the public stats endpoint and role dashboards.
type DashboardService interface {
	PublicStats(ctx context.Context) (*PublicStats, error)
	ForUser(ctx context.Context, actor *models.User) (*DashboardResponse, error)
}

// ReportService exports the enrollment ledger.
type ReportService interface {
	ExportEnrollments(ctx context.Context, filters repositories.EnrollmentFilters) ([]byte, error)
}

// ServiceManager provides access to all services and manages their lifecycle.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Enrollment() EnrollmentService
	Dashboard() DashboardService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
