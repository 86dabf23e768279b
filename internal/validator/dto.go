package validator

// RegisterRequest represents the request structure for user registration
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Email     string  `json:"email" validate:"required,email,min=5,max=120,allowed_email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Role      string  `json:"role" validate:"required,oneof=student instructor"`
}

// LoginRequest represents the request structure for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest represents the request structure for profile updates
type ProfileUpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,min=5,max=120,allowed_email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
}

// PasswordChangeRequest represents the request structure for password changes
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// AdminUserUpdateRequest represents the admin request structure for updating users
type AdminUserUpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,min=5,max=120,allowed_email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Role      *string `json:"role" validate:"omitempty,user_role"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Code        string  `json:"code" validate:"required,course_code"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool   `json:"is_active"`
	MaxStudents *int    `json:"max_students" validate:"omitempty,min=1,max=1000"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool   `json:"is_active"`
	MaxStudents *int    `json:"max_students" validate:"omitempty,min=1,max=1000"`
}

// VideoCreateRequest represents the request structure for adding course videos
type VideoCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	VideoType   string  `json:"video_type" validate:"required,video_type"`
	VideoURL    string  `json:"video_url" validate:"required,url,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       int     `json:"order" validate:"omitempty,min=0"`
}

// EnrollmentUpdateRequest represents the admin request structure for updating enrollments
type EnrollmentUpdateRequest struct {
	Status string `json:"status" validate:"required,enrollment_status"`
}
