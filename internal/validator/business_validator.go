package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campuscms/course-service/internal/models"
)

// Domains known to hand out throwaway addresses. Registration rejects them.
var disposableEmailDomains = map[string]bool{
	"tempmail.com":      true,
	"temp-mail.org":     true,
	"throwawaymail.com": true,
}

var courseCodePattern = regexp.MustCompile(`^[A-Z0-9-]{2,20}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateCourseDates(req.StartDate, req.EndDate)...)

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateCourseDates(req.StartDate, req.EndDate)...)

	return errors
}

// ValidateEnrollmentStart validates enrollment preconditions. The duplicate
// check here is advisory; the database unique constraint is authoritative.
func (bv *BusinessValidator) ValidateEnrollmentStart(role models.UserRole, courseActive bool, activeCount, maxStudents int, alreadyEnrolled bool) ValidationErrors {
	var errors ValidationErrors

	if role != models.RoleStudent {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "only students can enroll in courses",
			Value:   role,
			Rule:    "business_logic",
		})
	}

	if !courseActive {
		errors = append(errors, ValidationError{
			Field:   "course",
			Message: "course is not active",
			Rule:    "business_logic",
		})
	}

	if activeCount >= maxStudents {
		errors = append(errors, ValidationError{
			Field:   "course",
			Message: "course is full",
			Value:   activeCount,
			Rule:    "business_logic",
		})
	}

	if alreadyEnrolled {
		errors = append(errors, ValidationError{
			Field:   "enrollment",
			Message: "already enrolled in this course",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateRoleChange validates an admin role change. A user instructing any
// active course keeps the instructor role until those courses are reassigned
// or deactivated.
func (bv *BusinessValidator) ValidateRoleChange(currentRole, newRole models.UserRole, activeCourseCount int) ValidationErrors {
	var errors ValidationErrors

	if !newRole.Valid() {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "invalid role",
			Value:   newRole,
			Rule:    "user_role",
		})
		return errors
	}

	if currentRole == models.RoleInstructor && newRole != models.RoleInstructor && activeCourseCount > 0 {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: fmt.Sprintf("cannot change role while instructing %d active course(s)", activeCourseCount),
			Value:   newRole,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateImageUpload validates an image file before any storage call is made.
func (bv *BusinessValidator) ValidateImageUpload(filename string, size int64, maxSize int64, allowedExtensions []string) ValidationErrors {
	var errors ValidationErrors

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	allowed := false
	for _, e := range allowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file type .%s is not allowed (allowed: %s)", ext, strings.Join(allowedExtensions, ", ")),
			Value:   filename,
			Rule:    "image_extension",
		})
	}

	if size > maxSize {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file exceeds the %d byte limit", maxSize),
			Value:   size,
			Rule:    "image_size",
		})
	}

	return errors
}

func (bv *BusinessValidator) validateCourseDates(startDate, endDate *string) ValidationErrors {
	var errors ValidationErrors

	if startDate == nil || endDate == nil {
		return nil
	}

	start, err1 := time.Parse("2006-01-02", *startDate)
	end, err2 := time.Parse("2006-01-02", *endDate)
	if err1 != nil || err2 != nil {
		return nil // format errors are reported by the datetime tag
	}

	if end.Before(start) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "end date must not be before start date",
			Value:   *endDate,
			Rule:    "business_logic",
		})
	}

	return errors
}

// IsDisposableEmailDomain reports whether the address belongs to a known
// throwaway provider.
func IsDisposableEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return disposableEmailDomains[strings.ToLower(email[at+1:])]
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Role validation (closed set)
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRole(fl.Field().String())
		return err == nil
	})

	// Course code validation (2-20 uppercase letters, digits, hyphens)
	bv.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})

	// Video type validation
	bv.validate.RegisterValidation("video_type", func(fl validator.FieldLevel) bool {
		return models.VideoType(fl.Field().String()).Valid()
	})

	// Enrollment status validation
	bv.validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		return models.EnrollmentStatus(fl.Field().String()).Valid()
	})

	// Disposable email domain rejection
	bv.validate.RegisterValidation("allowed_email", func(fl validator.FieldLevel) bool {
		return !IsDisposableEmailDomain(fl.Field().String())
	})
}
