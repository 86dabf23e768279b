package models

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// AllRoles is the closed set of valid roles. Any future role extends this
// list, not free-form strings.
var AllRoles = []UserRole{RoleAdmin, RoleInstructor, RoleStudent}

// ParseRole converts a raw string into a UserRole, rejecting anything
// outside the closed set.
func ParseRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

func (r UserRole) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:120"`
	PasswordHash string   `json:"-" gorm:"not null;size:256"`
	FirstName    *string  `json:"first_name" gorm:"size:50"`
	LastName     *string  `json:"last_name" gorm:"size:50"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:student;index"`

	// Profile info
	ProfileImageURL *string `json:"profile_image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Courses     []Course     `json:"courses,omitempty" gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// FullName returns "First Last" when both parts are present, otherwise the
// username.
func (u *User) FullName() string {
	if u.FirstName != nil && u.LastName != nil && *u.FirstName != "" && *u.LastName != "" {
		return *u.FirstName + " " + *u.LastName
	}
	return u.Username
}
