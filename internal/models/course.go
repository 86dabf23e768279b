package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"not null;size:200;index"`
	Description  *string         `json:"description" gorm:"type:text"`
	Code         string          `json:"code" gorm:"uniqueIndex;not null;size:20"`
	InstructorID uint            `json:"instructor_id" gorm:"not null;index"`
	StartDate    *datatypes.Date `json:"start_date"`
	EndDate      *datatypes.Date `json:"end_date"`
	IsActive     bool            `json:"is_active" gorm:"not null;default:true;index"`
	MaxStudents  int             `json:"max_students" gorm:"not null;default:50"`
	ThumbnailURL *string         `json:"thumbnail_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Instructor  *User         `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Enrollments []Enrollment  `json:"enrollments,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Videos      []CourseVideo `json:"videos,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	EnrollmentCount int `json:"enrollment_count" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// IsFull reports whether the course has reached its active-enrollment
// capacity. EnrollmentCount must have been populated by the repository.
func (c *Course) IsFull() bool {
	return c.EnrollmentCount >= c.MaxStudents
}
