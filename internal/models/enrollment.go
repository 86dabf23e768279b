package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped:
		return true
	}
	return false
}

// Enrollment links one student to one course. The composite unique index is
// the sole guard against a student enrolling in the same course twice; a
// concurrent duplicate insert surfaces as a duplicate-key error and is
// reported as "already enrolled".
type Enrollment struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"student_id" gorm:"not null;uniqueIndex:uq_student_course"`
	CourseID   uint             `json:"course_id" gorm:"not null;uniqueIndex:uq_student_course"`
	Status     EnrollmentStatus `json:"status" gorm:"not null;size:20;default:active;index"`
	EnrolledAt time.Time        `json:"enrolled_at" gorm:"autoCreateTime"`

	// Relations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
