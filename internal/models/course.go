package models

import "time"

// Course visibility controls which role's course list includes the course.
const (
	CourseVisibilityStudent = "student"
	CourseVisibilityTeacher = "teacher"
	CourseVisibilityBoth    = "both"
)

// Course status values.
const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"
)

// Subjects is the fixed set of dental-education subjects courses belong to.
var Subjects = []string{"Kariologia", "Kirurgia", "Endodontia"}

// Course represents one course students complete work cards for.
type Course struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Subject      string    `gorm:"size:64;index;not null" json:"subject"`
	Visibility   string    `gorm:"size:16;not null" json:"visibility"`
	YearGroup    *string   `gorm:"size:32" json:"yearGroup,omitempty"`
	StudentCount int       `gorm:"not null;default:0" json:"studentCount"`
	Status       string    `gorm:"size:16;index;not null" json:"status"`
	CreatedBy    string    `gorm:"size:128" json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsValidSubject reports whether the subject belongs to the fixed subject set.
func IsValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// VisibleToStudents reports whether the course appears in the student course list.
func (c Course) VisibleToStudents() bool {
	return c.Status == CourseStatusActive &&
		(c.Visibility == CourseVisibilityStudent || c.Visibility == CourseVisibilityBoth)
}

// VisibleToTeachers reports whether the course appears in the teacher course list.
func (c Course) VisibleToTeachers() bool {
	return c.Status == CourseStatusActive &&
		(c.Visibility == CourseVisibilityTeacher || c.Visibility == CourseVisibilityBoth)
}

// SubjectCount pairs a subject with the number of courses assigned to it.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}
