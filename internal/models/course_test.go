package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSubject(t *testing.T) {
	for _, subject := range Subjects {
		assert.True(t, IsValidSubject(subject))
	}
	assert.False(t, IsValidSubject("Ortodontia"))
	assert.False(t, IsValidSubject(""))
}

func TestCourseVisibility(t *testing.T) {
	cases := []struct {
		visibility   string
		status       string
		wantStudents bool
		wantTeachers bool
	}{
		{CourseVisibilityStudent, CourseStatusActive, true, false},
		{CourseVisibilityTeacher, CourseStatusActive, false, true},
		{CourseVisibilityBoth, CourseStatusActive, true, true},
		{CourseVisibilityStudent, CourseStatusInactive, false, false},
		{CourseVisibilityBoth, CourseStatusInactive, false, false},
	}

	for _, tc := range cases {
		course := Course{Visibility: tc.visibility, Status: tc.status}
		assert.Equal(t, tc.wantStudents, course.VisibleToStudents(), "%s/%s students", tc.visibility, tc.status)
		assert.Equal(t, tc.wantTeachers, course.VisibleToTeachers(), "%s/%s teachers", tc.visibility, tc.status)
	}
}
