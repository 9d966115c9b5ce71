package dto

import (
	"time"

	"github.com/hammaslab/workcard-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a new course.
type CourseCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1"`
	Subject      string  `json:"subject" validate:"required"`
	Visibility   string  `json:"visibility" validate:"required,oneof=student teacher both"`
	YearGroup    *string `json:"yearGroup" validate:"omitempty,min=1"`
	StudentCount int     `json:"studentCount" validate:"gte=0"`
	Status       string  `json:"status" validate:"omitempty,oneof=active inactive"`
	CreatedBy    string  `json:"createdBy" validate:"required"`
}

// CourseUpdateRequest describes a partial merge into an existing course.
type CourseUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Subject      *string `json:"subject"`
	Visibility   *string `json:"visibility" validate:"omitempty,oneof=student teacher both"`
	YearGroup    *string `json:"yearGroup"`
	StudentCount *int    `json:"studentCount" validate:"omitempty,gte=0"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	Visibility   string    `json:"visibility"`
	YearGroup    *string   `json:"yearGroup,omitempty"`
	StudentCount int       `json:"studentCount"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:           model.ID,
		Name:         model.Name,
		Subject:      model.Subject,
		Visibility:   model.Visibility,
		YearGroup:    model.YearGroup,
		StudentCount: model.StudentCount,
		Status:       model.Status,
		CreatedBy:    model.CreatedBy,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
