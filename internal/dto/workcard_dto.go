package dto

import (
	"time"

	"github.com/hammaslab/workcard-api/internal/models"
)

// WorkCardFieldPayload describes one field definition in a work card request.
type WorkCardFieldPayload struct {
	ID         string   `json:"id"`
	Type       string   `json:"type" validate:"required,oneof=text textInput multipleChoice checkbox dropdown teacherReview"`
	Label      string   `json:"label" validate:"required"`
	Required   bool     `json:"required"`
	Options    []string `json:"options,omitempty"`
	StaticText string   `json:"staticText,omitempty"`
	Value      string   `json:"value,omitempty"`
}

// WorkCardCreateRequest describes the payload for creating a work card.
type WorkCardCreateRequest struct {
	Title     string                 `json:"title" validate:"required,min=1"`
	CourseID  string                 `json:"courseId" validate:"required"`
	Fields    []WorkCardFieldPayload `json:"fields" validate:"required,min=1,dive"`
	CreatedBy string                 `json:"createdBy" validate:"required"`
}

// WorkCardUpdateRequest describes a partial update of a work card.
type WorkCardUpdateRequest struct {
	Title    *string                `json:"title" validate:"omitempty,min=1"`
	CourseID *string                `json:"courseId"`
	Fields   []WorkCardFieldPayload `json:"fields" validate:"omitempty,min=1,dive"`
}

// WorkCardResponse is the serialized representation of a work card. The
// course name is resolved from the course registry at read time.
type WorkCardResponse struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	CourseID   string                 `json:"courseId"`
	CourseName string                 `json:"courseName,omitempty"`
	Fields     []models.WorkCardField `json:"fields"`
	Status     string                 `json:"status"`
	CreatedBy  string                 `json:"createdBy"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// NewWorkCardResponse converts a model into a DTO, attaching the resolved
// course name when known.
func NewWorkCardResponse(model models.WorkCard, courseName string) (WorkCardResponse, error) {
	fields, err := model.FieldList()
	if err != nil {
		return WorkCardResponse{}, err
	}
	return WorkCardResponse{
		ID:         model.ID,
		Title:      model.Title,
		CourseID:   model.CourseID,
		CourseName: courseName,
		Fields:     fields,
		Status:     model.Status,
		CreatedBy:  model.CreatedBy,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}

// FieldModels converts request payload fields into model fields.
func FieldModels(payloads []WorkCardFieldPayload) []models.WorkCardField {
	fields := make([]models.WorkCardField, 0, len(payloads))
	for _, p := range payloads {
		fields = append(fields, models.WorkCardField{
			ID:         p.ID,
			Type:       p.Type,
			Label:      p.Label,
			Required:   p.Required,
			Options:    p.Options,
			StaticText: p.StaticText,
			Value:      p.Value,
		})
	}
	return fields
}
