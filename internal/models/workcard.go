package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Work card field types. The set is closed; each type carries its own payload.
const (
	FieldTypeText           = "text"
	FieldTypeTextInput      = "textInput"
	FieldTypeMultipleChoice = "multipleChoice"
	FieldTypeCheckbox       = "checkbox"
	FieldTypeDropdown       = "dropdown"
	FieldTypeTeacherReview  = "teacherReview"
)

// Work card status values. Archived cards stay in storage but drop out of
// the per-course listing.
const (
	WorkCardStatusActive   = "active"
	WorkCardStatusArchived = "archived"
)

// WorkCardField is one entry in a work card's ordered field list.
// Options is meaningful only for multipleChoice/dropdown and StaticText only
// for text; Value holds the filled-in answer once a card instance is completed.
type WorkCardField struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Required   bool     `json:"required"`
	Options    []string `json:"options,omitempty"`
	StaticText string   `json:"staticText,omitempty"`
	Value      string   `json:"value,omitempty"`
}

// Validate checks that the field's payload matches its type variant.
func (f WorkCardField) Validate() error {
	switch f.Type {
	case FieldTypeText:
		if f.StaticText == "" {
			return fmt.Errorf("field %q: static text is required for text fields", f.ID)
		}
		if len(f.Options) > 0 {
			return fmt.Errorf("field %q: text fields do not take options", f.ID)
		}
	case FieldTypeMultipleChoice, FieldTypeDropdown:
		if len(f.Options) == 0 {
			return fmt.Errorf("field %q: %s fields require at least one option", f.ID, f.Type)
		}
	case FieldTypeTextInput, FieldTypeCheckbox, FieldTypeTeacherReview:
		if len(f.Options) > 0 {
			return fmt.Errorf("field %q: %s fields do not take options", f.ID, f.Type)
		}
	default:
		return fmt.Errorf("field %q: unknown field type %q", f.ID, f.Type)
	}
	return nil
}

// WorkCard is a structured template of fields a student fills out to
// document completion of a practical exercise. CourseID is a weak reference;
// the course name is resolved at read time rather than stored alongside it.
type WorkCard struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	CourseID  string         `gorm:"size:64;index" json:"courseId"`
	Fields    datatypes.JSON `gorm:"type:json" json:"fields"`
	Status    string         `gorm:"size:16;index;not null" json:"status"`
	CreatedBy string         `gorm:"size:128" json:"createdBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// FieldList decodes the ordered field list from the JSON column.
func (w WorkCard) FieldList() ([]WorkCardField, error) {
	if len(w.Fields) == 0 {
		return nil, nil
	}
	var fields []WorkCardField
	if err := json.Unmarshal(w.Fields, &fields); err != nil {
		return nil, fmt.Errorf("decode work card fields: %w", err)
	}
	return fields, nil
}

// SetFieldList encodes the ordered field list into the JSON column.
func (w *WorkCard) SetFieldList(fields []WorkCardField) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode work card fields: %w", err)
	}
	w.Fields = datatypes.JSON(encoded)
	return nil
}

// IsActive reports whether the card should appear in per-course listings.
func (w WorkCard) IsActive() bool {
	return w.Status == WorkCardStatusActive
}
