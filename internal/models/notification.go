package models

import "time"

// Notification types emitted by the review flow.
const (
	NotificationTypeFeedback = "feedback"
	NotificationTypeApproval = "approval"
)

// Notification tells a student their submission was reviewed.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	Type      string    `gorm:"size:32" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	TaskID    string    `gorm:"size:64;index" json:"taskId"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
