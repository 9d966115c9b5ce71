package models

import (
	"math"
	"time"
)

// Task status state machine:
// not_started -> submitted -> approved (terminal)
//
//	\-> needs_corrections -> submitted (resubmission loop)
const (
	TaskStatusNotStarted       = "not_started"
	TaskStatusSubmitted        = "submitted"
	TaskStatusApproved         = "approved"
	TaskStatusNeedsCorrections = "needs_corrections"
)

// Conversation message senders.
const (
	SenderStudent = "student"
	SenderTeacher = "teacher"
)

// Conversation message types.
const (
	MessageTypeSubmission   = "submission"
	MessageTypeFeedback     = "feedback"
	MessageTypeResubmission = "resubmission"
)

// Task tracks one work card's completion and review status for a student.
// JSON keys for the review fields follow the naming the mobile client
// already persists (Finnish), so payloads stay wire compatible.
type Task struct {
	ID              string                `gorm:"primaryKey;size:64" json:"id"`
	Name            string                `gorm:"size:255;not null" json:"nimi"`
	Status          string                `gorm:"size:32;index;not null" json:"status"`
	CompletionDate  string                `gorm:"size:32" json:"suoritettuPvm"`
	SelfAssessment  string                `gorm:"type:text" json:"itsearviointi"`
	TeacherFeedback string                `gorm:"type:text" json:"opettajanPalaute"`
	FeedbackDate    string                `gorm:"size:64" json:"palautePvm"`
	ApprovedBy      string                `gorm:"size:128" json:"hyvaksyja"`
	Conversation    []ConversationMessage `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"keskustelu"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// IsTerminal reports whether the task has reached its terminal state.
func (t Task) IsTerminal() bool {
	return t.Status == TaskStatusApproved
}

// ConversationMessage is one entry in a task's append-only student/teacher
// exchange.
type ConversationMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    string    `gorm:"size:64;index;not null" json:"taskId"`
	Sender    string    `gorm:"size:16;not null" json:"sender"`
	Message   string    `gorm:"type:text" json:"message"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskSubmission is a snapshot created each time a task is sent for teacher
// review. Multiple rows per task record the resubmission history.
type TaskSubmission struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TaskID          string    `gorm:"size:64;index;not null" json:"taskId"`
	StudentID       string    `gorm:"size:64;index;not null" json:"studentId"`
	StudentName     string    `gorm:"size:128" json:"studentName"`
	CompletionDate  string    `gorm:"size:32" json:"completionDate"`
	SelfAssessment  string    `gorm:"type:text" json:"selfAssessment"`
	SubmissionDate  time.Time `json:"submissionDate"`
	Status          string    `gorm:"size:32;index;not null" json:"status"`
	TeacherFeedback string    `gorm:"type:text" json:"teacherFeedback,omitempty"`
	FeedbackDate    string    `gorm:"size:64" json:"feedbackDate,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TaskProgress maps a task status to its completion percentage.
func TaskProgress(status string) int {
	switch status {
	case TaskStatusNeedsCorrections:
		return 25
	case TaskStatusSubmitted:
		return 50
	case TaskStatusApproved:
		return 100
	default:
		return 0
	}
}

// CourseProgress is the arithmetic mean of the task progress values,
// rounded to the nearest integer. An empty task list yields zero.
func CourseProgress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	total := 0
	for _, task := range tasks {
		total += TaskProgress(task.Status)
	}
	return int(math.Round(float64(total) / float64(len(tasks))))
}
