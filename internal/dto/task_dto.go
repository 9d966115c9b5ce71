package dto

import (
	"time"

	"github.com/hammaslab/workcard-api/internal/models"
)

// TaskCreateRequest describes the payload for creating a task.
type TaskCreateRequest struct {
	Name string `json:"nimi" validate:"required,min=1"`
}

// TaskUpdateRequest describes a partial merge into an existing task.
type TaskUpdateRequest struct {
	Name            *string `json:"nimi" validate:"omitempty,min=1"`
	CompletionDate  *string `json:"suoritettuPvm"`
	SelfAssessment  *string `json:"itsearviointi"`
	TeacherFeedback *string `json:"opettajanPalaute"`
}

// TaskSubmitRequest carries a student's submission of a completed task.
type TaskSubmitRequest struct {
	CompletionDate string `json:"completionDate" validate:"required"`
	SelfAssessment string `json:"selfAssessment" validate:"required,min=1"`
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
}

// TaskReviewRequest carries a teacher's decision on a pending submission.
type TaskReviewRequest struct {
	StudentID       string `json:"studentId" validate:"required"`
	Decision        string `json:"decision" validate:"required,oneof=approved needs_corrections"`
	TeacherFeedback string `json:"teacherFeedback" validate:"required,min=1"`
	TeacherName     string `json:"teacherName"`
}

// ConversationMessageResponse is one serialized conversation entry.
type ConversationMessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskResponse is the serialized representation of a task. Review-field JSON
// keys match what the mobile client persists.
type TaskResponse struct {
	ID              string                        `json:"id"`
	Name            string                        `json:"nimi"`
	Status          string                        `json:"status"`
	Progress        int                           `json:"progress"`
	CompletionDate  string                        `json:"suoritettuPvm,omitempty"`
	SelfAssessment  string                        `json:"itsearviointi,omitempty"`
	TeacherFeedback string                        `json:"opettajanPalaute,omitempty"`
	FeedbackDate    string                        `json:"palautePvm,omitempty"`
	ApprovedBy      string                        `json:"hyvaksyja,omitempty"`
	Conversation    []ConversationMessageResponse `json:"keskustelu"`
	CreatedAt       time.Time                     `json:"createdAt"`
	UpdatedAt       time.Time                     `json:"updatedAt"`
}

// TaskSubmissionResponse is the serialized snapshot of one submission event.
type TaskSubmissionResponse struct {
	ID              uint      `json:"id"`
	TaskID          string    `json:"taskId"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName"`
	CompletionDate  string    `json:"completionDate"`
	SelfAssessment  string    `json:"selfAssessment"`
	SubmissionDate  time.Time `json:"submissionDate"`
	Status          string    `json:"status"`
	TeacherFeedback string    `json:"teacherFeedback,omitempty"`
	FeedbackDate    string    `json:"feedbackDate,omitempty"`
}

// CourseProgressResponse aggregates task progress for a course-level view.
type CourseProgressResponse struct {
	Progress   int            `json:"progress"`
	TaskCount  int            `json:"taskCount"`
	ByStatus   map[string]int `json:"byStatus"`
	ComputedAt time.Time      `json:"computedAt"`
}

// NewTaskResponse converts a model into a DTO.
func NewTaskResponse(model models.Task) TaskResponse {
	conversation := make([]ConversationMessageResponse, 0, len(model.Conversation))
	for _, msg := range model.Conversation {
		conversation = append(conversation, ConversationMessageResponse{
			ID:        msg.ID,
			Sender:    msg.Sender,
			Message:   msg.Message,
			Type:      msg.Type,
			Timestamp: msg.Timestamp,
		})
	}
	return TaskResponse{
		ID:              model.ID,
		Name:            model.Name,
		Status:          model.Status,
		Progress:        models.TaskProgress(model.Status),
		CompletionDate:  model.CompletionDate,
		SelfAssessment:  model.SelfAssessment,
		TeacherFeedback: model.TeacherFeedback,
		FeedbackDate:    model.FeedbackDate,
		ApprovedBy:      model.ApprovedBy,
		Conversation:    conversation,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewTaskResponseSlice converts a slice of models into DTOs.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}

// NewTaskSubmissionResponse converts a model into a DTO.
func NewTaskSubmissionResponse(model models.TaskSubmission) TaskSubmissionResponse {
	return TaskSubmissionResponse{
		ID:              model.ID,
		TaskID:          model.TaskID,
		StudentID:       model.StudentID,
		StudentName:     model.StudentName,
		CompletionDate:  model.CompletionDate,
		SelfAssessment:  model.SelfAssessment,
		SubmissionDate:  model.SubmissionDate,
		Status:          model.Status,
		TeacherFeedback: model.TeacherFeedback,
		FeedbackDate:    model.FeedbackDate,
	}
}

// NewTaskSubmissionResponseSlice converts a slice of models into DTOs.
func NewTaskSubmissionResponseSlice(submissions []models.TaskSubmission) []TaskSubmissionResponse {
	responses := make([]TaskSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewTaskSubmissionResponse(submission))
	}
	return responses
}
