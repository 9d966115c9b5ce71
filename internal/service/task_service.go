package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/dto"
	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

var (
	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAlreadyApproved indicates a submission against the terminal state.
	ErrTaskAlreadyApproved = errors.New("task is already approved")
	// ErrTaskNotPending indicates a review decision on a task that has no
	// submission awaiting review.
	ErrTaskNotPending = errors.New("task has no pending submission")
)

// ProgressInvalidator drops cached progress after a state change.
type ProgressInvalidator interface {
	Invalidate(ctx context.Context)
}

// ReviewNotifier records a per-student notification after a review decision.
type ReviewNotifier interface {
	NotifyReview(ctx context.Context, studentID, taskID, taskName, decision string)
}

// TaskService owns the task state machine and its conversation and
// submission history.
type TaskService interface {
	List(ctx context.Context) ([]dto.TaskResponse, error)
	Get(ctx context.Context, id string) (dto.TaskResponse, error)
	Create(ctx context.Context, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, id string, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, taskID string, payload dto.TaskSubmitRequest) (dto.TaskResponse, error)
	Review(ctx context.Context, taskID string, payload dto.TaskReviewRequest) (dto.TaskResponse, error)
	PendingSubmissions(ctx context.Context) ([]dto.TaskSubmissionResponse, error)
	SubmissionsForTask(ctx context.Context, taskID string) ([]dto.TaskSubmissionResponse, error)
}

type taskService struct {
	repo        repository.TaskRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	invalidator ProgressInvalidator
	notifier    ReviewNotifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewTaskService builds a new task service. Free-text input from students
// and teachers passes through the sanitizer before storage. The invalidator
// and notifier may be nil when no cache or notification store is wired.
func NewTaskService(repo repository.TaskRepository, submissions repository.SubmissionRepository, validate *validator.Validate, invalidator ProgressInvalidator, notifier ReviewNotifier, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:        repo,
		submissions: submissions,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		invalidator: invalidator,
		notifier:    notifier,
		logger:      logger.With().Str("component", "task_service").Logger(),
		now:         time.Now,
	}
}

func (s *taskService) List(ctx context.Context) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponseSlice(tasks), nil
}

func (s *taskService) Get(ctx context.Context, id string) (dto.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Create(ctx context.Context, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		ID:     uuid.NewString(),
		Name:   payload.Name,
		Status: models.TaskStatusNotStarted,
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Str("task_id", task.ID).Msg("task created")

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, id string, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if payload.Name != nil {
		task.Name = *payload.Name
	}
	if payload.CompletionDate != nil {
		task.CompletionDate = *payload.CompletionDate
	}
	if payload.SelfAssessment != nil {
		task.SelfAssessment = s.sanitizer.Sanitize(*payload.SelfAssessment)
	}
	if payload.TeacherFeedback != nil {
		task.TeacherFeedback = s.sanitizer.Sanitize(*payload.TeacherFeedback)
	}

	if err := s.repo.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Str("task_id", task.ID).Msg("task updated")

	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// Submit moves the task into the submitted state, appends the conversation
// entry and records the submission snapshot, all in one transaction. A task
// coming from needs_corrections produces a resubmission-typed message.
func (s *taskService) Submit(ctx context.Context, taskID string, payload dto.TaskSubmitRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if task.IsTerminal() {
		return dto.TaskResponse{}, ErrTaskAlreadyApproved
	}

	resubmission := task.Status == models.TaskStatusNeedsCorrections
	now := s.now()
	selfAssessment := s.sanitizer.Sanitize(payload.SelfAssessment)

	task.Status = models.TaskStatusSubmitted
	task.CompletionDate = payload.CompletionDate
	task.SelfAssessment = selfAssessment

	messageType := models.MessageTypeSubmission
	if resubmission {
		messageType = models.MessageTypeResubmission
	}
	message := models.ConversationMessage{
		TaskID:    task.ID,
		Sender:    models.SenderStudent,
		Message:   selfAssessment,
		Type:      messageType,
		Timestamp: now,
	}

	submission := models.TaskSubmission{
		TaskID:         task.ID,
		StudentID:      payload.StudentID,
		StudentName:    payload.StudentName,
		CompletionDate: payload.CompletionDate,
		SelfAssessment: selfAssessment,
		SubmissionDate: now,
		Status:         models.TaskStatusSubmitted,
	}

	if err := s.repo.Submit(ctx, &task, &message, &submission); err != nil {
		return dto.TaskResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info().
		Str("task_id", task.ID).
		Str("student_id", payload.StudentID).
		Bool("resubmission", resubmission).
		Msg("task submitted")

	task.Conversation = append(task.Conversation, message)
	return dto.NewTaskResponse(task), nil
}

// Review applies the teacher's decision, appends the feedback conversation
// entry and updates the latest submission of the reviewed student in place,
// all in one transaction. Submissions by other students stay untouched.
func (s *taskService) Review(ctx context.Context, taskID string, payload dto.TaskReviewRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if task.Status != models.TaskStatusSubmitted {
		return dto.TaskResponse{}, ErrTaskNotPending
	}

	now := s.now()
	feedback := s.sanitizer.Sanitize(payload.TeacherFeedback)
	feedbackDate := now.Format(time.RFC3339)

	task.Status = payload.Decision
	task.TeacherFeedback = feedback
	task.FeedbackDate = feedbackDate
	if payload.Decision == models.TaskStatusApproved && payload.TeacherName != "" {
		task.ApprovedBy = payload.TeacherName
	}

	message := models.ConversationMessage{
		TaskID:    task.ID,
		Sender:    models.SenderTeacher,
		Message:   feedback,
		Type:      models.MessageTypeFeedback,
		Timestamp: now,
	}

	var submissionUpdate *models.TaskSubmission
	submission, err := s.submissions.LatestForTaskAndStudent(ctx, task.ID, payload.StudentID)
	switch {
	case err == nil:
		submission.Status = payload.Decision
		submission.TeacherFeedback = feedback
		submission.FeedbackDate = feedbackDate
		submissionUpdate = &submission
	case errors.Is(err, gorm.ErrRecordNotFound):
		// The task can be reviewed even when the snapshot is missing; the
		// snapshot list is history, not the source of truth.
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("student_id", payload.StudentID).
			Msg("no submission snapshot found for review")
	default:
		return dto.TaskResponse{}, err
	}

	if err := s.repo.Review(ctx, &task, &message, submissionUpdate); err != nil {
		return dto.TaskResponse{}, err
	}

	s.invalidate(ctx)
	if s.notifier != nil {
		s.notifier.NotifyReview(ctx, payload.StudentID, task.ID, task.Name, payload.Decision)
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("student_id", payload.StudentID).
		Str("decision", payload.Decision).
		Msg("task reviewed")

	task.Conversation = append(task.Conversation, message)
	return dto.NewTaskResponse(task), nil
}

// PendingSubmissions returns the teacher review queue.
func (s *taskService) PendingSubmissions(ctx context.Context) ([]dto.TaskSubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{Status: models.TaskStatusSubmitted})
	if err != nil {
		return nil, err
	}
	return dto.NewTaskSubmissionResponseSlice(submissions), nil
}

// SubmissionsForTask returns the full resubmission history of one task.
func (s *taskService) SubmissionsForTask(ctx context.Context, taskID string) ([]dto.TaskSubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TaskID: taskID})
	if err != nil {
		return nil, err
	}
	return dto.NewTaskSubmissionResponseSlice(submissions), nil
}

func (s *taskService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
