package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
)

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	TaskID    string
	StudentID string
	Status    string
}

// SubmissionRepository defines read operations over the submission history.
// Writes that accompany a task state change go through TaskRepository.Submit
// and TaskRepository.Review instead.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.TaskSubmission, error)
	LatestForTaskAndStudent(ctx context.Context, taskID, studentID string) (models.TaskSubmission, error)
	Count(ctx context.Context) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.TaskSubmission, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskSubmission{})

	if filter.TaskID != "" {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var submissions []models.TaskSubmission
	if err := query.Order("submission_date ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// LatestForTaskAndStudent returns the most recent submission snapshot for
// the given task/student pair; resubmissions make earlier rows historical.
func (r *submissionRepository) LatestForTaskAndStudent(ctx context.Context, taskID, studentID string) (models.TaskSubmission, error) {
	var submission models.TaskSubmission
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		Order("submission_date DESC, id DESC").
		First(&submission).Error
	if err != nil {
		return models.TaskSubmission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TaskSubmission{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
