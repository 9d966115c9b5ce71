package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
)

// TaskRepository defines persistence operations for tasks and their
// conversation history. Submit and Review span the task, conversation and
// submission tables inside a single transaction so a crash can never leave
// the collections disagreeing about a submission.
type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	CreateBatch(ctx context.Context, tasks []models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Submit(ctx context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error
	Review(ctx context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Conversation", func(db *gorm.DB) *gorm.DB {
			return db.Order("conversation_messages.timestamp ASC, conversation_messages.id ASC")
		}).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Conversation", func(db *gorm.DB) *gorm.DB {
			return db.Order("conversation_messages.timestamp ASC, conversation_messages.id ASC")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Conversation").Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Submit persists the task state change, the conversation entry and the new
// submission snapshot atomically.
func (r *taskRepository) Submit(ctx context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Conversation").Save(task).Error; err != nil {
			return err
		}
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Create(submission).Error
	})
}

// Review persists the decision on the task, the feedback conversation entry
// and the in-place update of the matching submission snapshot atomically.
// The submission must already carry its primary key.
func (r *taskRepository) Review(ctx context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Conversation").Save(task).Error; err != nil {
			return err
		}
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if submission != nil {
			return tx.Save(submission).Error
		}
		return nil
	})
}
