package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
)

// WorkCardRepository defines persistence operations for work cards.
type WorkCardRepository interface {
	List(ctx context.Context) ([]models.WorkCard, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.WorkCard, error)
	GetByID(ctx context.Context, id string) (models.WorkCard, error)
	Create(ctx context.Context, card *models.WorkCard) error
	Update(ctx context.Context, card *models.WorkCard) error
	Delete(ctx context.Context, id string) error
}

type workCardRepository struct {
	db *gorm.DB
}

// NewWorkCardRepository instantiates a GORM-backed repository.
func NewWorkCardRepository(db *gorm.DB) WorkCardRepository {
	return &workCardRepository{db: db}
}

func (r *workCardRepository) List(ctx context.Context) ([]models.WorkCard, error) {
	var cards []models.WorkCard
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByCourse returns only active cards; archived ones stay out of the
// per-course view but remain reachable through List.
func (r *workCardRepository) ListByCourse(ctx context.Context, courseID string) ([]models.WorkCard, error) {
	var cards []models.WorkCard
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND status = ?", courseID, models.WorkCardStatusActive).
		Order("created_at ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *workCardRepository) GetByID(ctx context.Context, id string) (models.WorkCard, error) {
	var card models.WorkCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return models.WorkCard{}, err
	}
	return card, nil
}

func (r *workCardRepository) Create(ctx context.Context, card *models.WorkCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *workCardRepository) Update(ctx context.Context, card *models.WorkCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *workCardRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.WorkCard{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
