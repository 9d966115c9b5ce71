package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/dto"
	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

// ErrWorkCardNotFound indicates the requested work card does not exist.
var ErrWorkCardNotFound = errors.New("work card not found")

// ErrInvalidFieldDefinition indicates a field payload does not match its
// declared type variant.
var ErrInvalidFieldDefinition = errors.New("invalid field definition")

// WorkCardService exposes work card registry use cases.
type WorkCardService interface {
	ListAll(ctx context.Context) ([]dto.WorkCardResponse, error)
	ListByCourse(ctx context.Context, courseID string) ([]dto.WorkCardResponse, error)
	Get(ctx context.Context, id string) (dto.WorkCardResponse, error)
	Create(ctx context.Context, payload dto.WorkCardCreateRequest) (dto.WorkCardResponse, error)
	Update(ctx context.Context, id string, payload dto.WorkCardUpdateRequest) (dto.WorkCardResponse, error)
	Archive(ctx context.Context, id string) (dto.WorkCardResponse, error)
	Delete(ctx context.Context, id string) error
}

type workCardService struct {
	repo      repository.WorkCardRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewWorkCardService builds a new work card service. The course repository
// is used to resolve course names at read time; the course reference itself
// stays weak, matching how cards and courses drift independently.
func NewWorkCardService(repo repository.WorkCardRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) WorkCardService {
	return &workCardService{
		repo:      repo,
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "workcard_service").Logger(),
	}
}

func (s *workCardService) ListAll(ctx context.Context) ([]dto.WorkCardResponse, error) {
	cards, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, cards)
}

func (s *workCardService) ListByCourse(ctx context.Context, courseID string) ([]dto.WorkCardResponse, error) {
	cards, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, cards)
}

func (s *workCardService) Get(ctx context.Context, id string) (dto.WorkCardResponse, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.WorkCardResponse{}, ErrWorkCardNotFound
		}
		return dto.WorkCardResponse{}, err
	}
	return dto.NewWorkCardResponse(card, s.courseName(ctx, card.CourseID))
}

func (s *workCardService) Create(ctx context.Context, payload dto.WorkCardCreateRequest) (dto.WorkCardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkCardResponse{}, err
	}

	fields, err := buildFieldList(payload.Fields)
	if err != nil {
		return dto.WorkCardResponse{}, err
	}

	card := models.WorkCard{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		CourseID:  payload.CourseID,
		Status:    models.WorkCardStatusActive,
		CreatedBy: payload.CreatedBy,
	}
	if err := card.SetFieldList(fields); err != nil {
		return dto.WorkCardResponse{}, err
	}

	if err := s.repo.Create(ctx, &card); err != nil {
		return dto.WorkCardResponse{}, err
	}

	s.logger.Info().Str("workcard_id", card.ID).Str("course_id", card.CourseID).Msg("work card created")

	return dto.NewWorkCardResponse(card, s.courseName(ctx, card.CourseID))
}

func (s *workCardService) Update(ctx context.Context, id string, payload dto.WorkCardUpdateRequest) (dto.WorkCardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkCardResponse{}, err
	}

	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.WorkCardResponse{}, ErrWorkCardNotFound
		}
		return dto.WorkCardResponse{}, err
	}

	if payload.Title != nil {
		card.Title = *payload.Title
	}
	if payload.CourseID != nil {
		card.CourseID = *payload.CourseID
	}
	if payload.Fields != nil {
		fields, err := buildFieldList(payload.Fields)
		if err != nil {
			return dto.WorkCardResponse{}, err
		}
		if err := card.SetFieldList(fields); err != nil {
			return dto.WorkCardResponse{}, err
		}
	}

	if err := s.repo.Update(ctx, &card); err != nil {
		return dto.WorkCardResponse{}, err
	}

	s.logger.Info().Str("workcard_id", card.ID).Msg("work card updated")

	return dto.NewWorkCardResponse(card, s.courseName(ctx, card.CourseID))
}

// Archive keeps the card in storage but drops it from per-course listings.
func (s *workCardService) Archive(ctx context.Context, id string) (dto.WorkCardResponse, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.WorkCardResponse{}, ErrWorkCardNotFound
		}
		return dto.WorkCardResponse{}, err
	}

	card.Status = models.WorkCardStatusArchived
	if err := s.repo.Update(ctx, &card); err != nil {
		return dto.WorkCardResponse{}, err
	}

	s.logger.Info().Str("workcard_id", card.ID).Msg("work card archived")

	return dto.NewWorkCardResponse(card, s.courseName(ctx, card.CourseID))
}

// Delete removes the card permanently. Tasks referencing the card are not
// checked; the reference is weak by design of the data model.
func (s *workCardService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkCardNotFound
		}
		return err
	}

	s.logger.Info().Str("workcard_id", id).Msg("work card deleted")
	return nil
}

// buildFieldList converts payload fields into models, assigns ids where the
// client left them blank, and enforces the per-variant payload rules plus
// id uniqueness within the card.
func buildFieldList(payloads []dto.WorkCardFieldPayload) ([]models.WorkCardField, error) {
	fields := dto.FieldModels(payloads)
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = uuid.NewString()
		}
		if _, dup := seen[fields[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate field id %q", ErrInvalidFieldDefinition, fields[i].ID)
		}
		seen[fields[i].ID] = struct{}{}
		if err := fields[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFieldDefinition, err)
		}
	}
	return fields, nil
}

func (s *workCardService) toResponses(ctx context.Context, cards []models.WorkCard) ([]dto.WorkCardResponse, error) {
	names := map[string]string{}
	responses := make([]dto.WorkCardResponse, 0, len(cards))
	for _, card := range cards {
		name, ok := names[card.CourseID]
		if !ok {
			name = s.courseName(ctx, card.CourseID)
			names[card.CourseID] = name
		}
		response, err := dto.NewWorkCardResponse(card, name)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// courseName resolves the weak course reference; a dangling reference is
// not an error, the name is simply empty.
func (s *workCardService) courseName(ctx context.Context, courseID string) string {
	if courseID == "" {
		return ""
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("course_id", courseID).Msg("failed to resolve course name")
		}
		return ""
	}
	return course.Name
}
