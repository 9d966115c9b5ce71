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

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrInvalidSubject indicates the subject is outside the fixed subject set.
var ErrInvalidSubject = errors.New("unknown subject")

// CourseService exposes course registry use cases.
type CourseService interface {
	ListAll(ctx context.Context) ([]dto.CourseResponse, error)
	ListForStudents(ctx context.Context) ([]dto.CourseResponse, error)
	ListForTeachers(ctx context.Context) ([]dto.CourseResponse, error)
	ListBySubject(ctx context.Context, subject string) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
	SubjectsWithCounts(ctx context.Context) ([]models.SubjectCount, error)
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService builds a new course service.
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) ListAll(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.List(ctx, repository.CourseFilter{})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListForStudents(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.List(ctx, repository.CourseFilter{
		Visibilities: []string{models.CourseVisibilityStudent, models.CourseVisibilityBoth},
		Status:       models.CourseStatusActive,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListForTeachers(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.List(ctx, repository.CourseFilter{
		Visibilities: []string{models.CourseVisibilityTeacher, models.CourseVisibilityBoth},
		Status:       models.CourseStatusActive,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListBySubject(ctx context.Context, subject string) ([]dto.CourseResponse, error) {
	if !models.IsValidSubject(subject) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSubject, subject)
	}
	courses, err := s.repo.List(ctx, repository.CourseFilter{Subject: subject})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}
	if !models.IsValidSubject(payload.Subject) {
		return dto.CourseResponse{}, fmt.Errorf("%w: %s", ErrInvalidSubject, payload.Subject)
	}

	status := payload.Status
	if status == "" {
		status = models.CourseStatusActive
	}

	course := models.Course{
		ID:           uuid.NewString(),
		Name:         payload.Name,
		Subject:      payload.Subject,
		Visibility:   payload.Visibility,
		YearGroup:    payload.YearGroup,
		StudentCount: payload.StudentCount,
		Status:       status,
		CreatedBy:    payload.CreatedBy,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Str("subject", course.Subject).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Name != nil {
		course.Name = *payload.Name
	}
	if payload.Subject != nil {
		if !models.IsValidSubject(*payload.Subject) {
			return dto.CourseResponse{}, fmt.Errorf("%w: %s", ErrInvalidSubject, *payload.Subject)
		}
		course.Subject = *payload.Subject
	}
	if payload.Visibility != nil {
		course.Visibility = *payload.Visibility
	}
	if payload.YearGroup != nil {
		course.YearGroup = payload.YearGroup
	}
	if payload.StudentCount != nil {
		course.StudentCount = *payload.StudentCount
	}
	if payload.Status != nil {
		course.Status = *payload.Status
	}

	if err := s.repo.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Str("course_id", id).Msg("course deleted")
	return nil
}

// SubjectsWithCounts joins the fixed subject list against live course counts.
func (s *courseService) SubjectsWithCounts(ctx context.Context) ([]models.SubjectCount, error) {
	counts := make([]models.SubjectCount, 0, len(models.Subjects))
	for _, subject := range models.Subjects {
		count, err := s.repo.CountBySubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		counts = append(counts, models.SubjectCount{Subject: subject, Count: count})
	}
	return counts, nil
}
