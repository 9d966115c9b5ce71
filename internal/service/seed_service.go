package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the demo reset endpoint is disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult reports what the startup seeding routine actually did, so the
// caller never has to guess whether defaults were installed.
type SeedResult struct {
	CoursesSeeded int  `json:"coursesSeeded"`
	TasksSeeded   int  `json:"tasksSeeded"`
	Skipped       bool `json:"skipped"`
}

// SeedService installs the default demo catalog. EnsureDefaults runs at
// startup and only seeds empty stores; Reset is a token-guarded demo tool
// that wipes and reseeds on demand.
type SeedService interface {
	EnsureDefaults(ctx context.Context) (SeedResult, error)
	Reset(ctx context.Context, token string) (SeedResult, error)
}

type seedService struct {
	db      *gorm.DB
	courses repository.CourseRepository
	tasks   repository.TaskRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service. The enabled flag and token
// guard only the destructive Reset path.
func NewSeedService(db *gorm.DB, courses repository.CourseRepository, tasks repository.TaskRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		db:      db,
		courses: courses,
		tasks:   tasks,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) EnsureDefaults(ctx context.Context) (SeedResult, error) {
	result := SeedResult{}

	courseCount, err := s.courses.Count(ctx)
	if err != nil {
		return result, err
	}
	taskCount, err := s.tasks.Count(ctx)
	if err != nil {
		return result, err
	}

	if courseCount > 0 && taskCount > 0 {
		result.Skipped = true
		return result, nil
	}

	if courseCount == 0 {
		defaults := DefaultCourses()
		if err := s.courses.CreateBatch(ctx, defaults); err != nil {
			return result, err
		}
		result.CoursesSeeded = len(defaults)
	}

	if taskCount == 0 {
		defaults := DefaultTasks()
		if err := s.tasks.CreateBatch(ctx, defaults); err != nil {
			return result, err
		}
		result.TasksSeeded = len(defaults)
	}

	s.logger.Info().
		Int("courses", result.CoursesSeeded).
		Int("tasks", result.TasksSeeded).
		Msg("default catalog seeded")

	return result, nil
}

func (s *seedService) Reset(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Notification{},
			&models.ConversationMessage{},
			&models.TaskSubmission{},
			&models.Task{},
			&models.WorkCard{},
			&models.Course{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	s.logger.Warn().Msg("demo reset wiped all collections")

	return s.EnsureDefaults(ctx)
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return constantTimeEqual(expected, strings.TrimSpace(token))
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

// DefaultCourses returns the seed catalog: seven Kariologia courses visible
// to students and three year-group courses visible to teachers.
func DefaultCourses() []models.Course {
	studentNames := []string{
		"Kariologia: Diagnostiikka",
		"Kariologia: Karieksen hallinta",
		"Kariologia: Paikkaushoito 1",
		"Kariologia: Paikkaushoito 2",
		"Kariologia: Ennaltaehkaisy",
		"Kariologia: Syventava paikkaushoito",
		"Kariologia: Kliininen harjoittelu",
	}

	courses := make([]models.Course, 0, len(studentNames)+3)
	for _, name := range studentNames {
		courses = append(courses, models.Course{
			ID:         uuid.NewString(),
			Name:       name,
			Subject:    "Kariologia",
			Visibility: models.CourseVisibilityStudent,
			Status:     models.CourseStatusActive,
			CreatedBy:  "system",
		})
	}

	yearGroups := []struct {
		name    string
		subject string
		group   string
	}{
		{"Vuosikurssi HLK3", "Kariologia", "HLK3"},
		{"Vuosikurssi HLK4", "Kirurgia", "HLK4"},
		{"Vuosikurssi HLK5", "Endodontia", "HLK5"},
	}
	for _, yg := range yearGroups {
		group := yg.group
		courses = append(courses, models.Course{
			ID:         uuid.NewString(),
			Name:       yg.name,
			Subject:    yg.subject,
			Visibility: models.CourseVisibilityTeacher,
			YearGroup:  &group,
			Status:     models.CourseStatusActive,
			CreatedBy:  "system",
		})
	}

	return courses
}

// DefaultTasks returns the seed task set, all in the initial state.
func DefaultTasks() []models.Task {
	names := []string{
		"Amalgaamipaikka",
		"Yhdistelmamuovipaikka",
		"Juurihoidon aloitus",
		"Hampaan poisto",
		"Fluorikasittely",
	}

	tasks := make([]models.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, models.Task{
			ID:     uuid.NewString(),
			Name:   name,
			Status: models.TaskStatusNotStarted,
		})
	}
	return tasks
}
