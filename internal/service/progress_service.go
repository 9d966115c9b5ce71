package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hammaslab/workcard-api/internal/dto"
	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

const progressCacheKey = "progress:course"

// ProgressService computes course-level progress from task statuses.
type ProgressService interface {
	CourseProgress(ctx context.Context) (dto.CourseProgressResponse, error)
	Invalidate(ctx context.Context)
}

type progressService struct {
	tasks    repository.TaskRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewProgressService builds the progress aggregator. The cache client may
// be nil; computation then always hits the repository.
func NewProgressService(tasks repository.TaskRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ProgressService {
	return &progressService{
		tasks:    tasks,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "progress_service").Logger(),
		now:      time.Now,
	}
}

func (s *progressService) CourseProgress(ctx context.Context) (dto.CourseProgressResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, progressCacheKey).Result(); err == nil {
			var response dto.CourseProgressResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("progress cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress cache")
		}
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return dto.CourseProgressResponse{}, err
	}

	byStatus := map[string]int{}
	for _, task := range tasks {
		byStatus[task.Status]++
	}

	response := dto.CourseProgressResponse{
		Progress:   models.CourseProgress(tasks),
		TaskCount:  len(tasks),
		ByStatus:   byStatus,
		ComputedAt: s.now().UTC(),
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, progressCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress cache")
			}
		}
	}

	return response, nil
}

// Invalidate drops the cached summary; the next read recomputes it.
func (s *progressService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, progressCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate progress cache")
	}
}
