package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hammaslab/workcard-api/internal/service"
	"github.com/hammaslab/workcard-api/internal/utils"
)

// SeedHandler exposes the demo reset tooling.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs the handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register attaches the seed endpoints to the router group.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/reset", h.reset)
}

func (h *SeedHandler) reset(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get("X-Seed-Token"))

	result, err := h.service.Reset(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeedDisabled):
			return utils.SendError(c, fiber.StatusForbidden, "seeding is disabled")
		case errors.Is(err, service.ErrSeedUnauthorized):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid seed token")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("demo reset failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "demo data reset", result)
}
