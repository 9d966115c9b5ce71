package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hammaslab/workcard-api/internal/dto"
	"github.com/hammaslab/workcard-api/internal/service"
	"github.com/hammaslab/workcard-api/internal/utils"
)

// WorkCardHandler wires work card HTTP routes.
type WorkCardHandler struct {
	service service.WorkCardService
	logger  zerolog.Logger
}

// NewWorkCardHandler constructs the handler.
func NewWorkCardHandler(service service.WorkCardService, logger zerolog.Logger) *WorkCardHandler {
	return &WorkCardHandler{
		service: service,
		logger:  logger.With().Str("component", "workcard_handler").Logger(),
	}
}

// Register attaches work card endpoints to the router group.
func (h *WorkCardHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/archive", h.archive)
	router.Delete("/:id", h.delete)
}

func (h *WorkCardHandler) list(c *fiber.Ctx) error {
	var (
		cards []dto.WorkCardResponse
		err   error
	)

	if courseID := c.Query("courseId"); courseID != "" {
		cards, err = h.service.ListByCourse(c.Context(), courseID)
	} else {
		cards, err = h.service.ListAll(c.Context())
	}
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work cards retrieved", cards)
}

func (h *WorkCardHandler) get(c *fiber.Ctx) error {
	card, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work card retrieved", card)
}

func (h *WorkCardHandler) create(c *fiber.Ctx) error {
	var payload dto.WorkCardCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	card, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "work card created", card)
}

func (h *WorkCardHandler) update(c *fiber.Ctx) error {
	var payload dto.WorkCardUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	card, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work card updated", card)
}

func (h *WorkCardHandler) archive(c *fiber.Ctx) error {
	card, err := h.service.Archive(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work card archived", card)
}

func (h *WorkCardHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work card deleted", fiber.Map{"id": id})
}

func (h *WorkCardHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrWorkCardNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "work card not found")
	case errors.Is(err, service.ErrInvalidFieldDefinition):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
