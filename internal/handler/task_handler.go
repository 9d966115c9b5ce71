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

// TaskHandler wires task and submission HTTP routes.
type TaskHandler struct {
	service  service.TaskService
	progress service.ProgressService
	logger   zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, progress service.ProgressService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service:  service,
		progress: progress,
		logger:   logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches task endpoints to the router group. The optional
// submitLimiter guards only the submit route so reads stay unthrottled.
func (h *TaskHandler) Register(router fiber.Router, submitLimiter fiber.Handler) {
	router.Get("", h.list)
	router.Get("/progress", h.courseProgress)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	if submitLimiter != nil {
		router.Post("/:id/submit", submitLimiter, h.submit)
	} else {
		router.Post("/:id/submit", h.submit)
	}
	router.Get("/:id/submissions", h.submissions)
}

// RegisterReview attaches the teacher-side review endpoints, typically
// behind a teacher-role guard.
func (h *TaskHandler) RegisterReview(router fiber.Router) {
	router.Get("/pending", h.pending)
	router.Post("/:id", h.review)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	task, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task retrieved", task)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task updated", task)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task deleted", fiber.Map{"id": id})
}

func (h *TaskHandler) submit(c *fiber.Ctx) error {
	var payload dto.TaskSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if payload.StudentID == "" {
		payload.StudentID = userIDFromContext(c)
	}

	task, err := h.service.Submit(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task submitted", task)
}

func (h *TaskHandler) review(c *fiber.Ctx) error {
	var payload dto.TaskReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.Review(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task reviewed", task)
}

func (h *TaskHandler) pending(c *fiber.Ctx) error {
	submissions, err := h.service.PendingSubmissions(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending submissions retrieved", submissions)
}

func (h *TaskHandler) submissions(c *fiber.Ctx) error {
	submissions, err := h.service.SubmissionsForTask(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "task submissions retrieved", submissions)
}

func (h *TaskHandler) courseProgress(c *fiber.Ctx) error {
	progress, err := h.progress.CourseProgress(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course progress computed", progress)
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrTaskAlreadyApproved):
		return utils.SendError(c, fiber.StatusConflict, "task is already approved")
	case errors.Is(err, service.ErrTaskNotPending):
		return utils.SendError(c, fiber.StatusConflict, "task has no pending submission")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
