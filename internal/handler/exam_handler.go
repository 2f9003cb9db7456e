package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/middleware"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/service"
	"github.com/examhall/examhall-api/internal/utils"
)

// ExamHandler manages exam authoring and join/fetch endpoints.
type ExamHandler struct {
	service service.ExamService
	logger  zerolog.Logger
}

// NewExamHandler builds an exam handler instance.
func NewExamHandler(service service.ExamService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		service: service,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. joinLimiter
// throttles key lookups so exam keys cannot be brute forced.
func (h *ExamHandler) Register(router fiber.Router, joinLimiter fiber.Handler) {
	teacherOnly := middleware.RequireRole(models.RoleTeacher)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	router.Post("", teacherOnly, h.create)
	router.Get("/teacher", teacherOnly, h.listForTeacher)
	router.Get("/available", studentOnly, h.listAvailable)
	if joinLimiter != nil {
		router.Post("/join", studentOnly, joinLimiter, h.join)
	} else {
		router.Post("/join", studentOnly, h.join)
	}
	router.Get("/:id", teacherOnly, h.get)
	router.Put("/:id", teacherOnly, h.update)
	router.Delete("/:id", teacherOnly, h.delete)
	router.Get("/:id/questions", studentOnly, h.questions)
}

func (h *ExamHandler) create(c *fiber.Ctx) error {
	var payload dto.ExamCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "exam created", exam)
}

func (h *ExamHandler) listForTeacher(c *fiber.Ctx) error {
	exams, err := h.service.ListForTeacher(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *ExamHandler) listAvailable(c *fiber.Ctx) error {
	exams, err := h.service.ListAvailable(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "available exams retrieved", exams)
}

func (h *ExamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	exam, err := h.service.GetForOwner(c.Context(), principalFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam retrieved", exam)
}

func (h *ExamHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.service.Update(c.Context(), principalFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam updated", exam)
}

func (h *ExamHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), principalFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam deleted", nil)
}

func (h *ExamHandler) join(c *fiber.Ctx) error {
	var payload dto.JoinRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	joined, err := h.service.JoinByKey(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam joined", joined)
}

func (h *ExamHandler) questions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	paper, err := h.service.QuestionsForStudent(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", paper)
}

func (h *ExamHandler) handleError(c *fiber.Ctx, err error) error {
	if isInternal(err) {
		h.logger.Error().Err(err).Msg("internal server error")
	}
	return sendDomainError(c, err)
}
