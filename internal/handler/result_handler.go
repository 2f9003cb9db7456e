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

// ResultHandler manages submission and result viewing endpoints.
type ResultHandler struct {
	results   service.ResultService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewResultHandler builds a result handler instance.
func NewResultHandler(results service.ResultService, dashboard service.DashboardService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		results:   results,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "result_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ResultHandler) Register(router fiber.Router) {
	teacherOnly := middleware.RequireRole(models.RoleTeacher)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	router.Post("/submit", studentOnly, h.submit)
	router.Get("/my-results", studentOnly, h.myResults)
	router.Get("/student/summary", studentOnly, h.studentSummary)
	router.Get("/my-result/:examId", studentOnly, h.myResultForExam)
	router.Get("/exam/:examId", teacherOnly, h.examResults)
	router.Get("/ranking/:examId", teacherOnly, h.ranking)
	router.Get("/detailed/:resultId", h.detailed)
}

func (h *ResultHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.results.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "exam submitted", result)
}

func (h *ResultHandler) myResults(c *fiber.Ctx) error {
	results, err := h.results.MyResults(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *ResultHandler) studentSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.StudentSummary(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "summary retrieved", summary)
}

func (h *ResultHandler) myResultForExam(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.results.MyResultForExam(c.Context(), userIDFromContext(c), examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *ResultHandler) examResults(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	results, err := h.results.ExamResults(c.Context(), principalFromContext(c), examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam results retrieved", results)
}

func (h *ResultHandler) ranking(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ranking, err := h.results.Ranking(c.Context(), principalFromContext(c), examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking retrieved", ranking)
}

func (h *ResultHandler) detailed(c *fiber.Ctx) error {
	resultID, err := parseUintParam(c, "resultId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.results.Detailed(c.Context(), principalFromContext(c), resultID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result detail retrieved", detail)
}

func (h *ResultHandler) handleError(c *fiber.Ctx, err error) error {
	if isInternal(err) {
		h.logger.Error().Err(err).Msg("internal server error")
	}
	return sendDomainError(c, err)
}
