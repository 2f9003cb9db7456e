package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/service"
	"github.com/examhall/examhall-api/internal/utils"
)

// AuthHandler manages registration and login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public routes to the provided router group; Me is
// attached separately behind the JWT middleware.
func (h *AuthHandler) Register(router fiber.Router, jwtMiddleware fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Get("/me", jwtMiddleware, h.me)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "user registered", auth)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	auth, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", auth)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	if isInternal(err) {
		h.logger.Error().Err(err).Msg("internal server error")
	}
	return sendDomainError(c, err)
}
