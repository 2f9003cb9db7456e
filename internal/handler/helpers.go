package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/examhall/examhall-api/internal/grading"
	"github.com/examhall/examhall-api/internal/lifecycle"
	"github.com/examhall/examhall-api/internal/policy"
	"github.com/examhall/examhall-api/internal/service"
	"github.com/examhall/examhall-api/internal/utils"
)

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok && id > 0 {
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func principalFromContext(c *fiber.Ctx) policy.Principal {
	return policy.Principal{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

// sendDomainError translates the error taxonomy into envelope responses.
// Clients are expected to branch on status plus the stable message, never on
// incidental wording.
func sendDomainError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, policy.ErrWrongRole):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, policy.ErrNotOwner):
		return utils.SendError(c, fiber.StatusForbidden, "access denied for this resource")
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrInvalidExamKey):
		return utils.SendError(c, fiber.StatusNotFound, "invalid exam key")
	case errors.Is(err, lifecycle.ErrExamNotStarted):
		return utils.SendError(c, fiber.StatusBadRequest, "exam has not started yet")
	case errors.Is(err, lifecycle.ErrExamEnded):
		return utils.SendError(c, fiber.StatusBadRequest, "exam has ended")
	case errors.Is(err, lifecycle.ErrExamNotActive):
		return utils.SendError(c, fiber.StatusBadRequest, "exam is not active")
	case errors.Is(err, lifecycle.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusBadRequest, "you have already taken this exam")
	case errors.Is(err, lifecycle.ErrHasSubmissions):
		return utils.SendError(c, fiber.StatusBadRequest, "exam is locked because it has submissions")
	case errors.Is(err, grading.ErrInvalidSubmission):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission payload")
	case errors.Is(err, service.ErrValidationFailed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusBadRequest, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func isInternal(err error) bool {
	var validationErrors validator.ValidationErrors
	known := []error{
		policy.ErrUnauthenticated, policy.ErrWrongRole, policy.ErrNotOwner,
		service.ErrExamNotFound, service.ErrResultNotFound, service.ErrInvalidExamKey,
		service.ErrValidationFailed, service.ErrEmailTaken, service.ErrInvalidCredentials,
		service.ErrUserNotFound,
		lifecycle.ErrExamNotStarted, lifecycle.ErrExamEnded, lifecycle.ErrExamNotActive,
		lifecycle.ErrAlreadySubmitted, lifecycle.ErrHasSubmissions,
		grading.ErrInvalidSubmission,
	}
	for _, candidate := range known {
		if errors.Is(err, candidate) {
			return false
		}
	}
	return !errors.As(err, &validationErrors)
}
