package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/examhall/examhall-api/internal/config"
	"github.com/examhall/examhall-api/internal/handler"
	"github.com/examhall/examhall-api/internal/middleware"
	"github.com/examhall/examhall-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler   *handler.AuthHandler
	ExamHandler   *handler.ExamHandler
	ResultHandler *handler.ResultHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth, jwtMiddleware)
	}

	if deps.ExamHandler != nil {
		exams := api.Group("/exams", jwtMiddleware)
		joinLimiter := middleware.RateLimit("exam-join", cfg.JoinRateLimit, cfg.JoinRateWindow)
		deps.ExamHandler.Register(exams, joinLimiter)
	}

	if deps.ResultHandler != nil {
		results := api.Group("/results", jwtMiddleware)
		deps.ResultHandler.Register(results)
	}
}
