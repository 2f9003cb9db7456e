package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/config"
	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/handler"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/repository"
	"github.com/examhall/examhall-api/internal/router"
	"github.com/examhall/examhall-api/internal/service"
)

// setupApp wires the full stack against an in-memory sqlite database. The JWT
// middleware is replaced by a stub that reads the principal from test headers,
// so each request can impersonate a different user.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Exam{}, &models.Question{}, &models.Option{}, &models.Result{}, &models.Answer{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewResultRepository(db)

	authService := service.NewAuthService(userRepo, validate, "secret", time.Hour, logger)
	examService := service.NewExamService(examRepo, resultRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, examRepo, validate, logger)
	dashboardService := service.NewDashboardService(resultRepo, nil, time.Minute, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(authService, logger),
		ExamHandler:   handler.NewExamHandler(examService, logger),
		ResultHandler: handler.NewResultHandler(resultService, dashboardService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if raw := c.Get("X-Test-User"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 64)
				if err == nil {
					c.Locals("user_id", uint(parsed))
					c.Locals("user_role", c.Get("X-Test-Role"))
				}
			}
			return c.Next()
		},
	})

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func jsonRequest(t *testing.T, method, target string, payload interface{}, as models.User) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as.ID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(as.ID), 10))
		req.Header.Set("X-Test-Role", as.Role)
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func examCreateBody(start, end time.Time) map[string]interface{} {
	question := func(correct int) map[string]interface{} {
		options := make([]map[string]interface{}, 0, 4)
		for i := 0; i < 4; i++ {
			options = append(options, map[string]interface{}{
				"text":       "option " + strconv.Itoa(i),
				"is_correct": i == correct,
			})
		}
		return map[string]interface{}{
			"text":    "What is the answer?",
			"marks":   1,
			"options": options,
		}
	}

	return map[string]interface{}{
		"title":      "Algebra Midterm",
		"subject":    "Mathematics",
		"questions":  []interface{}{question(0), question(2)},
		"duration":   30,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
}

func createExamViaAPI(t *testing.T, app *fiber.App, teacher models.User, start, end time.Time) dto.ExamResponse {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/exams", examCreateBody(start, end), teacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.ExamResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.NotZero(t, body.Data.ID)
	return body.Data
}
