package handler_test

import (
	"io"
	"net/http/httptest"
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
	"github.com/examhall/examhall-api/internal/middleware"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/repository"
	"github.com/examhall/examhall-api/internal/router"
	"github.com/examhall/examhall-api/internal/service"
)

// setupAuthApp uses the real JWT middleware so the register/login/me flow is
// exercised with actual signed tokens.
func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	authService := service.NewAuthService(repository.NewUserRepository(db), validate, "secret", time.Hour, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(authService, logger),
		JWTMiddleware: middleware.JWTProtected("secret"),
	})

	return app
}

func TestAuthHandlerRegisterLoginMe(t *testing.T) {
	app := setupAuthApp(t)

	registerBody := map[string]string{
		"name":     "Sam Rivera",
		"email":    "sam@example.com",
		"password": "password123",
		"role":     models.RoleStudent,
		"class":    "10A",
	}

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", registerBody, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registered struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
	}
	decodeResponse(t, resp, &registered)
	require.True(t, registered.Success)
	require.NotEmpty(t, registered.Data.Token)
	require.Equal(t, models.RoleStudent, registered.Data.User.Role)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "sam@example.com",
		"password": "password123",
	}, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var loggedIn struct {
		Data dto.AuthResponse `json:"data"`
	}
	decodeResponse(t, resp, &loggedIn)
	require.NotEmpty(t, loggedIn.Data.Token)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Data.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &me)
	require.Equal(t, "sam@example.com", me.Data.Email)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", map[string]string{
		"name":     "Sam Rivera",
		"email":    "sam@example.com",
		"password": "password123",
		"role":     models.RoleStudent,
	}, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "sam@example.com",
		"password": "nope",
	}, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerMeWithoutToken(t *testing.T) {
	app := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	body := map[string]string{
		"name":     "Sam Rivera",
		"email":    "sam@example.com",
		"password": "password123",
		"role":     models.RoleStudent,
	}

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", body, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", body, models.User{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
