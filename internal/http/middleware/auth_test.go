package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"patientdocs/internal/model"
	"patientdocs/internal/service"
	serviceMocks "patientdocs/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthTestApp(authSvc service.AuthService) *fiber.App {
	app := fiber.New()
	app.Use(Auth(authSvc))
	app.Get("/protected", func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(user.Username)
	})
	return app
}

func TestAuth(t *testing.T) {
	t.Run("valid bearer token resolves the current user", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		mockSvc.On("Authenticate", mock.Anything, "good-token").
			Return(&model.User{ID: "user-1", Username: "alice", IsActive: true}, nil).Once()

		app := newAuthTestApp(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing header", func(t *testing.T) {
		app := newAuthTestApp(new(serviceMocks.MockAuthService))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newAuthTestApp(new(serviceMocks.MockAuthService))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected token", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		mockSvc.On("Authenticate", mock.Anything, "bad-token").
			Return(nil, service.ErrUnauthorized).Once()

		app := newAuthTestApp(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error also rejects", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockAuthService)
		mockSvc.On("Authenticate", mock.Anything, "any-token").
			Return(nil, errors.New("db down")).Once()

		app := newAuthTestApp(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer any-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCurrentUserWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		assert.Nil(t, CurrentUser(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
