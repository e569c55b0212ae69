package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"patientdocs/internal/service"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse mirrors the classic bearer-token login payload.
type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		AccessToken: res.Token,
		TokenType:   "bearer",
		UserID:      res.UserID,
		Username:    res.Username,
	}
}

// Signup registers a new user and returns a token for it immediately.
// @Summary Register a new user
// @Accept json
// @Produce json
// @Router /signup [post]
func Signup(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "username, email and password are required")
		}

		res, err := authSvc.Signup(c.UserContext(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameTaken):
				return writeError(c, fiber.StatusBadRequest, "USERNAME_TAKEN", service.ErrUsernameTaken.Error())
			case errors.Is(err, service.ErrEmailTaken):
				return writeError(c, fiber.StatusBadRequest, "EMAIL_TAKEN", service.ErrEmailTaken.Error())
			case errors.Is(err, service.ErrWeakPassword):
				return writeError(c, fiber.StatusBadRequest, "WEAK_PASSWORD", service.ErrWeakPassword.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(newAuthResponse(res))
	}
}

// Login verifies credentials and returns a fresh token.
// @Summary Log in with username and password
// @Accept json
// @Produce json
// @Router /login [post]
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := authSvc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", service.ErrInvalidCredentials.Error())
			case errors.Is(err, service.ErrInactiveAccount):
				return writeError(c, fiber.StatusBadRequest, "INACTIVE_ACCOUNT", service.ErrInactiveAccount.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(newAuthResponse(res))
	}
}
