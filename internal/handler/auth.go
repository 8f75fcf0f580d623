package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/internal/service"
	"github.com/musicu/api/internal/store"
	"github.com/musicu/api/pkg/response"
)

type AuthHandler struct {
	users     *service.UserService
	validator *validator.Validate
}

func NewAuthHandler(users *service.UserService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{
		users:     users,
		validator: v,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.users.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return response.Conflict(c, "An account with this email already exists")
		}
		return response.ServiceError(c, "Registration failed")
	}

	return response.Created(c, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.users.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.ServiceError(c, "Login failed")
	}

	return response.OK(c, result)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only exists
// for the client contract; the client discards its token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.NoContent(c)
}
