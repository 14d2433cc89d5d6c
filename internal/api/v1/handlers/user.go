package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/services"
)

// RegisterParams carries the fields for the register endpoint
type RegisterParams struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginParams carries the fields for the login endpoint
type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserHandler handles HTTP requests for registration and authentication
type UserHandler struct {
	service *services.User
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(s *services.User) *UserHandler {
	return &UserHandler{service: s}
}

// Register handles the request to create a new user account
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var params RegisterParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	user, err := h.service.Register(c.Context(), params.Email, params.Name, params.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Slug: SuccessSlug,
		Data: user,
	})
}

// Login handles the request to authenticate a user
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var params LoginParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	token, err := h.service.Login(c.Context(), params.Email, params.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(errUnauthorized("invalid credentials"))
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: fiber.Map{"token": token},
	})
}
