package handler

import (
	"github.com/gofiber/fiber/v2"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/middleware"
	"retrouvaille/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return middleware.BadRequest(err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return middleware.Unauthorized(err.Error())
	}

	return c.JSON(resp)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, err := h.authService.RefreshToken(c.Context(), input.RefreshToken)
	if err != nil {
		return middleware.Unauthorized(err.Error())
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	if err := h.authService.Logout(c.Context(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}
