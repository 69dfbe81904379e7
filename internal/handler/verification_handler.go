package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/middleware"
	"retrouvaille/internal/service/verification"
)

type VerificationHandler struct {
	verifService verification.Service
}

func NewVerificationHandler(verifService verification.Service) *VerificationHandler {
	return &VerificationHandler{verifService: verifService}
}

func (h *VerificationHandler) SubmitClaim(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	declarationID, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	var input domain.SubmitClaimInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	v, err := h.verifService.SubmitClaim(c.Context(), declarationID, userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(v)
}

func (h *VerificationHandler) ListByDeclaration(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	declarationID, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	verifications, err := h.verifService.ListByDeclaration(c.Context(), declarationID, user.ID, user.IsAdmin())
	if err != nil {
		return err
	}

	return c.JSON(verifications)
}

func (h *VerificationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("verificationId"))
	if err != nil {
		return middleware.BadRequest("Invalid verification ID")
	}

	v, err := h.verifService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(v)
}

func (h *VerificationHandler) Decide(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := uuid.Parse(c.Params("verificationId"))
	if err != nil {
		return middleware.BadRequest("Invalid verification ID")
	}

	var input domain.DecideInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.verifService.Decide(c.Context(), id, userID, input); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Decision recorded"})
}
