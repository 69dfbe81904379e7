package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"retrouvaille/internal/middleware"
	"retrouvaille/internal/service/matching"
)

type MatchHandler struct {
	matchService matching.Service
}

func NewMatchHandler(matchService matching.Service) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) ListCandidates(c *fiber.Ctx) error {
	declarationID, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	matches, err := h.matchService.FindCandidates(c.Context(), declarationID)
	if err != nil {
		return err
	}

	return c.JSON(matches)
}

func (h *MatchHandler) Confirm(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	if err := h.matchService.Confirm(c.Context(), matchID, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Match confirmed"})
}

func (h *MatchHandler) Reject(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	if err := h.matchService.Reject(c.Context(), matchID, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Match rejected"})
}
