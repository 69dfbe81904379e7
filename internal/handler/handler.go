package handler

import (
	"github.com/gofiber/fiber/v2"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Declaration  *DeclarationHandler
	Verification *VerificationHandler
	Match        *MatchHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Declaration:  NewDeclarationHandler(services.Declaration, services.Search, services.Storage),
		Verification: NewVerificationHandler(services.Verification),
		Match:        NewMatchHandler(services.Matching),
		Notification: NewNotificationHandler(services.Notification),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}
