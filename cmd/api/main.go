package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"retrouvaille/internal/config"
	"retrouvaille/internal/domain"
	"retrouvaille/internal/handler"
	"retrouvaille/internal/middleware"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service"
	"retrouvaille/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (falling back to in-process change feed)", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (image upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	// Cache invalidation riders on the change feed.
	services.Search.Start(context.Background())
	services.Matching.Start(context.Background())

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/auth/logout", h.Auth.Logout)

	declarations := protected.Group("/declarations")
	declarations.Post("/", h.Declaration.Create)
	declarations.Get("/search", h.Declaration.Search)
	declarations.Get("/mine", h.Declaration.ListMine)
	declarations.Get("/:declarationId", h.Declaration.Get)
	declarations.Put("/:declarationId", h.Declaration.Update)
	declarations.Post("/:declarationId/images", h.Declaration.UploadImages)
	declarations.Patch("/:declarationId/active", h.Declaration.SetActive)
	declarations.Delete("/:declarationId", h.Declaration.Delete)

	declarations.Post("/:declarationId/claims", h.Verification.SubmitClaim)
	declarations.Get("/:declarationId/claims", h.Verification.ListByDeclaration)
	declarations.Get("/:declarationId/matches", h.Match.ListCandidates)

	verifications := protected.Group("/verifications")
	verifications.Get("/:verificationId", middleware.RequireRole(domain.RoleAdmin), h.Verification.Get)
	verifications.Post("/:verificationId/decide", middleware.RequireRole(domain.RoleAdmin), h.Verification.Decide)

	matches := protected.Group("/matches")
	matches.Post("/:matchId/confirm", h.Match.Confirm)
	matches.Post("/:matchId/reject", h.Match.Reject)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
