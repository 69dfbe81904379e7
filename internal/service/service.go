package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"retrouvaille/internal/config"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/auth"
	"retrouvaille/internal/service/declaration"
	"retrouvaille/internal/service/email"
	"retrouvaille/internal/service/feed"
	"retrouvaille/internal/service/matching"
	"retrouvaille/internal/service/notification"
	"retrouvaille/internal/service/search"
	"retrouvaille/internal/service/storage"
	"retrouvaille/internal/service/verification"
)

type Services struct {
	Auth         auth.Service
	Declaration  declaration.Service
	Verification verification.Service
	Matching     matching.Service
	Search       search.Service
	Notification notification.Service
	Storage      storage.Service
	Email        email.Service
	Feed         feed.Broker
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	broker := feed.NewBroker(redisClient)

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, cfg)
	storageService := storage.NewService(minioClient, cfg)
	notificationService := notification.NewService(repos.Notification, repos.User, emailService)

	declarationService := declaration.NewService(repos.Declaration, repos.Match, storageService, broker)
	matchingService := matching.NewService(repos.Declaration, repos.Match, notificationService, redisClient, broker, cfg)
	declarationService.SetMatcher(matchingService)

	searchService := search.NewService(repos.Declaration, redisClient, broker)
	verificationService := verification.NewService(repos.Verification, repos.Declaration, repos.User, notificationService, broker)

	return &Services{
		Auth:         authService,
		Declaration:  declarationService,
		Verification: verificationService,
		Matching:     matchingService,
		Search:       searchService,
		Notification: notificationService,
		Storage:      storageService,
		Email:        emailService,
		Feed:         broker,
	}
}
