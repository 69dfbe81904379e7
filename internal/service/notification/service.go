package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/email"
)

// Service is the notification dispatcher. Enqueue is durable and
// idempotent per id; email delivery is best-effort glue on top and
// never blocks or fails the caller.
type Service interface {
	Enqueue(ctx context.Context, targetUserID uuid.UUID, notifType domain.NotificationType, title, message string, declarationID *uuid.UUID) (uuid.UUID, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	NotifyClaimSubmitted(ctx context.Context, decl *domain.Declaration)
	NotifyClaimVerified(ctx context.Context, decl *domain.Declaration)
	NotifyClaimRejected(ctx context.Context, claimantID uuid.UUID, decl *domain.Declaration, reason *string)
	NotifyMatchSuggested(ctx context.Context, decl *domain.Declaration, candidate *domain.Declaration, confidence float64)
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

func (s *service) Enqueue(ctx context.Context, targetUserID uuid.UUID, notifType domain.NotificationType, title, message string, declarationID *uuid.UUID) (uuid.UUID, error) {
	notif := &domain.Notification{
		ID:            uuid.New(),
		UserID:        targetUserID,
		Type:          notifType,
		Title:         title,
		Message:       message,
		DeclarationID: declarationID,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return uuid.Nil, err
	}
	return notif.ID, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) NotifyClaimSubmitted(ctx context.Context, decl *domain.Declaration) {
	message := fmt.Sprintf("Quelqu'un affirme être le propriétaire de « %s ». La réclamation attend une vérification.", decl.Title)
	if _, err := s.Enqueue(ctx, decl.OwnerID, domain.NotifVerification, "Nouvelle réclamation", message, &decl.ID); err != nil {
		log.Printf("notification: enqueue claim-submitted for %s: %v", decl.OwnerID, err)
	}

	s.emailOwner(decl.OwnerID, func(name, addr string) error {
		return s.emailSvc.SendClaimSubmittedEmail(context.Background(), addr, name, decl.Title)
	})
}

func (s *service) NotifyClaimVerified(ctx context.Context, decl *domain.Declaration) {
	message := fmt.Sprintf("La réclamation concernant « %s » a été vérifiée. La déclaration est close.", decl.Title)
	if _, err := s.Enqueue(ctx, decl.OwnerID, domain.NotifSuccess, "Réclamation vérifiée", message, &decl.ID); err != nil {
		log.Printf("notification: enqueue claim-verified for %s: %v", decl.OwnerID, err)
	}

	s.emailOwner(decl.OwnerID, func(name, addr string) error {
		return s.emailSvc.SendClaimDecisionEmail(context.Background(), addr, name, decl.Title, "vérifiée")
	})
}

func (s *service) NotifyClaimRejected(ctx context.Context, claimantID uuid.UUID, decl *domain.Declaration, reason *string) {
	message := fmt.Sprintf("Votre réclamation concernant « %s » a été rejetée.", decl.Title)
	if reason != nil && *reason != "" {
		message += " Motif : " + *reason
	}
	if _, err := s.Enqueue(ctx, claimantID, domain.NotifError, "Réclamation rejetée", message, &decl.ID); err != nil {
		log.Printf("notification: enqueue claim-rejected for %s: %v", claimantID, err)
	}

	s.emailOwner(claimantID, func(name, addr string) error {
		return s.emailSvc.SendClaimDecisionEmail(context.Background(), addr, name, decl.Title, "rejetée")
	})
}

func (s *service) NotifyMatchSuggested(ctx context.Context, decl *domain.Declaration, candidate *domain.Declaration, confidence float64) {
	message := fmt.Sprintf("« %s » pourrait correspondre à votre déclaration « %s » (confiance %.0f%%).", decl.Title, candidate.Title, confidence*100)
	if _, err := s.Enqueue(ctx, candidate.OwnerID, domain.NotifMatch, "Correspondance possible", message, &decl.ID); err != nil {
		log.Printf("notification: enqueue match for %s: %v", candidate.OwnerID, err)
	}

	s.emailOwner(candidate.OwnerID, func(name, addr string) error {
		return s.emailSvc.SendMatchAlertEmail(context.Background(), addr, name, candidate.Title, decl.Title)
	})
}

func (s *service) emailOwner(userID uuid.UUID, send func(name, addr string) error) {
	if s.emailSvc == nil {
		return
	}

	go func() {
		user, err := s.userRepo.GetByID(context.Background(), userID)
		if err != nil || user.Email == "" {
			return
		}
		if err := send(user.FullName, user.Email); err != nil {
			log.Printf("notification: email to %s failed: %v", user.Email, err)
		}
	}()
}
