package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/feed"
	"retrouvaille/internal/service/notification"
)

// Service runs the claim state machine: pending → verified or
// pending → rejected, both terminal. Approval is the only operation in
// the system that atomically touches more than one declaration.
type Service interface {
	SubmitClaim(ctx context.Context, declarationID uuid.UUID, claimantID uuid.UUID, input domain.SubmitClaimInput) (*domain.Verification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error)
	ListByDeclaration(ctx context.Context, declarationID uuid.UUID, callerID uuid.UUID, isAdmin bool) ([]domain.Verification, error)
	Decide(ctx context.Context, verificationID uuid.UUID, reviewerID uuid.UUID, input domain.DecideInput) error
}

type service struct {
	verifRepo repository.VerificationRepository
	declRepo  repository.DeclarationRepository
	userRepo  repository.UserRepository
	notifSvc  notification.Service
	broker    feed.Broker
}

func NewService(
	verifRepo repository.VerificationRepository,
	declRepo repository.DeclarationRepository,
	userRepo repository.UserRepository,
	notifSvc notification.Service,
	broker feed.Broker,
) Service {
	return &service{
		verifRepo: verifRepo,
		declRepo:  declRepo,
		userRepo:  userRepo,
		notifSvc:  notifSvc,
		broker:    broker,
	}
}

func (s *service) SubmitClaim(ctx context.Context, declarationID uuid.UUID, claimantID uuid.UUID, input domain.SubmitClaimInput) (*domain.Verification, error) {
	decl, err := s.declRepo.GetByID(ctx, declarationID)
	if err != nil {
		return nil, err
	}

	if decl.Status == domain.DeclarationResolved {
		return nil, domain.ErrInvalidTransition
	}
	if decl.OwnerID == claimantID {
		return nil, domain.ErrPermissionDenied
	}
	if input.IdentityDetails == "" {
		return nil, errors.New("identity details are required")
	}

	v := &domain.Verification{
		ID:              uuid.New(),
		DeclarationID:   declarationID,
		ClaimantID:      claimantID,
		IdentityDetails: input.IdentityDetails,
		AdditionalInfo:  input.AdditionalInfo,
		SerialNumber:    input.SerialNumber,
		Status:          domain.VerificationPending,
	}

	if err := s.verifRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.notifSvc.NotifyClaimSubmitted(ctx, decl)
	s.publishVerification(ctx, domain.OpCreated, v)

	return v, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	return s.verifRepo.GetByID(ctx, id)
}

// ListByDeclaration exposes claims, which carry identity details, to
// the declaration owner and admins only.
func (s *service) ListByDeclaration(ctx context.Context, declarationID uuid.UUID, callerID uuid.UUID, isAdmin bool) ([]domain.Verification, error) {
	decl, err := s.declRepo.GetByID(ctx, declarationID)
	if err != nil {
		return nil, err
	}
	if decl.OwnerID != callerID && !isAdmin {
		return nil, domain.ErrPermissionDenied
	}

	return s.verifRepo.ListByDeclaration(ctx, declarationID)
}

func (s *service) Decide(ctx context.Context, verificationID uuid.UUID, reviewerID uuid.UUID, input domain.DecideInput) error {
	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return err
	}
	if !reviewer.IsAdmin() {
		return domain.ErrPermissionDenied
	}

	v, err := s.verifRepo.GetByID(ctx, verificationID)
	if err != nil {
		return err
	}
	if v.Status.Terminal() {
		return domain.ErrInvalidTransition
	}

	switch input.Decision {
	case domain.DecisionReject:
		return s.reject(ctx, v, input.Reason)
	case domain.DecisionVerify:
		return s.verify(ctx, v, input.MatchingDeclarationID)
	default:
		return errors.New("decision must be VERIFY or REJECT")
	}
}

func (s *service) reject(ctx context.Context, v *domain.Verification, reason *string) error {
	if err := s.verifRepo.Reject(ctx, v.ID, reason); err != nil {
		return err
	}

	decl, err := s.declRepo.GetByID(ctx, v.DeclarationID)
	if err == nil {
		s.notifSvc.NotifyClaimRejected(ctx, v.ClaimantID, decl, reason)
	}

	v.Status = domain.VerificationRejected
	s.publishVerification(ctx, domain.OpUpdated, v)
	return nil
}

// verify commits the dual deactivation. Notifications and change
// events follow the commit and never roll it back.
func (s *service) verify(ctx context.Context, v *domain.Verification, matchingID *uuid.UUID) error {
	decl, err := s.declRepo.GetByID(ctx, v.DeclarationID)
	if err != nil {
		return err
	}
	if decl.Status == domain.DeclarationResolved {
		return domain.ErrDecisionConflict
	}

	if matchingID == nil {
		matchingID = v.MatchingDeclarationID
	}

	var matching *domain.Declaration
	if matchingID != nil {
		matching, err = s.declRepo.GetByID(ctx, *matchingID)
		if err != nil {
			return fmt.Errorf("matching declaration: %w", err)
		}
		if matching.Type == decl.Type {
			return errors.New("matching declaration must be of the opposite type")
		}
		if matching.Status == domain.DeclarationResolved {
			return domain.ErrDecisionConflict
		}
	}

	if err := s.verifRepo.Approve(ctx, v.ID, matchingID, decl, matching); err != nil {
		return err
	}

	v.Status = domain.VerificationVerified
	v.MatchingDeclarationID = matchingID

	s.notifSvc.NotifyClaimVerified(ctx, decl)
	if matching != nil {
		s.notifSvc.NotifyClaimVerified(ctx, matching)
	}

	s.publishVerification(ctx, domain.OpUpdated, v)
	s.publishDeclaration(ctx, decl)
	if matching != nil {
		s.publishDeclaration(ctx, matching)
	}
	return nil
}

func (s *service) publishVerification(ctx context.Context, op domain.ChangeOp, v *domain.Verification) {
	if s.broker == nil {
		return
	}

	err := s.broker.Publish(ctx, domain.ChangeEvent{
		Entity:   domain.EntityVerification,
		EntityID: v.ID,
		Op:       op,
		OwnerID:  v.ClaimantID,
		At:       time.Now(),
	})
	if err != nil {
		log.Printf("verification: publish change event for %s: %v", v.ID, err)
	}
}

func (s *service) publishDeclaration(ctx context.Context, decl *domain.Declaration) {
	if s.broker == nil {
		return
	}

	err := s.broker.Publish(ctx, domain.ChangeEvent{
		Entity:   domain.EntityDeclaration,
		EntityID: decl.ID,
		Op:       domain.OpUpdated,
		OwnerID:  decl.OwnerID,
		At:       time.Now(),
	})
	if err != nil {
		log.Printf("verification: publish change event for %s: %v", decl.ID, err)
	}
}
