package declaration

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/feed"
	"retrouvaille/internal/service/storage"
)

// Matcher is what the declaration lifecycle needs from the matching
// index: a scan kicked off after each new declaration.
type Matcher interface {
	ScanForMatches(ctx context.Context, decl *domain.Declaration)
}

type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input domain.CreateDeclarationInput, images []domain.Image) (*domain.Declaration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error)
	Update(ctx context.Context, id uuid.UUID, callerID uuid.UUID, input domain.UpdateDeclarationInput) (*domain.Declaration, error)
	AddImages(ctx context.Context, id uuid.UUID, callerID uuid.UUID, images []domain.Image) (*domain.Declaration, error)
	SetActive(ctx context.Context, id uuid.UUID, callerID uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Declaration], error)
	SetMatcher(m Matcher)
}

type service struct {
	declRepo   repository.DeclarationRepository
	matchRepo  repository.MatchRepository
	storageSvc storage.Service
	broker     feed.Broker
	matcher    Matcher
}

func NewService(declRepo repository.DeclarationRepository, matchRepo repository.MatchRepository, storageSvc storage.Service, broker feed.Broker) Service {
	return &service{
		declRepo:   declRepo,
		matchRepo:  matchRepo,
		storageSvc: storageSvc,
		broker:     broker,
	}
}

func (s *service) SetMatcher(m Matcher) {
	s.matcher = m
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input domain.CreateDeclarationInput, images []domain.Image) (*domain.Declaration, error) {
	if !input.Type.Valid() {
		return nil, errors.New("type must be LOSS or FOUND")
	}
	if input.Title == "" || input.Category == "" || input.Location == "" {
		return nil, errors.New("title, category and location are required")
	}
	if input.Date.IsZero() {
		return nil, errors.New("incident date is required")
	}

	decl := &domain.Declaration{
		ID:           uuid.New(),
		Type:         input.Type,
		Title:        input.Title,
		Category:     input.Category,
		Description:  input.Description,
		Condition:    input.Condition,
		Location:     input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Date:         input.Date,
		OwnerID:      ownerID,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Images:       images,
		Active:       true,
		Status:       domain.DeclarationOpen,
		Version:      1,
	}

	if err := s.declRepo.Create(ctx, decl); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OpCreated, decl)

	if s.matcher != nil {
		go s.matcher.ScanForMatches(context.Background(), decl)
	}

	return decl, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error) {
	return s.declRepo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, callerID uuid.UUID, input domain.UpdateDeclarationInput) (*domain.Declaration, error) {
	decl, err := s.mutableByOwner(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	applyPatch(decl, input)

	if err := s.declRepo.Update(ctx, decl); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OpUpdated, decl)
	return decl, nil
}

// AddImages appends to the image list; existing entries keep their
// position.
func (s *service) AddImages(ctx context.Context, id uuid.UUID, callerID uuid.UUID, images []domain.Image) (*domain.Declaration, error) {
	decl, err := s.mutableByOwner(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	decl.Images = append(decl.Images, images...)

	if err := s.declRepo.Update(ctx, decl); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.OpUpdated, decl)
	return decl, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, callerID uuid.UUID, active bool) error {
	decl, err := s.declRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if decl.OwnerID != callerID {
		return domain.ErrPermissionDenied
	}

	if err := s.declRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	decl.Active = active
	s.publish(ctx, domain.OpUpdated, decl)
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) error {
	decl, err := s.declRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if decl.OwnerID != callerID && !isAdmin {
		return domain.ErrPermissionDenied
	}

	if err := s.matchRepo.DeleteForDeclaration(ctx, id); err != nil {
		return err
	}
	if err := s.declRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best-effort; the declaration is already gone.
	for _, img := range decl.Images {
		if err := s.storageSvc.Delete(ctx, img.StoragePath); err != nil {
			log.Printf("declaration: image cleanup for %s: %v", id, err)
		}
	}

	s.publish(ctx, domain.OpDeleted, decl)
	return nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Declaration], error) {
	decls, total, err := s.declRepo.ListByOwner(ctx, ownerID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Declaration]{}, err
	}

	return domain.NewPaginatedResponse(decls, params.Page, params.PageSize, total), nil
}

func (s *service) mutableByOwner(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*domain.Declaration, error) {
	decl, err := s.declRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if decl.OwnerID != callerID {
		return nil, domain.ErrPermissionDenied
	}
	if decl.Status != domain.DeclarationOpen {
		return nil, domain.ErrInvalidTransition
	}
	return decl, nil
}

func applyPatch(decl *domain.Declaration, input domain.UpdateDeclarationInput) {
	if input.Title != nil {
		decl.Title = *input.Title
	}
	if input.Category != nil {
		decl.Category = *input.Category
	}
	if input.Description != nil {
		decl.Description = *input.Description
	}
	if input.Condition != nil {
		decl.Condition = input.Condition
	}
	if input.Location != nil {
		decl.Location = *input.Location
	}
	if input.Latitude != nil {
		decl.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		decl.Longitude = input.Longitude
	}
	if input.Date != nil {
		decl.Date = *input.Date
	}
	if input.ContactEmail != nil {
		decl.ContactEmail = *input.ContactEmail
	}
	if input.ContactPhone != nil {
		decl.ContactPhone = input.ContactPhone
	}
}

func (s *service) publish(ctx context.Context, op domain.ChangeOp, decl *domain.Declaration) {
	if s.broker == nil {
		return
	}

	err := s.broker.Publish(ctx, domain.ChangeEvent{
		Entity:   domain.EntityDeclaration,
		EntityID: decl.ID,
		Op:       op,
		OwnerID:  decl.OwnerID,
		At:       time.Now(),
	})
	if err != nil {
		log.Printf("declaration: publish change event for %s: %v", decl.ID, err)
	}
}
