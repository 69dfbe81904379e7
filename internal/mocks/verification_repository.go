package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"retrouvaille/internal/domain"
)

type VerificationRepository struct {
	mock.Mock
}

func (m *VerificationRepository) Create(ctx context.Context, v *domain.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verification), args.Error(1)
}

func (m *VerificationRepository) ListByDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Verification, error) {
	args := m.Called(ctx, declarationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Verification), args.Error(1)
}

func (m *VerificationRepository) Reject(ctx context.Context, id uuid.UUID, reason *string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *VerificationRepository) Approve(ctx context.Context, id uuid.UUID, matchingID *uuid.UUID, decl *domain.Declaration, matching *domain.Declaration) error {
	args := m.Called(ctx, id, matchingID, decl, matching)
	return args.Error(0)
}
