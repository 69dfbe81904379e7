package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"retrouvaille/internal/domain"
)

type DeclarationRepository struct {
	mock.Mock
}

func (m *DeclarationRepository) Create(ctx context.Context, decl *domain.Declaration) error {
	args := m.Called(ctx, decl)
	return args.Error(0)
}

func (m *DeclarationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *DeclarationRepository) Update(ctx context.Context, decl *domain.Declaration) error {
	args := m.Called(ctx, decl)
	return args.Error(0)
}

func (m *DeclarationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *DeclarationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DeclarationRepository) GetAllActive(ctx context.Context) ([]domain.Declaration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *DeclarationRepository) ListActiveByType(ctx context.Context, declType domain.DeclarationType) ([]domain.Declaration, error) {
	args := m.Called(ctx, declType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *DeclarationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.Declaration, int64, error) {
	args := m.Called(ctx, ownerID, params)
	return args.Get(0).([]domain.Declaration), args.Get(1).(int64), args.Error(2)
}
