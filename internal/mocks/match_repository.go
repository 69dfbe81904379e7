package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"retrouvaille/internal/domain"
)

type MatchRepository struct {
	mock.Mock
}

func (m *MatchRepository) Upsert(ctx context.Context, match *domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MatchRepository) ListForDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, error) {
	args := m.Called(ctx, declarationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MatchRepository) DeleteForDeclaration(ctx context.Context, declarationID uuid.UUID) error {
	args := m.Called(ctx, declarationID)
	return args.Error(0)
}
