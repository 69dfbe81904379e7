package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"retrouvaille/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Enqueue(ctx context.Context, targetUserID uuid.UUID, notifType domain.NotificationType, title, message string, declarationID *uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, targetUserID, notifType, title, message, declarationID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) NotifyClaimSubmitted(ctx context.Context, decl *domain.Declaration) {
	m.Called(ctx, decl)
}

func (m *NotificationService) NotifyClaimVerified(ctx context.Context, decl *domain.Declaration) {
	m.Called(ctx, decl)
}

func (m *NotificationService) NotifyClaimRejected(ctx context.Context, claimantID uuid.UUID, decl *domain.Declaration, reason *string) {
	m.Called(ctx, claimantID, decl, reason)
}

func (m *NotificationService) NotifyMatchSuggested(ctx context.Context, decl *domain.Declaration, candidate *domain.Declaration, confidence float64) {
	m.Called(ctx, decl, candidate, confidence)
}
