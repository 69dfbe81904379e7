package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/mocks"
)

func newNotificationService() (Service, *mocks.NotificationRepository) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	return NewService(notifRepo, userRepo, nil), notifRepo
}

func TestEnqueue_PersistsNotification(t *testing.T) {
	svc, notifRepo := newNotificationService()
	targetID := uuid.New()
	declID := uuid.New()

	var created *domain.Notification
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Notification)
		}).
		Return(nil)

	id, err := svc.Enqueue(context.Background(), targetID, domain.NotifMatch, "Correspondance possible", "message", &declID)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, targetID, created.UserID)
	assert.Equal(t, domain.NotifMatch, created.Type)
	assert.Equal(t, &declID, created.DeclarationID)
}

func TestEnqueue_StoreFailure(t *testing.T) {
	svc, notifRepo := newNotificationService()

	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(errors.New("connection reset"))

	id, err := svc.Enqueue(context.Background(), uuid.New(), domain.NotifInfo, "t", "m", nil)

	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}

func TestNotifyClaimRejected_IncludesReason(t *testing.T) {
	svc, notifRepo := newNotificationService()
	claimantID := uuid.New()
	decl := &domain.Declaration{ID: uuid.New(), Title: "Portefeuille en cuir", OwnerID: uuid.New()}
	reason := "numéro de série incorrect"

	var created *domain.Notification
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Notification)
		}).
		Return(nil)

	svc.NotifyClaimRejected(context.Background(), claimantID, decl, &reason)

	require.NotNil(t, created)
	assert.Equal(t, claimantID, created.UserID)
	assert.Equal(t, domain.NotifError, created.Type)
	assert.Contains(t, created.Message, "Portefeuille en cuir")
	assert.Contains(t, created.Message, reason)
}

func TestList_Delegates(t *testing.T) {
	svc, notifRepo := newNotificationService()
	userID := uuid.New()
	params := domain.PaginationParams{Page: 1, PageSize: 10}

	notifRepo.On("ListByUser", mock.Anything, userID, true, params).
		Return([]domain.Notification{{ID: uuid.New()}}, int64(1), nil)

	resp, err := svc.List(context.Background(), userID, true, params)

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.TotalItems)
}
