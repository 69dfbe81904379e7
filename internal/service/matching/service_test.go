package matching

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retrouvaille/internal/config"
	"retrouvaille/internal/domain"
	"retrouvaille/internal/mocks"
)

const testDateWindow = 30 * 24 * time.Hour

type matchingFixture struct {
	declRepo  *mocks.DeclarationRepository
	matchRepo *mocks.MatchRepository
	notifSvc  *mocks.NotificationService
	svc       Service
}

func newMatchingFixture() *matchingFixture {
	f := &matchingFixture{
		declRepo:  new(mocks.DeclarationRepository),
		matchRepo: new(mocks.MatchRepository),
		notifSvc:  new(mocks.NotificationService),
	}
	cfg := &config.Config{MatchDateWindowDays: 30, MatchNotifyThreshold: 0.5}
	f.svc = NewService(f.declRepo, f.matchRepo, f.notifSvc, nil, nil, cfg)
	return f
}

func declaration(declType domain.DeclarationType, category, location string, date time.Time) domain.Declaration {
	return domain.Declaration{
		ID:        uuid.New(),
		Type:      declType,
		Title:     category,
		Category:  category,
		Location:  location,
		Date:      date,
		OwnerID:   uuid.New(),
		Active:    true,
		Status:    domain.DeclarationOpen,
		CreatedAt: date,
	}
}

func TestScoreCandidates_CategoryLocationDate(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date.AddDate(0, 0, 2))

	matches := ScoreCandidates(&loss, []domain.Declaration{found}, testDateWindow)

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Greater(t, m.Confidence, 0.5)
	assert.Equal(t, loss.ID, m.LossDeclarationID)
	assert.Equal(t, found.ID, m.FoundDeclarationID)
	assert.Equal(t, domain.MatchSuggested, m.Status)
	assert.Contains(t, []string(m.SimilarityReasons), "même catégorie : Clés")
	assert.Contains(t, []string(m.SimilarityReasons), "même lieu : Gare du Nord")
}

func TestScoreCandidates_OrderedByConfidence(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)

	strong := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	weak := declaration(domain.TypeFound, "Clés", "Marseille", date.AddDate(0, 0, 25))
	unrelated := declaration(domain.TypeFound, "Vêtements", "Bordeaux", date.AddDate(0, 2, 0))

	matches := ScoreCandidates(&loss, []domain.Declaration{weak, unrelated, strong}, testDateWindow)

	require.Len(t, matches, 2)
	assert.Equal(t, strong.ID, matches[0].FoundDeclarationID)
	assert.Equal(t, weak.ID, matches[1].FoundDeclarationID)
	assert.Greater(t, matches[0].Confidence, matches[1].Confidence)
}

func TestScoreCandidates_SkipsSameOwnerAndInactive(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)

	sameOwner := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	sameOwner.OwnerID = loss.OwnerID
	inactive := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	inactive.Active = false

	matches := ScoreCandidates(&loss, []domain.Declaration{sameOwner, inactive}, testDateWindow)
	assert.Empty(t, matches)
}

func TestScoreCandidates_DateOutsideWindow(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	old := declaration(domain.TypeFound, "Clés", "Gare du Nord", date.AddDate(0, -3, 0))

	matches := ScoreCandidates(&loss, []domain.Declaration{old}, testDateWindow)

	require.Len(t, matches, 1)
	assert.NotContains(t, []string(matches[0].SimilarityReasons), "dates rapprochées")
	assert.InDelta(t, 0.8, matches[0].Confidence, 0.001)
}

func TestScoreCandidates_FoundSidePerspective(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)

	matches := ScoreCandidates(&found, []domain.Declaration{loss}, testDateWindow)

	require.Len(t, matches, 1)
	assert.Equal(t, loss.ID, matches[0].LossDeclarationID)
	assert.Equal(t, found.ID, matches[0].FoundDeclarationID)
}

func TestFindCandidates_PersistsMatches(t *testing.T) {
	f := newMatchingFixture()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)

	f.declRepo.On("GetByID", mock.Anything, loss.ID).Return(&loss, nil)
	f.declRepo.On("ListActiveByType", mock.Anything, domain.TypeFound).Return([]domain.Declaration{found}, nil)
	f.matchRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Match")).Return(nil)

	matches, err := f.svc.FindCandidates(context.Background(), loss.ID)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	f.matchRepo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestScanForMatches_NotifiesAboveThreshold(t *testing.T) {
	f := newMatchingFixture()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)

	strong := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	weak := declaration(domain.TypeFound, "Bagages", "Gare du Nord", date.AddDate(0, 0, 10))

	f.declRepo.On("GetByID", mock.Anything, loss.ID).Return(&loss, nil)
	f.declRepo.On("ListActiveByType", mock.Anything, domain.TypeFound).Return([]domain.Declaration{strong, weak}, nil)
	f.matchRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Match")).Return(nil)
	f.notifSvc.On("NotifyMatchSuggested", mock.Anything, &loss, mock.AnythingOfType("*domain.Declaration"), mock.AnythingOfType("float64")).Return()

	f.svc.ScanForMatches(context.Background(), &loss)

	f.notifSvc.AssertNumberOfCalls(t, "NotifyMatchSuggested", 1)
}

func TestConfirm_CallerMustOwnOneSide(t *testing.T) {
	f := newMatchingFixture()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	match := &domain.Match{
		ID:                 uuid.New(),
		LossDeclarationID:  loss.ID,
		FoundDeclarationID: found.ID,
		Status:             domain.MatchSuggested,
	}

	f.matchRepo.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	f.declRepo.On("GetByID", mock.Anything, loss.ID).Return(&loss, nil)
	f.declRepo.On("GetByID", mock.Anything, found.ID).Return(&found, nil)

	err := f.svc.Confirm(context.Background(), match.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_UpdatesMatchOnly(t *testing.T) {
	f := newMatchingFixture()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	match := &domain.Match{
		ID:                 uuid.New(),
		LossDeclarationID:  loss.ID,
		FoundDeclarationID: found.ID,
		Status:             domain.MatchSuggested,
	}

	f.matchRepo.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	f.declRepo.On("GetByID", mock.Anything, loss.ID).Return(&loss, nil)
	f.matchRepo.On("UpdateStatus", mock.Anything, match.ID, domain.MatchConfirmed).Return(nil)

	err := f.svc.Confirm(context.Background(), match.ID, loss.OwnerID)

	require.NoError(t, err)
	f.matchRepo.AssertExpectations(t)
	// Declarations are only resolved through a verified claim.
	f.declRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.declRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestReject_SetsRejectedStatus(t *testing.T) {
	f := newMatchingFixture()
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	loss := declaration(domain.TypeLoss, "Clés", "Gare du Nord", date)
	found := declaration(domain.TypeFound, "Clés", "Gare du Nord", date)
	match := &domain.Match{
		ID:                 uuid.New(),
		LossDeclarationID:  loss.ID,
		FoundDeclarationID: found.ID,
		Status:             domain.MatchSuggested,
	}

	f.matchRepo.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	f.declRepo.On("GetByID", mock.Anything, loss.ID).Return(&loss, nil)
	f.declRepo.On("GetByID", mock.Anything, found.ID).Return(&found, nil)
	f.matchRepo.On("UpdateStatus", mock.Anything, match.ID, domain.MatchRejected).Return(nil)

	err := f.svc.Reject(context.Background(), match.ID, found.OwnerID)

	require.NoError(t, err)
	f.matchRepo.AssertExpectations(t)
}
