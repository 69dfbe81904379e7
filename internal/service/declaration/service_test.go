package declaration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/mocks"
	"retrouvaille/internal/service/feed"
)

type declarationFixture struct {
	declRepo   *mocks.DeclarationRepository
	matchRepo  *mocks.MatchRepository
	storageSvc *mocks.StorageService
	svc        Service
}

func newDeclarationFixture() *declarationFixture {
	f := &declarationFixture{
		declRepo:   new(mocks.DeclarationRepository),
		matchRepo:  new(mocks.MatchRepository),
		storageSvc: new(mocks.StorageService),
	}
	f.svc = NewService(f.declRepo, f.matchRepo, f.storageSvc, feed.NewMemoryBroker())
	return f
}

type stubMatcher struct {
	scanned chan *domain.Declaration
}

func (m *stubMatcher) ScanForMatches(ctx context.Context, decl *domain.Declaration) {
	m.scanned <- decl
}

func validCreateInput() domain.CreateDeclarationInput {
	return domain.CreateDeclarationInput{
		Type:         domain.TypeLoss,
		Title:        "Portefeuille en cuir",
		Category:     "Portefeuilles",
		Location:     "Gare du Nord, Paris",
		Date:         time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		ContactEmail: "j.dupont@example.com",
	}
}

func TestCreate_Success(t *testing.T) {
	f := newDeclarationFixture()
	ownerID := uuid.New()

	f.declRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Declaration")).Return(nil)

	decl, err := f.svc.Create(context.Background(), ownerID, validCreateInput(), nil)

	require.NoError(t, err)
	assert.Equal(t, ownerID, decl.OwnerID)
	assert.True(t, decl.Active)
	assert.Equal(t, domain.DeclarationOpen, decl.Status)
	assert.Equal(t, int64(1), decl.Version)
	f.declRepo.AssertExpectations(t)
}

func TestCreate_TriggersMatchScan(t *testing.T) {
	f := newDeclarationFixture()
	matcher := &stubMatcher{scanned: make(chan *domain.Declaration, 1)}
	f.svc.SetMatcher(matcher)

	f.declRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Declaration")).Return(nil)

	decl, err := f.svc.Create(context.Background(), uuid.New(), validCreateInput(), nil)
	require.NoError(t, err)

	select {
	case scanned := <-matcher.scanned:
		assert.Equal(t, decl.ID, scanned.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("match scan was not triggered")
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newDeclarationFixture()

	badType := validCreateInput()
	badType.Type = "STOLEN"
	_, err := f.svc.Create(context.Background(), uuid.New(), badType, nil)
	assert.Error(t, err)

	noTitle := validCreateInput()
	noTitle.Title = ""
	_, err = f.svc.Create(context.Background(), uuid.New(), noTitle, nil)
	assert.Error(t, err)

	noDate := validCreateInput()
	noDate.Date = time.Time{}
	_, err = f.svc.Create(context.Background(), uuid.New(), noDate, nil)
	assert.Error(t, err)

	f.declRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newDeclarationFixture()
	decl := &domain.Declaration{
		ID:      uuid.New(),
		Type:    domain.TypeLoss,
		OwnerID: uuid.New(),
		Status:  domain.DeclarationOpen,
	}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)

	newTitle := "Autre titre"
	_, err := f.svc.Update(context.Background(), decl.ID, uuid.New(), domain.UpdateDeclarationInput{Title: &newTitle})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.declRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_ResolvedDeclaration(t *testing.T) {
	f := newDeclarationFixture()
	ownerID := uuid.New()
	decl := &domain.Declaration{
		ID:      uuid.New(),
		Type:    domain.TypeLoss,
		OwnerID: ownerID,
		Status:  domain.DeclarationResolved,
	}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)

	newTitle := "Autre titre"
	_, err := f.svc.Update(context.Background(), decl.ID, ownerID, domain.UpdateDeclarationInput{Title: &newTitle})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdate_PartialPatch(t *testing.T) {
	f := newDeclarationFixture()
	ownerID := uuid.New()
	decl := &domain.Declaration{
		ID:       uuid.New(),
		Type:     domain.TypeLoss,
		Title:    "Portefeuille en cuir",
		Category: "Portefeuilles",
		Location: "Gare du Nord",
		OwnerID:  ownerID,
		Status:   domain.DeclarationOpen,
	}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)
	f.declRepo.On("Update", mock.Anything, decl).Return(nil)

	newLocation := "Gare de Lyon"
	updated, err := f.svc.Update(context.Background(), decl.ID, ownerID, domain.UpdateDeclarationInput{Location: &newLocation})

	require.NoError(t, err)
	assert.Equal(t, "Gare de Lyon", updated.Location)
	// Untouched fields keep their stored values.
	assert.Equal(t, "Portefeuille en cuir", updated.Title)
	assert.Equal(t, "Portefeuilles", updated.Category)
	assert.Equal(t, domain.TypeLoss, updated.Type)
}

func TestAddImages_Appends(t *testing.T) {
	f := newDeclarationFixture()
	ownerID := uuid.New()
	decl := &domain.Declaration{
		ID:      uuid.New(),
		Type:    domain.TypeFound,
		OwnerID: ownerID,
		Status:  domain.DeclarationOpen,
		Images:  domain.ImageList{{StoragePath: "a", DownloadURL: "http://x/a"}},
	}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)
	f.declRepo.On("Update", mock.Anything, decl).Return(nil)

	updated, err := f.svc.AddImages(context.Background(), decl.ID, ownerID, []domain.Image{{StoragePath: "b", DownloadURL: "http://x/b"}})

	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "a", updated.Images[0].StoragePath)
	assert.Equal(t, "b", updated.Images[1].StoragePath)
}

func TestSetActive_OwnerOnly(t *testing.T) {
	f := newDeclarationFixture()
	decl := &domain.Declaration{ID: uuid.New(), OwnerID: uuid.New(), Active: true}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)

	err := f.svc.SetActive(context.Background(), decl.ID, uuid.New(), false)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.declRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_OwnerOrAdmin(t *testing.T) {
	f := newDeclarationFixture()
	decl := &domain.Declaration{ID: uuid.New(), OwnerID: uuid.New()}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)
	f.matchRepo.On("DeleteForDeclaration", mock.Anything, decl.ID).Return(nil)
	f.declRepo.On("Delete", mock.Anything, decl.ID).Return(nil)

	err := f.svc.Delete(context.Background(), decl.ID, uuid.New(), false)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	err = f.svc.Delete(context.Background(), decl.ID, uuid.New(), true)
	assert.NoError(t, err)
}

func TestDelete_ImageCleanupIsBestEffort(t *testing.T) {
	f := newDeclarationFixture()
	ownerID := uuid.New()
	decl := &domain.Declaration{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Images:  domain.ImageList{{StoragePath: "declarations/x/1"}, {StoragePath: "declarations/x/2"}},
	}

	f.declRepo.On("GetByID", mock.Anything, decl.ID).Return(decl, nil)
	f.matchRepo.On("DeleteForDeclaration", mock.Anything, decl.ID).Return(nil)
	f.declRepo.On("Delete", mock.Anything, decl.ID).Return(nil)
	f.storageSvc.On("Delete", mock.Anything, "declarations/x/1").Return(errors.New("bucket unreachable"))
	f.storageSvc.On("Delete", mock.Anything, "declarations/x/2").Return(nil)

	err := f.svc.Delete(context.Background(), decl.ID, ownerID, false)

	assert.NoError(t, err)
	f.storageSvc.AssertNumberOfCalls(t, "Delete", 2)
}
