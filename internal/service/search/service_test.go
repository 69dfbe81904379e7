package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/mocks"
)

func newSearchService(decls []domain.Declaration) (Service, *mocks.DeclarationRepository) {
	declRepo := new(mocks.DeclarationRepository)
	declRepo.On("GetAllActive", mock.Anything).Return(decls, nil)
	return NewService(declRepo, nil, nil), declRepo
}

func activeDeclarations(n int, declType domain.DeclarationType) []domain.Declaration {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	decls := make([]domain.Declaration, 0, n)
	for i := 0; i < n; i++ {
		decls = append(decls, domain.Declaration{
			ID:        uuid.New(),
			Type:      declType,
			Title:     fmt.Sprintf("Objet %d", i),
			Category:  "Divers",
			Location:  "Paris",
			Date:      base.AddDate(0, 0, -i),
			OwnerID:   uuid.New(),
			Active:    true,
			Status:    domain.DeclarationOpen,
			CreatedAt: base.AddDate(0, 0, -i),
		})
	}
	return decls
}

func TestSearch_Pagination(t *testing.T) {
	svc, _ := newSearchService(activeDeclarations(30, domain.TypeFound))
	viewerID := uuid.New()

	page1, err := svc.Search(context.Background(), viewerID, domain.SearchFilters{}, 12, 0)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 12)
	assert.True(t, page1.HasMore)
	assert.Equal(t, 30, page1.TotalFiltered)

	page2, err := svc.Search(context.Background(), viewerID, domain.SearchFilters{}, 12, 12)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 12)
	assert.True(t, page2.HasMore)

	page3, err := svc.Search(context.Background(), viewerID, domain.SearchFilters{}, 12, 24)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 6)
	assert.False(t, page3.HasMore)

	// Pages partition the result set without overlap.
	seen := make(map[uuid.UUID]bool)
	for _, page := range []domain.SearchPage{page1, page2, page3} {
		for _, d := range page.Items {
			assert.False(t, seen[d.ID])
			seen[d.ID] = true
		}
	}
	assert.Len(t, seen, 30)
}

func TestSearch_OffsetBeyondEnd(t *testing.T) {
	svc, _ := newSearchService(activeDeclarations(5, domain.TypeFound))

	page, err := svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 12, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Equal(t, 5, page.TotalFiltered)
}

func TestSearch_DefaultAndMaxPageSize(t *testing.T) {
	svc, _ := newSearchService(activeDeclarations(20, domain.TypeFound))

	page, err := svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, page.PageSize)
	assert.Len(t, page.Items, 12)

	page, err = svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 5000, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
}

func TestSearch_ExcludesViewerOwnDeclarations(t *testing.T) {
	decls := activeDeclarations(10, domain.TypeFound)
	viewerID := decls[0].OwnerID
	decls[3].OwnerID = viewerID

	svc, _ := newSearchService(decls)

	page, err := svc.Search(context.Background(), viewerID, domain.SearchFilters{}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, page.TotalFiltered)
	for _, d := range page.Items {
		assert.NotEqual(t, viewerID, d.OwnerID)
	}
}

func TestSearch_Idempotent(t *testing.T) {
	svc, _ := newSearchService(activeDeclarations(15, domain.TypeLoss))
	viewerID := uuid.New()
	filters := domain.SearchFilters{Type: domain.TypeLoss}

	first, err := svc.Search(context.Background(), viewerID, filters, 10, 5)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), viewerID, filters, 10, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearch_SortedByDateDesc(t *testing.T) {
	svc, _ := newSearchService(activeDeclarations(10, domain.TypeFound))

	page, err := svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 100, 0)
	require.NoError(t, err)
	for i := 1; i < len(page.Items); i++ {
		assert.False(t, page.Items[i].Date.After(page.Items[i-1].Date))
	}
}

func TestSearch_Filters(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cond := "bon état"
	decls := []domain.Declaration{
		{
			ID: uuid.New(), Type: domain.TypeFound, Title: "Trousseau de clés",
			Category: "Clés", Location: "Gare du Nord, Paris", Condition: &cond,
			Date: base, OwnerID: uuid.New(), Active: true, Status: domain.DeclarationOpen,
		},
		{
			ID: uuid.New(), Type: domain.TypeFound, Title: "Sac à dos noir",
			Category: "Bagages", Location: "Gare de Lyon, Paris",
			Date: base.AddDate(0, 0, -3), OwnerID: uuid.New(), Active: true, Status: domain.DeclarationOpen,
		},
		{
			ID: uuid.New(), Type: domain.TypeLoss, Title: "Clé de voiture",
			Category: "Clés", Location: "Lille",
			Date: base.AddDate(0, 0, -10), OwnerID: uuid.New(), Active: true, Status: domain.DeclarationOpen,
		},
	}
	svc, _ := newSearchService(decls)
	viewerID := uuid.New()

	search := func(f domain.SearchFilters) domain.SearchPage {
		page, err := svc.Search(context.Background(), viewerID, f, 100, 0)
		require.NoError(t, err)
		return page
	}

	assert.Equal(t, 2, search(domain.SearchFilters{Type: domain.TypeFound}).TotalFiltered)
	assert.Equal(t, 2, search(domain.SearchFilters{Category: "clés"}).TotalFiltered)
	assert.Equal(t, 1, search(domain.SearchFilters{Condition: "Bon État"}).TotalFiltered)
	assert.Equal(t, 2, search(domain.SearchFilters{Location: "paris"}).TotalFiltered)
	assert.Equal(t, 2, search(domain.SearchFilters{SearchTerm: "clé"}).TotalFiltered)
	assert.Equal(t, 1, search(domain.SearchFilters{SearchTerm: "sac"}).TotalFiltered)

	from := base.AddDate(0, 0, -3)
	to := base
	page := search(domain.SearchFilters{DateFrom: &from, DateTo: &to})
	// Range bounds are inclusive.
	assert.Equal(t, 2, page.TotalFiltered)

	page = search(domain.SearchFilters{Type: domain.TypeFound, Category: "Clés", Location: "Gare du Nord"})
	require.Equal(t, 1, page.TotalFiltered)
	assert.Equal(t, "Trousseau de clés", page.Items[0].Title)
}

func TestSearch_SkipsInactive(t *testing.T) {
	decls := activeDeclarations(4, domain.TypeFound)
	decls[1].Active = false

	svc, _ := newSearchService(decls)

	page, err := svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalFiltered)
}

func TestSearch_StoreFailure(t *testing.T) {
	declRepo := new(mocks.DeclarationRepository)
	declRepo.On("GetAllActive", mock.Anything).Return(nil, domain.ErrStorageFailure)
	svc := NewService(declRepo, nil, nil)

	_, err := svc.Search(context.Background(), uuid.New(), domain.SearchFilters{}, 12, 0)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
