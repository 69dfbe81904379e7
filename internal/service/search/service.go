package search

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/feed"
)

const (
	snapshotCacheKey = "declarations:active"
	snapshotCacheTTL = 5 * time.Minute

	defaultPageSize = 12
	maxPageSize     = 100
)

// Service is the browse layer: offset-paginated, multi-predicate
// queries over active declarations. Each call filters one consistent
// snapshot, so the returned total and page slice always agree.
type Service interface {
	Search(ctx context.Context, viewerID uuid.UUID, filters domain.SearchFilters, pageSize, offset int) (domain.SearchPage, error)
	Start(ctx context.Context)
}

type service struct {
	declRepo repository.DeclarationRepository
	redis    *redis.Client
	broker   feed.Broker

	viewers sync.Map // uuid.UUID -> *sync.Mutex
}

func NewService(declRepo repository.DeclarationRepository, redisClient *redis.Client, broker feed.Broker) Service {
	return &service{
		declRepo: declRepo,
		redis:    redisClient,
		broker:   broker,
	}
}

// Start drops the cached snapshot whenever a declaration changes, so
// the next search reloads from the store.
func (s *service) Start(ctx context.Context) {
	if s.broker == nil {
		return
	}

	sub := s.broker.Subscribe(ctx, feed.Filter{Entities: []domain.EntityKind{domain.EntityDeclaration}})

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				if s.redis != nil {
					_ = s.redis.Del(context.Background(), snapshotCacheKey).Err()
				}
			}
		}
	}()
}

// Search serializes calls per viewer: a page request issued while an
// earlier one for the same viewer is still running waits for it, so an
// infinite-scroll consumer never receives duplicate or out-of-order
// pages.
func (s *service) Search(ctx context.Context, viewerID uuid.UUID, filters domain.SearchFilters, pageSize, offset int) (domain.SearchPage, error) {
	mu := s.viewerLock(viewerID)
	mu.Lock()
	defer mu.Unlock()

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return domain.SearchPage{}, err
	}

	filtered := make([]domain.Declaration, 0, len(snapshot))
	for i := range snapshot {
		if snapshot[i].OwnerID == viewerID {
			continue
		}
		if matchesFilters(&snapshot[i], filters) {
			filtered = append(filtered, snapshot[i])
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	items := []domain.Declaration{}
	if offset < total {
		end := offset + pageSize
		if end > total {
			end = total
		}
		items = filtered[offset:end]
	}

	return domain.SearchPage{
		Items:         items,
		HasMore:       offset+len(items) < total,
		TotalFiltered: total,
		Offset:        offset,
		PageSize:      pageSize,
	}, nil
}

func (s *service) viewerLock(viewerID uuid.UUID) *sync.Mutex {
	mu, _ := s.viewers.LoadOrStore(viewerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *service) loadSnapshot(ctx context.Context) ([]domain.Declaration, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, snapshotCacheKey).Bytes(); err == nil {
			var decls []domain.Declaration
			if err := json.Unmarshal(raw, &decls); err == nil {
				return decls, nil
			}
		}
	}

	decls, err := s.declRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(decls); err == nil {
			_ = s.redis.Set(ctx, snapshotCacheKey, raw, snapshotCacheTTL).Err()
		}
	}
	return decls, nil
}

func matchesFilters(decl *domain.Declaration, f domain.SearchFilters) bool {
	if !decl.Active {
		return false
	}
	if f.Type != "" && decl.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.EqualFold(decl.Category, f.Category) {
		return false
	}
	if f.Condition != "" {
		if decl.Condition == nil || !strings.EqualFold(*decl.Condition, f.Condition) {
			return false
		}
	}
	if f.Location != "" && !containsFold(decl.Location, f.Location) {
		return false
	}
	if f.DateFrom != nil && decl.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && decl.Date.After(*f.DateTo) {
		return false
	}
	if f.SearchTerm != "" {
		if !containsFold(decl.Title, f.SearchTerm) &&
			!containsFold(decl.Description, f.SearchTerm) &&
			!containsFold(decl.Location, f.SearchTerm) &&
			!containsFold(decl.Category, f.SearchTerm) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
