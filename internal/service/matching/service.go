package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"retrouvaille/internal/config"
	"retrouvaille/internal/domain"
	"retrouvaille/internal/repository"
	"retrouvaille/internal/service/feed"
	"retrouvaille/internal/service/notification"
)

const candidateCacheTTL = time.Minute

type Service interface {
	FindCandidates(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, error)
	Confirm(ctx context.Context, matchID uuid.UUID, callerID uuid.UUID) error
	Reject(ctx context.Context, matchID uuid.UUID, callerID uuid.UUID) error
	ScanForMatches(ctx context.Context, decl *domain.Declaration)
	Start(ctx context.Context)
}

type service struct {
	declRepo  repository.DeclarationRepository
	matchRepo repository.MatchRepository
	notifSvc  notification.Service
	redis     *redis.Client
	broker    feed.Broker

	dateWindow      time.Duration
	notifyThreshold float64
}

func NewService(declRepo repository.DeclarationRepository, matchRepo repository.MatchRepository, notifSvc notification.Service, redisClient *redis.Client, broker feed.Broker, cfg *config.Config) Service {
	return &service{
		declRepo:        declRepo,
		matchRepo:       matchRepo,
		notifSvc:        notifSvc,
		redis:           redisClient,
		broker:          broker,
		dateWindow:      time.Duration(cfg.MatchDateWindowDays) * 24 * time.Hour,
		notifyThreshold: cfg.MatchNotifyThreshold,
	}
}

// Start invalidates cached candidate lists as declarations change.
// Uncached recomputation is cheap; the short TTL bounds staleness for
// lists the event does not name directly.
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
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				s.invalidateCache(context.Background(), ev.EntityID)
			}
		}
	}()
}

// FindCandidates scores the declaration against every active
// declaration of the opposite type and materializes the result. Output
// is ordered by confidence descending, ties broken by most recently
// created candidate.
func (s *service) FindCandidates(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, error) {
	decl, err := s.declRepo.GetByID(ctx, declarationID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cachedCandidates(ctx, declarationID); ok {
		return cached, nil
	}

	candidates, err := s.declRepo.ListActiveByType(ctx, decl.Type.Opposite())
	if err != nil {
		return nil, err
	}

	matches := ScoreCandidates(decl, candidates, s.dateWindow)

	for i := range matches {
		if err := s.matchRepo.Upsert(ctx, &matches[i]); err != nil {
			log.Printf("matching: upsert for %s: %v", declarationID, err)
		}
	}

	s.cacheCandidates(ctx, declarationID, matches)
	return matches, nil
}

func (s *service) Confirm(ctx context.Context, matchID uuid.UUID, callerID uuid.UUID) error {
	return s.setStatus(ctx, matchID, callerID, domain.MatchConfirmed)
}

func (s *service) Reject(ctx context.Context, matchID uuid.UUID, callerID uuid.UUID) error {
	return s.setStatus(ctx, matchID, callerID, domain.MatchRejected)
}

// setStatus mutates the match record only; declarations are never
// touched from here. A confirmed match leads the owner to submit a
// verification claim, which owns the actual resolution.
func (s *service) setStatus(ctx context.Context, matchID uuid.UUID, callerID uuid.UUID, status domain.MatchStatus) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}

	owns, err := s.callerOwnsSide(ctx, match, callerID)
	if err != nil {
		return err
	}
	if !owns {
		return domain.ErrPermissionDenied
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, status); err != nil {
		return err
	}

	if s.broker != nil {
		_ = s.broker.Publish(ctx, domain.ChangeEvent{
			Entity:   domain.EntityMatch,
			EntityID: matchID,
			Op:       domain.OpUpdated,
			OwnerID:  callerID,
			At:       time.Now(),
		})
	}
	return nil
}

func (s *service) callerOwnsSide(ctx context.Context, match *domain.Match, callerID uuid.UUID) (bool, error) {
	for _, id := range []uuid.UUID{match.LossDeclarationID, match.FoundDeclarationID} {
		decl, err := s.declRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return false, err
		}
		if decl.OwnerID == callerID {
			return true, nil
		}
	}
	return false, nil
}

// ScanForMatches runs after a declaration is created and alerts the
// owners of strong counterparts. Failures stay local; creation has
// already succeeded.
func (s *service) ScanForMatches(ctx context.Context, decl *domain.Declaration) {
	matches, err := s.FindCandidates(ctx, decl.ID)
	if err != nil {
		log.Printf("matching: scan for %s: %v", decl.ID, err)
		return
	}

	for i := range matches {
		if matches[i].Confidence < s.notifyThreshold || matches[i].Candidate == nil {
			continue
		}
		s.notifSvc.NotifyMatchSuggested(ctx, decl, matches[i].Candidate, matches[i].Confidence)
	}
}

func (s *service) cachedCandidates(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, candidateCacheKey(declarationID)).Bytes()
	if err != nil {
		return nil, false
	}

	var matches []domain.Match
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (s *service) cacheCandidates(ctx context.Context, declarationID uuid.UUID, matches []domain.Match) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, candidateCacheKey(declarationID), raw, candidateCacheTTL).Err()
}

func (s *service) invalidateCache(ctx context.Context, declarationID uuid.UUID) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, candidateCacheKey(declarationID)).Err()
}

func candidateCacheKey(declarationID uuid.UUID) string {
	return fmt.Sprintf("matches:candidates:%s", declarationID)
}

// ScoreCandidates ranks candidates against decl. Category equality
// carries the dominant weight, location similarity a secondary one and
// temporal proximity within the window a smaller one.
func ScoreCandidates(decl *domain.Declaration, candidates []domain.Declaration, dateWindow time.Duration) []domain.Match {
	matches := make([]domain.Match, 0, len(candidates))

	for i := range candidates {
		cand := &candidates[i]
		if !cand.Active || cand.OwnerID == decl.OwnerID {
			continue
		}

		confidence, reasons := score(decl, cand, dateWindow)
		if confidence <= 0 {
			continue
		}

		match := domain.Match{
			ID:                uuid.New(),
			Confidence:        confidence,
			SimilarityReasons: pq.StringArray(reasons),
			Status:            domain.MatchSuggested,
			Candidate:         cand,
		}
		if decl.Type == domain.TypeLoss {
			match.LossDeclarationID = decl.ID
			match.FoundDeclarationID = cand.ID
		} else {
			match.LossDeclarationID = cand.ID
			match.FoundDeclarationID = decl.ID
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Candidate.CreatedAt.After(matches[j].Candidate.CreatedAt)
	})

	return matches
}
