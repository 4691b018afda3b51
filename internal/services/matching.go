package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	"github.com/yungbote/skillmatch-backend/internal/data/repos/match"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/domain/matching"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
)

const defaultScoreThreshold = 0.75

// Candidate is a scored entry pair that cleared the similarity threshold but
// has not yet been persisted. EntryAID/EntryBID are already canonical.
type Candidate struct {
	EntryAID uuid.UUID
	EntryBID uuid.UUID
	Score    float64
}

// SweepResult summarizes one full find/record/notify cycle.
type SweepResult struct {
	Candidates int
	NewMatches int
	Dispatched int
}

type MatchingService interface {
	FindCandidates(ctx context.Context) ([]Candidate, error)
	RecordMatches(ctx context.Context, candidates []Candidate) ([]uuid.UUID, error)
	RunSweep(ctx context.Context) (SweepResult, error)
}

type matchingService struct {
	db         *gorm.DB
	log        *logger.Logger
	entryRepo  entry.EntryRepo
	matchRepo  match.MatchRepo
	dispatcher NotificationDispatcher
	threshold  float64
}

func NewMatchingService(db *gorm.DB, baseLog *logger.Logger, entryRepo entry.EntryRepo, matchRepo match.MatchRepo, dispatcher NotificationDispatcher) MatchingService {
	threshold := envutil.Float("MATCH_SCORE_THRESHOLD", defaultScoreThreshold)
	if threshold <= 0 || threshold > 1 {
		threshold = defaultScoreThreshold
	}
	return &matchingService{
		db:         db,
		log:        baseLog.With("service", "MatchingService"),
		entryRepo:  entryRepo,
		matchRepo:  matchRepo,
		dispatcher: dispatcher,
		threshold:  threshold,
	}
}

// FindCandidates scores every cross-user pair of active embedded entries and
// returns the ones at or above the threshold that have no match row yet. The
// scan is O(n^2) over the embedded population, which is fine at the scale a
// single deployment serves.
func (s *matchingService) FindCandidates(ctx context.Context) ([]Candidate, error) {
	entries, err := s.entryRepo.ListActiveEmbedded(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list embedded entries: %w", err)
	}

	existing, err := s.matchRepo.ListPairs(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list existing pairs: %w", err)
	}
	matched := make(map[[2]uuid.UUID]struct{}, len(existing))
	for _, m := range existing {
		a, b := matching.CanonicalPair(m.EntryAID, m.EntryBID)
		matched[[2]uuid.UUID{a, b}] = struct{}{}
	}

	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		vectors[i] = e.Vector()
		if vectors[i] == nil {
			s.log.Warn("Skipping entry with undecodable embedding", "entry_id", e.ID)
		}
	}

	var candidates []Candidate
	for i := 0; i < len(entries); i++ {
		if vectors[i] == nil {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			if vectors[j] == nil {
				continue
			}
			if entries[i].UserID == entries[j].UserID {
				continue
			}
			a, b := matching.CanonicalPair(entries[i].ID, entries[j].ID)
			if _, ok := matched[[2]uuid.UUID{a, b}]; ok {
				continue
			}
			score := cosine(vectors[i], vectors[j])
			if score < s.threshold {
				continue
			}
			candidates = append(candidates, Candidate{EntryAID: a, EntryBID: b, Score: score})
		}
	}
	return candidates, nil
}

// RecordMatches persists candidates and returns the IDs of the rows it
// actually created. Pairs that gained a row since FindCandidates ran (a
// concurrent sweep, typically) are silently skipped.
func (s *matchingService) RecordMatches(ctx context.Context, candidates []Candidate) ([]uuid.UUID, error) {
	newIDs := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		m := &types.Match{
			ID:       uuid.New(),
			EntryAID: c.EntryAID,
			EntryBID: c.EntryBID,
			Score:    c.Score,
		}
		inserted, err := s.matchRepo.InsertIfAbsent(ctx, nil, m)
		if err != nil {
			return newIDs, fmt.Errorf("insert match: %w", err)
		}
		if inserted {
			newIDs = append(newIDs, m.ID)
		}
	}
	return newIDs, nil
}

// RunSweep is the full pipeline cycle. Dispatch targets every unnotified
// match rather than just this sweep's inserts, so matches whose fan-out was
// interrupted by a crash get retried on the next run.
func (s *matchingService) RunSweep(ctx context.Context) (SweepResult, error) {
	started := time.Now()

	candidates, err := s.FindCandidates(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	newIDs, err := s.RecordMatches(ctx, candidates)
	if err != nil {
		return SweepResult{Candidates: len(candidates), NewMatches: len(newIDs)}, err
	}

	result := SweepResult{Candidates: len(candidates), NewMatches: len(newIDs)}

	if s.dispatcher != nil {
		pending, err := s.matchRepo.ListUnnotifiedIDs(ctx, nil)
		if err != nil {
			return result, fmt.Errorf("list unnotified matches: %w", err)
		}
		dispatched, err := s.dispatcher.Dispatch(ctx, pending)
		result.Dispatched = dispatched
		if err != nil {
			return result, err
		}
	}

	s.log.Info("Matching sweep finished",
		"candidates", result.Candidates,
		"new_matches", result.NewMatches,
		"dispatched", result.Dispatched,
		"duration", time.Since(started).String(),
	)
	return result, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
