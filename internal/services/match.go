package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	matchrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/match"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type MatchService interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Match, error)
	Get(ctx context.Context, callerID, matchID uuid.UUID) (*types.Match, error)
}

type matchService struct {
	db        *gorm.DB
	log       *logger.Logger
	matchRepo matchrepo.MatchRepo
}

func NewMatchService(gdb *gorm.DB, baseLog *logger.Logger, matchRepo matchrepo.MatchRepo) MatchService {
	return &matchService{db: gdb, log: baseLog.With("service", "MatchService"), matchRepo: matchRepo}
}

func (s *matchService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Match, error) {
	return s.matchRepo.ListByUserID(ctx, nil, userID)
}

// Get returns a match only to a participant; everyone else sees not-found
// rather than forbidden, so match IDs leak nothing.
func (s *matchService) Get(ctx context.Context, callerID, matchID uuid.UUID) (*types.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.EntryA == nil || m.EntryB == nil {
		return nil, pkgerrors.ErrNotFound
	}
	if m.EntryA.UserID != callerID && m.EntryB.UserID != callerID {
		return nil, pkgerrors.ErrNotFound
	}
	return m, nil
}
