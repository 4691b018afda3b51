package match

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/domain/matching"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type MatchRepo interface {
	// InsertIfAbsent persists a match unless its canonical pair already has a
	// row. Returns true only when the insert actually happened, so overlapping
	// sweeps never double-report (or double-notify) the same pair.
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, m *types.Match) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error)
	ListPairs(ctx context.Context, tx *gorm.DB) ([]*types.Match, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Match, error)
	ListUnnotifiedIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	MarkNotified(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, at time.Time) error
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (r *matchRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, m *types.Match) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if m == nil {
		return false, nil
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.EntryAID, m.EntryBID = matching.CanonicalPair(m.EntryAID, m.EntryBID)

	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_a_id"}, {Name: "entry_b_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if matchID == uuid.Nil {
		return nil, nil
	}
	var row types.Match
	if err := t.WithContext(ctx).
		Preload("EntryA").
		Preload("EntryB").
		Where("id = ?", matchID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListPairs returns every match with only the pair columns populated; the
// candidate finder uses it to exclude already-matched pairs from a scan.
func (r *matchRepo) ListPairs(ctx context.Context, tx *gorm.DB) ([]*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.Match
	if err := t.WithContext(ctx).
		Select("id", "entry_a_id", "entry_b_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *matchRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Match, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	owned := t.Session(&gorm.Session{NewDB: true}).
		Model(&types.Entry{}).
		Select("id").
		Where("user_id = ?", userID)

	var results []*types.Match
	if err := t.WithContext(ctx).
		Preload("EntryA").
		Preload("EntryB").
		Where("entry_a_id IN (?) OR entry_b_id IN (?)", owned, owned).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *matchRepo) ListUnnotifiedIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(ctx).
		Model(&types.Match{}).
		Where("notified_at IS NULL").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *matchRepo) MarkNotified(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, at time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Match{}).
		Where("id = ?", matchID).
		Update("notified_at", at).Error
}
