package entry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type EntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.Entry) ([]*types.Entry, error)
	GetByID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*types.Entry, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Entry, error)
	ListActiveEmbedded(ctx context.Context, tx *gorm.DB) ([]*types.Entry, error)
	UpdateEnrichment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, embedding datatypes.JSON, intent, classification, specificity string) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, status string) error
	UpdateSkillTags(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, tags datatypes.JSON) error
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (r *entryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.Entry) ([]*types.Entry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(entries) == 0 {
		return []*types.Entry{}, nil
	}
	if err := t.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) GetByID(ctx context.Context, tx *gorm.DB, entryID uuid.UUID) (*types.Entry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if entryID == uuid.Nil {
		return nil, nil
	}
	var row types.Entry
	if err := t.WithContext(ctx).Where("id = ?", entryID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *entryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Entry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.Entry
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListActiveEmbedded returns the candidate population for a matching sweep:
// active entries whose enrichment has completed. Entries still waiting on an
// embedding are excluded, which is correct rather than racy (they are picked
// up by the sweep after their enrichment lands).
func (r *entryRepo) ListActiveEmbedded(ctx context.Context, tx *gorm.DB) ([]*types.Entry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.Entry
	if err := t.WithContext(ctx).
		Where("status = ?", types.EntryStatusActive).
		Where("embedding IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateEnrichment writes all four enrichment fields in one statement so a
// reader never observes a partially-enriched entry.
func (r *entryRepo) UpdateEnrichment(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, embedding datatypes.JSON, intent, classification, specificity string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", entryID).
		Updates(map[string]any{
			"embedding":      embedding,
			"intent":         intent,
			"classification": classification,
			"specificity":    specificity,
		}).Error
}

func (r *entryRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, status string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", entryID).
		Update("status", status).Error
}

func (r *entryRepo) UpdateSkillTags(ctx context.Context, tx *gorm.DB, entryID uuid.UUID, tags datatypes.JSON) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", entryID).
		Update("skill_tags", tags).Error
}
