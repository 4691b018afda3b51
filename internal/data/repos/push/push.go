package push

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type PushSubscriptionRepo interface {
	// UpsertIgnore registers an endpoint; re-registering the same
	// (user, endpoint) is a no-op.
	UpsertIgnore(ctx context.Context, tx *gorm.DB, sub *types.PushSubscription) (bool, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PushSubscription, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) error
}

type pushSubscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPushSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) PushSubscriptionRepo {
	return &pushSubscriptionRepo{db: db, log: baseLog.With("repo", "PushSubscriptionRepo")}
}

func (r *pushSubscriptionRepo) UpsertIgnore(ctx context.Context, tx *gorm.DB, sub *types.PushSubscription) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if sub == nil || sub.UserID == uuid.Nil || sub.Endpoint == "" {
		return false, nil
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
			DoNothing: true,
		}).
		Create(sub)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *pushSubscriptionRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PushSubscription, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.PushSubscription
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pushSubscriptionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("id = ?", subID).
		Delete(&types.PushSubscription{}).Error
}
