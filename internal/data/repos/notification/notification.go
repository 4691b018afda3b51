package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type NotificationRepo interface {
	// CreateIgnoreDuplicates inserts an in-app notification row; a row that
	// already exists for (user, type, reference) is a no-op, not an error.
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, n *types.Notification) (bool, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationIDs []uuid.UUID) error
	ListByReferenceID(ctx context.Context, tx *gorm.DB, referenceID uuid.UUID) ([]*types.Notification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, n *types.Notification) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if n == nil || n.UserID == uuid.Nil {
		return false, nil
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "reference_id"}},
			DoNothing: true,
		}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *notificationRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.Notification
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notificationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(notificationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND id IN ?", userID, notificationIDs).
		Update("read", true).Error
}

func (r *notificationRepo) ListByReferenceID(ctx context.Context, tx *gorm.DB, referenceID uuid.UUID) ([]*types.Notification, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var results []*types.Notification
	if err := t.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
