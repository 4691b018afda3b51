package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/notification"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type NotificationService interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationIDs []uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo notificationrepo.NotificationRepo
}

func NewNotificationService(gdb *gorm.DB, baseLog *logger.Logger, notificationRepo notificationrepo.NotificationRepo) NotificationService {
	return &notificationService{
		db:               gdb,
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	return s.notificationRepo.ListByUserID(ctx, nil, userID)
}

// MarkRead is scoped to the caller in the WHERE clause; foreign IDs in the
// list are ignored rather than rejected.
func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationIDs []uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, nil, userID, notificationIDs)
}
