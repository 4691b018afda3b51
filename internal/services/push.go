package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pushrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/push"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type PushService interface {
	Subscribe(ctx context.Context, userID uuid.UUID, endpoint, p256dh, authKey string) error
}

type pushService struct {
	db       *gorm.DB
	log      *logger.Logger
	pushRepo pushrepo.PushSubscriptionRepo
}

func NewPushService(gdb *gorm.DB, baseLog *logger.Logger, pushRepo pushrepo.PushSubscriptionRepo) PushService {
	return &pushService{db: gdb, log: baseLog.With("service", "PushService"), pushRepo: pushRepo}
}

// Subscribe registers a browser push endpoint; re-subscribing the same
// endpoint is a no-op so clients can call it on every page load.
func (s *pushService) Subscribe(ctx context.Context, userID uuid.UUID, endpoint, p256dh, authKey string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.TrimSpace(p256dh) == "" || strings.TrimSpace(authKey) == "" {
		return fmt.Errorf("%w: endpoint, p256dh and auth keys required", pkgerrors.ErrInvalidInput)
	}
	_, err := s.pushRepo.UpsertIgnore(ctx, nil, &types.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		AuthKey:  authKey,
	})
	return err
}
