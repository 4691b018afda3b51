package user

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one registered Web Push endpoint. A user may hold zero,
// one, or many rows (multi-device); (user_id, endpoint) is the identity.
type PushSubscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_push_user_endpoint,priority:1" json:"user_id"`
	Endpoint string    `gorm:"type:text;not null;uniqueIndex:idx_push_user_endpoint,priority:2" json:"endpoint"`
	P256dh   string    `gorm:"not null;column:p256dh" json:"p256dh"`
	AuthKey  string    `gorm:"not null;column:auth_key" json:"auth_key"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
