package matching

import (
	"time"

	"github.com/google/uuid"
)

const NotificationTypeMatch = "match"

// Notification is one user's in-app record of a match. The unique index on
// (user_id, type, reference_id) keeps dispatch retries from ever producing
// more than two rows per match.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_notification_dedupe,priority:1" json:"user_id"`
	Type        string    `gorm:"not null;uniqueIndex:idx_notification_dedupe,priority:2" json:"type"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;column:reference_id;uniqueIndex:idx_notification_dedupe,priority:3" json:"reference_id"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Read        bool      `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
