package matching

import (
	"time"

	"github.com/google/uuid"
)

// Match is an unordered pairing of two entries from two different users.
// (entry_a_id, entry_b_id) is stored in canonical order so (A,B) and (B,A)
// collide on the same unique index; score is the cosine similarity at
// discovery time and is never recomputed.
type Match struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntryAID uuid.UUID `gorm:"type:uuid;not null;column:entry_a_id;uniqueIndex:idx_match_pair,priority:1" json:"entry_a_id"`
	EntryBID uuid.UUID `gorm:"type:uuid;not null;column:entry_b_id;uniqueIndex:idx_match_pair,priority:2" json:"entry_b_id"`
	Score    float64   `gorm:"not null" json:"score"`

	EntryA *Entry `gorm:"foreignKey:EntryAID;references:ID" json:"entry_a,omitempty"`
	EntryB *Entry `gorm:"foreignKey:EntryBID;references:ID" json:"entry_b,omitempty"`

	// NotifiedAt is set once both participants have their in-app rows; a null
	// value marks the match for re-dispatch on the next sweep.
	NotifiedAt *time.Time `gorm:"index" json:"notified_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Match) TableName() string { return "matches" }

// CanonicalPair orders two entry ids lexicographically by their string form.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
