package matching

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EntryStatusActive = "active"
	EntryStatusPaused = "paused"
	EntryStatusClosed = "closed"

	IntentSeek  = "seek"
	IntentOffer = "offer"

	ClassificationPeer  = "peer"
	ClassificationNeed  = "need"
	ClassificationOffer = "offer"

	SpecificityOpen     = "open"
	SpecificitySpecific = "specific"
)

// MaxRawTextLen bounds an entry to a single semantic unit of meaning.
const MaxRawTextLen = 500

// MaxSkillTags caps the free-form tags the skill extractor may attach.
const MaxSkillTags = 3

// Entry is a user's posted statement of a need or offer. The enrichment
// fields (intent, classification, specificity, embedding) are all nil until
// the async enrichment writes them in a single update.
type Entry struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RawText string    `gorm:"column:raw_text;type:text;not null" json:"raw_text"`
	Status  string    `gorm:"not null;index" json:"status"`

	Intent         *string `gorm:"column:intent" json:"intent,omitempty"`
	Classification *string `gorm:"column:classification" json:"classification,omitempty"`
	Specificity    *string `gorm:"column:specificity" json:"specificity,omitempty"`

	Embedding datatypes.JSON `gorm:"type:jsonb;column:embedding" json:"-"`
	SkillTags datatypes.JSON `gorm:"type:jsonb;column:skill_tags" json:"skill_tags,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "entries" }

func (e *Entry) Embedded() bool {
	return e != nil && len(e.Embedding) > 0
}

// Vector decodes the stored embedding. Returns nil when unset.
func (e *Entry) Vector() []float32 {
	if !e.Embedded() {
		return nil
	}
	var v []float32
	if err := json.Unmarshal(e.Embedding, &v); err != nil {
		return nil
	}
	return v
}

func EncodeVector(v []float32) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
