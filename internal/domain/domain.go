package domain

import (
	"github.com/yungbote/skillmatch-backend/internal/domain/matching"
	"github.com/yungbote/skillmatch-backend/internal/domain/user"
)

type (
	User             = user.User
	UserToken        = user.UserToken
	PushSubscription = user.PushSubscription

	Entry        = matching.Entry
	Match        = matching.Match
	Notification = matching.Notification
)

const (
	EntryStatusActive = matching.EntryStatusActive
	EntryStatusPaused = matching.EntryStatusPaused
	EntryStatusClosed = matching.EntryStatusClosed

	IntentSeek  = matching.IntentSeek
	IntentOffer = matching.IntentOffer

	ClassificationPeer  = matching.ClassificationPeer
	ClassificationNeed  = matching.ClassificationNeed
	ClassificationOffer = matching.ClassificationOffer

	SpecificityOpen     = matching.SpecificityOpen
	SpecificitySpecific = matching.SpecificitySpecific

	NotificationTypeMatch = matching.NotificationTypeMatch

	MaxRawTextLen = matching.MaxRawTextLen
	MaxSkillTags  = matching.MaxSkillTags
)

var (
	CanonicalPair = matching.CanonicalPair
	EncodeVector  = matching.EncodeVector
)
