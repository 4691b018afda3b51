package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "pw",
		DisplayName: "A",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, rawText string) *types.Entry {
	tb.Helper()
	e := &types.Entry{
		ID:      uuid.New(),
		UserID:  userID,
		RawText: rawText,
		Status:  types.EntryStatusActive,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}

func SeedEmbeddedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, rawText string, vec []float32) *types.Entry {
	tb.Helper()
	emb, err := types.EncodeVector(vec)
	if err != nil {
		tb.Fatalf("encode vector: %v", err)
	}
	intent := types.IntentSeek
	classification := types.ClassificationNeed
	specificity := types.SpecificityOpen
	e := &types.Entry{
		ID:             uuid.New(),
		UserID:         userID,
		RawText:        rawText,
		Status:         types.EntryStatusActive,
		Intent:         &intent,
		Classification: &classification,
		Specificity:    &specificity,
		Embedding:      emb,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed embedded entry: %v", err)
	}
	return e
}

func SeedPushSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, endpoint string) *types.PushSubscription {
	tb.Helper()
	s := &types.PushSubscription{
		ID:       uuid.New(),
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		AuthKey:  "auth-key",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed push subscription: %v", err)
	}
	return s
}
