package push

import (
	"context"
	"testing"

	"github.com/yungbote/skillmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
)

func TestUpsertIgnoreDuplicateEndpoint(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewPushSubscriptionRepo(tx, log)

	u := testutil.SeedUser(t, ctx, tx, "alice@example.com")

	created, err := repo.UpsertIgnore(ctx, tx, &types.PushSubscription{
		UserID: u.ID, Endpoint: "https://push.example/a", P256dh: "k", AuthKey: "a",
	})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}

	created, err = repo.UpsertIgnore(ctx, tx, &types.PushSubscription{
		UserID: u.ID, Endpoint: "https://push.example/a", P256dh: "k2", AuthKey: "a2",
	})
	if err != nil {
		t.Fatalf("duplicate upsert: %v", err)
	}
	if created {
		t.Fatal("same (user, endpoint) must be ignored")
	}

	subs, err := repo.ListByUserID(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}

	// A second device registers fine.
	created, err = repo.UpsertIgnore(ctx, tx, &types.PushSubscription{
		UserID: u.ID, Endpoint: "https://push.example/b", P256dh: "k", AuthKey: "a",
	})
	if err != nil || !created {
		t.Fatalf("second endpoint: created=%v err=%v", created, err)
	}
}
