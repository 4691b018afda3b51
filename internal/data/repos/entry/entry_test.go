package entry

import (
	"context"
	"testing"

	"github.com/yungbote/skillmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
)

func TestListActiveEmbeddedFilters(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewEntryRepo(tx, log)

	u := testutil.SeedUser(t, ctx, tx, "alice@example.com")

	embedded := testutil.SeedEmbeddedEntry(t, ctx, tx, u.ID, "embedded", []float32{1, 2})
	testutil.SeedEntry(t, ctx, tx, u.ID, "no embedding yet")

	paused := testutil.SeedEmbeddedEntry(t, ctx, tx, u.ID, "paused", []float32{1, 2})
	if err := repo.UpdateStatus(ctx, tx, paused.ID, types.EntryStatusPaused); err != nil {
		t.Fatalf("pause: %v", err)
	}

	got, err := repo.ListActiveEmbedded(ctx, tx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != embedded.ID {
		t.Fatalf("expected only the active embedded entry, got %+v", got)
	}
}

func TestUpdateEnrichmentSetsAllFields(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewEntryRepo(tx, log)

	u := testutil.SeedUser(t, ctx, tx, "alice@example.com")
	e := testutil.SeedEntry(t, ctx, tx, u.ID, "suche tandempartner spanisch")

	emb, err := types.EncodeVector([]float32{0.5, 0.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := repo.UpdateEnrichment(ctx, tx, e.ID, emb, types.IntentSeek, types.ClassificationPeer, types.SpecificitySpecific); err != nil {
		t.Fatalf("update enrichment: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, e.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Embedded() {
		t.Fatal("embedding missing")
	}
	if got.Intent == nil || *got.Intent != types.IntentSeek ||
		got.Classification == nil || *got.Classification != types.ClassificationPeer ||
		got.Specificity == nil || *got.Specificity != types.SpecificitySpecific {
		t.Fatalf("enrichment fields incomplete: %+v", got)
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := NewEntryRepo(tx, log)

	u := testutil.SeedUser(t, ctx, tx, "alice@example.com")
	got, err := repo.GetByID(ctx, tx, u.ID) // a uuid that is no entry
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing entry, got %+v", got)
	}
}
