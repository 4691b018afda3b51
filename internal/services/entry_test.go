package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	entryrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	"github.com/yungbote/skillmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/platform/apierr"
)

func TestCreateEntryValidatesLength(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	svc := NewEntryService(gdb, log, entryrepo.NewEntryRepo(gdb, log), nil, &fakeQueue{})

	if _, err := svc.Create(ctx, u.ID, "   "); !errors.Is(err, pkgerrors.ErrInvalidInput) {
		t.Fatalf("blank text: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, u.ID, strings.Repeat("x", types.MaxRawTextLen+1)); !errors.Is(err, pkgerrors.ErrInvalidInput) {
		t.Fatalf("oversize text: expected ErrInvalidInput, got %v", err)
	}
	// Rune count, not byte count: 500 umlauts are fine.
	if _, err := svc.Create(ctx, u.ID, strings.Repeat("ü", types.MaxRawTextLen)); err != nil {
		t.Fatalf("500 multibyte runes should be accepted, got %v", err)
	}
}

func TestCreateEntryEnqueuesEnrichment(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	queue := &fakeQueue{}
	svc := NewEntryService(gdb, log, entryrepo.NewEntryRepo(gdb, log), nil, queue)

	e, err := svc.Create(ctx, u.ID, "suche jemanden zum joggen")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Status != types.EntryStatusActive {
		t.Fatalf("new entry status = %q, want active", e.Status)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].EntryID != e.ID || queue.tasks[0].UserID != u.ID {
		t.Fatalf("unexpected queued tasks %+v", queue.tasks)
	}
}

func TestGetEntryOwnership(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, gdb, "owner@example.com")
	stranger := testutil.SeedUser(t, ctx, gdb, "stranger@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, owner.ID, "suche mitbewohner")

	svc := NewEntryService(gdb, log, entryrepo.NewEntryRepo(gdb, log), nil, &fakeQueue{})

	if _, err := svc.Get(ctx, stranger.ID, e.ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	got, err := svc.Get(ctx, owner.ID, e.ID)
	if err != nil || got.ID != e.ID {
		t.Fatalf("owner should read own entry, got %v / %v", got, err)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, u.ID, "suche kletterpartner")

	repo := entryrepo.NewEntryRepo(gdb, log)
	svc := NewEntryService(gdb, log, repo, nil, &fakeQueue{})

	if err := svc.UpdateStatus(ctx, u.ID, e.ID, "archived"); !errors.Is(err, pkgerrors.ErrInvalidInput) {
		t.Fatalf("unknown status: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, u.ID, e.ID, types.EntryStatusPaused); err != nil {
		t.Fatalf("active -> paused: %v", err)
	}
	if err := svc.UpdateStatus(ctx, u.ID, e.ID, types.EntryStatusClosed); err != nil {
		t.Fatalf("paused -> closed: %v", err)
	}
	err := svc.UpdateStatus(ctx, u.ID, e.ID, types.EntryStatusActive)
	if !errors.Is(err, pkgerrors.ErrInvalidInput) {
		t.Fatalf("closed is terminal, got %v", err)
	}
	// Reopening a closed entry is a conflict, not a malformed request.
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict || ae.Code != "entry_closed" {
		t.Fatalf("expected 409 entry_closed, got %v", err)
	}
}

func TestTagSkillsPersists(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, u.ID, "ich spiele gitarre und koche gern")

	repo := entryrepo.NewEntryRepo(gdb, log)
	extractor := NewSkillExtractor(log, &fakeAI{reply: `["guitar","cooking"]`})
	svc := NewEntryService(gdb, log, repo, extractor, &fakeQueue{})

	tags, err := svc.TagSkills(ctx, u.ID, e.ID)
	if err != nil {
		t.Fatalf("TagSkills: %v", err)
	}
	if len(tags) != 2 || tags[0] != "guitar" {
		t.Fatalf("unexpected tags %v", tags)
	}

	got, err := repo.GetByID(ctx, nil, e.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.SkillTags) == 0 {
		t.Fatal("skill tags not persisted")
	}
}
