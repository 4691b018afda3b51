package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	entryrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	"github.com/yungbote/skillmatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
)

type fixedClassifier struct {
	cl Classification
}

func (f *fixedClassifier) Classify(ctx context.Context, text string) Classification {
	return f.cl
}

type fixedEmbedder struct {
	vec []float32
	err error
}

func (f *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func TestEnrichNotFound(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	repo := entryrepo.NewEntryRepo(gdb, log)
	svc := NewEnrichmentService(gdb, log, repo, &fixedClassifier{}, &fixedEmbedder{vec: []float32{1}})

	err := svc.Enrich(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnrichForbiddenForNonOwner(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()
	repo := entryrepo.NewEntryRepo(gdb, log)

	owner := testutil.SeedUser(t, ctx, gdb, "owner@example.com")
	stranger := testutil.SeedUser(t, ctx, gdb, "stranger@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, owner.ID, "suche klavierlehrer")

	svc := NewEnrichmentService(gdb, log, repo, &fixedClassifier{}, &fixedEmbedder{vec: []float32{1}})
	err := svc.Enrich(ctx, stranger.ID, e.ID)
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEnrichEmbedFailureWritesNothing(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()
	repo := entryrepo.NewEntryRepo(gdb, log)

	owner := testutil.SeedUser(t, ctx, gdb, "owner@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, owner.ID, "suche klavierlehrer")

	svc := NewEnrichmentService(gdb, log, repo,
		&fixedClassifier{cl: Classification{types.ClassificationNeed, types.SpecificitySpecific, types.IntentSeek}},
		&fixedEmbedder{err: fmt.Errorf("rate limited")},
	)

	err := svc.Enrich(ctx, owner.ID, e.ID)
	if !errors.Is(err, pkgerrors.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	got, err := repo.GetByID(ctx, nil, e.ID)
	if err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if got.Embedded() || got.Intent != nil || got.Classification != nil || got.Specificity != nil {
		t.Fatalf("entry should stay untouched after embed failure, got %+v", got)
	}
}

func TestEnrichWritesAllFields(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()
	repo := entryrepo.NewEntryRepo(gdb, log)

	owner := testutil.SeedUser(t, ctx, gdb, "owner@example.com")
	e := testutil.SeedEntry(t, ctx, gdb, owner.ID, "biete gitarrenunterricht an")

	svc := NewEnrichmentService(gdb, log, repo,
		&fixedClassifier{cl: Classification{types.ClassificationOffer, types.SpecificitySpecific, types.IntentOffer}},
		&fixedEmbedder{vec: []float32{0.1, 0.2, 0.3}},
	)

	if err := svc.Enrich(ctx, owner.ID, e.ID); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, e.ID)
	if err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if !got.Embedded() {
		t.Fatal("expected embedding to be set")
	}
	if got.Intent == nil || *got.Intent != types.IntentOffer {
		t.Fatalf("intent = %v, want offer", got.Intent)
	}
	if got.Classification == nil || *got.Classification != types.ClassificationOffer {
		t.Fatalf("classification = %v, want offer", got.Classification)
	}
	if got.Specificity == nil || *got.Specificity != types.SpecificitySpecific {
		t.Fatalf("specificity = %v, want specific", got.Specificity)
	}
	if vec := got.Vector(); len(vec) != 3 || vec[1] != 0.2 {
		t.Fatalf("unexpected stored vector %v", vec)
	}
}
