package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// EnrichmentService derives classification and embedding for one entry and
// persists both in a single write, so no reader ever observes an entry with
// an embedding but stale classification or vice versa.
type EnrichmentService interface {
	Enrich(ctx context.Context, callerID, entryID uuid.UUID) error
}

type enrichmentService struct {
	db         *gorm.DB
	log        *logger.Logger
	entryRepo  entry.EntryRepo
	classifier Classifier
	embedder   Embedder
}

func NewEnrichmentService(db *gorm.DB, baseLog *logger.Logger, entryRepo entry.EntryRepo, classifier Classifier, embedder Embedder) EnrichmentService {
	return &enrichmentService{
		db:         db,
		log:        baseLog.With("service", "EnrichmentService"),
		entryRepo:  entryRepo,
		classifier: classifier,
		embedder:   embedder,
	}
}

func (s *enrichmentService) Enrich(ctx context.Context, callerID, entryID uuid.UUID) error {
	e, err := s.entryRepo.GetByID(ctx, nil, entryID)
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}
	if e == nil {
		return pkgerrors.ErrNotFound
	}
	if e.UserID != callerID {
		return pkgerrors.ErrForbidden
	}

	// The two model calls are independent; run them concurrently and wait for
	// both before writing anything. Only the embedder can fail the group.
	var cl Classification
	var vec []float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cl = s.classifier.Classify(gctx, e.RawText)
		return nil
	})
	g.Go(func() error {
		v, embErr := s.embedder.Embed(gctx, e.RawText)
		if embErr != nil {
			return embErr
		}
		vec = v
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Enrichment aborted, embedding failed",
			"entry_id", entryID,
			"error", err,
		)
		return fmt.Errorf("%w: embedding: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}

	emb, err := types.EncodeVector(vec)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	if err := s.entryRepo.UpdateEnrichment(ctx, nil, e.ID, emb, cl.Intent, cl.Classification, cl.Specificity); err != nil {
		return fmt.Errorf("persist enrichment: %w", err)
	}

	s.log.Info("Entry enriched",
		"entry_id", entryID,
		"intent", cl.Intent,
		"classification", cl.Classification,
		"specificity", cl.Specificity,
		"dimensions", len(vec),
	)
	return nil
}
