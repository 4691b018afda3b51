package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/skillmatch-backend/internal/clients/redis"
	entryrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/apierr"
)

type EntryService interface {
	Create(ctx context.Context, userID uuid.UUID, rawText string) (*types.Entry, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Entry, error)
	Get(ctx context.Context, callerID, entryID uuid.UUID) (*types.Entry, error)
	UpdateStatus(ctx context.Context, callerID, entryID uuid.UUID, status string) error
	// TagSkills runs skill extraction over the entry text and stores the tags.
	TagSkills(ctx context.Context, callerID, entryID uuid.UUID) ([]string, error)
	// RequestEnrichment re-queues enrichment for an owned entry.
	RequestEnrichment(ctx context.Context, callerID, entryID uuid.UUID) error
}

type entryService struct {
	db        *gorm.DB
	log       *logger.Logger
	entryRepo entryrepo.EntryRepo
	extractor SkillExtractor
	queue     redis.EnrichQueue
}

func NewEntryService(gdb *gorm.DB, baseLog *logger.Logger, entryRepo entryrepo.EntryRepo, extractor SkillExtractor, queue redis.EnrichQueue) EntryService {
	return &entryService{
		db:        gdb,
		log:       baseLog.With("service", "EntryService"),
		entryRepo: entryRepo,
		extractor: extractor,
		queue:     queue,
	}
}

func (s *entryService) Create(ctx context.Context, userID uuid.UUID, rawText string) (*types.Entry, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, fmt.Errorf("%w: text required", pkgerrors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(rawText) > types.MaxRawTextLen {
		return nil, fmt.Errorf("%w: text exceeds %d characters", pkgerrors.ErrInvalidInput, types.MaxRawTextLen)
	}

	e := &types.Entry{
		ID:      uuid.New(),
		UserID:  userID,
		RawText: rawText,
		Status:  types.EntryStatusActive,
	}
	if _, err := s.entryRepo.Create(ctx, nil, []*types.Entry{e}); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	// Enqueue after the row is durable; a queue outage degrades to a manual
	// re-request, never a lost entry.
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, redis.EnrichTask{EntryID: e.ID, UserID: userID}); err != nil {
			s.log.Error("Enrichment enqueue failed, entry stays unenriched", "entry_id", e.ID, "error", err)
		}
	}
	return e, nil
}

func (s *entryService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Entry, error) {
	return s.entryRepo.ListByUserID(ctx, nil, userID)
}

func (s *entryService) Get(ctx context.Context, callerID, entryID uuid.UUID) (*types.Entry, error) {
	e, err := s.entryRepo.GetByID(ctx, nil, entryID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, pkgerrors.ErrNotFound
	}
	if e.UserID != callerID {
		return nil, pkgerrors.ErrForbidden
	}
	return e, nil
}

// UpdateStatus enforces the entry lifecycle: active and paused flip freely,
// closed is terminal.
func (s *entryService) UpdateStatus(ctx context.Context, callerID, entryID uuid.UUID, status string) error {
	switch status {
	case types.EntryStatusActive, types.EntryStatusPaused, types.EntryStatusClosed:
	default:
		return fmt.Errorf("%w: unknown status %q", pkgerrors.ErrInvalidInput, status)
	}

	e, err := s.Get(ctx, callerID, entryID)
	if err != nil {
		return err
	}
	if e.Status == types.EntryStatusClosed {
		// A lifecycle conflict, not a malformed request: surface it as 409 while
		// staying in the invalid-input error family for callers using errors.Is.
		return apierr.New(http.StatusConflict, "entry_closed",
			fmt.Errorf("%w: closed entries cannot be reopened", pkgerrors.ErrInvalidInput))
	}
	if e.Status == status {
		return nil
	}
	return s.entryRepo.UpdateStatus(ctx, nil, entryID, status)
}

func (s *entryService) TagSkills(ctx context.Context, callerID, entryID uuid.UUID) ([]string, error) {
	e, err := s.Get(ctx, callerID, entryID)
	if err != nil {
		return nil, err
	}
	tags := s.extractor.Extract(ctx, e.RawText)
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode skill tags: %w", err)
	}
	if err := s.entryRepo.UpdateSkillTags(ctx, nil, e.ID, raw); err != nil {
		return nil, fmt.Errorf("persist skill tags: %w", err)
	}
	return tags, nil
}

func (s *entryService) RequestEnrichment(ctx context.Context, callerID, entryID uuid.UUID) error {
	e, err := s.Get(ctx, callerID, entryID)
	if err != nil {
		return err
	}
	if s.queue == nil {
		return fmt.Errorf("%w: enrichment queue unavailable", pkgerrors.ErrUpstreamUnavailable)
	}
	return s.queue.Enqueue(ctx, redis.EnrichTask{EntryID: e.ID, UserID: e.UserID})
}
