package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yungbote/skillmatch-backend/internal/clients/redis"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

// EnrichWorker consumes the enrichment queue. Transient upstream failures
// re-enqueue the task with a bumped attempt counter; permanent failures
// (entry deleted, ownership mismatch from a stale task) drop it.
type EnrichWorker struct {
	log         *logger.Logger
	queue       redis.EnrichQueue
	enrichment  services.EnrichmentService
	concurrency int
	maxAttempts int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewEnrichWorker(baseLog *logger.Logger, queue redis.EnrichQueue, enrichment services.EnrichmentService) *EnrichWorker {
	return &EnrichWorker{
		log:         baseLog.With("job", "EnrichWorker"),
		queue:       queue,
		enrichment:  enrichment,
		concurrency: envutil.Int("ENRICH_CONCURRENCY", 2),
		maxAttempts: envutil.Int("ENRICH_MAX_ATTEMPTS", 5),
	}
}

func (w *EnrichWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.loop(ctx)
	}
	w.log.Info("Enrich worker started", "concurrency", w.concurrency)
}

func (w *EnrichWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *EnrichWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		w.consumeOne(ctx)
	}
}

func (w *EnrichWorker) consumeOne(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Enrich worker recovered from panic", "panic", r)
			time.Sleep(time.Second)
		}
	}()

	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("Queue dequeue failed", "error", err)
			time.Sleep(2 * time.Second)
		}
		return
	}
	if task == nil {
		return
	}

	err = w.enrichment.Enrich(ctx, task.UserID, task.EntryID)
	switch {
	case err == nil:
	case errors.Is(err, pkgerrors.ErrNotFound), errors.Is(err, pkgerrors.ErrForbidden):
		w.log.Warn("Dropping stale enrich task", "entry_id", task.EntryID, "error", err)
	case task.Attempt+1 >= w.maxAttempts:
		w.log.Error("Enrich task exhausted retries", "entry_id", task.EntryID, "attempts", task.Attempt+1, "error", err)
	default:
		retry := *task
		retry.Attempt++
		if qErr := w.queue.Enqueue(ctx, retry); qErr != nil {
			w.log.Error("Enrich task requeue failed", "entry_id", task.EntryID, "error", qErr)
		} else {
			w.log.Warn("Enrich task requeued", "entry_id", task.EntryID, "attempt", retry.Attempt, "error", err)
		}
	}
}
