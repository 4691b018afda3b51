package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/skillmatch-backend/internal/clients/redis"
	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

type memQueue struct {
	tasks []redis.EnrichTask
}

func (q *memQueue) Enqueue(ctx context.Context, task redis.EnrichTask) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *memQueue) Dequeue(ctx context.Context) (*redis.EnrichTask, error) {
	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return &task, nil
}

func (q *memQueue) Close() error { return nil }

type fakeEnricher struct {
	err   error
	calls []redis.EnrichTask
}

func (f *fakeEnricher) Enrich(ctx context.Context, callerID, entryID uuid.UUID) error {
	f.calls = append(f.calls, redis.EnrichTask{EntryID: entryID, UserID: callerID})
	return f.err
}

func newTestWorker(t *testing.T, queue redis.EnrichQueue, enricher *fakeEnricher, maxAttempts string) *EnrichWorker {
	t.Helper()
	t.Setenv("ENRICH_CONCURRENCY", "1")
	t.Setenv("ENRICH_MAX_ATTEMPTS", maxAttempts)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewEnrichWorker(log, queue, enricher)
}

func drain(ctx context.Context, w *EnrichWorker, q *memQueue) {
	for len(q.tasks) > 0 {
		w.consumeOne(ctx)
	}
}

func TestWorkerRedeliversUpToAttemptCap(t *testing.T) {
	ctx := context.Background()
	queue := &memQueue{}
	enricher := &fakeEnricher{err: errors.New("embedding upstream down")}
	w := newTestWorker(t, queue, enricher, "3")

	entryID, userID := uuid.New(), uuid.New()
	if err := queue.Enqueue(ctx, redis.EnrichTask{EntryID: entryID, UserID: userID}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	drain(ctx, w, queue)

	// Attempts 0 and 1 requeue, attempt 2 hits the cap and is dropped.
	if len(enricher.calls) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(enricher.calls))
	}
	for i, c := range enricher.calls {
		if c.EntryID != entryID || c.UserID != userID {
			t.Fatalf("delivery %d carried wrong task: %+v", i, c)
		}
	}
	if len(queue.tasks) != 0 {
		t.Fatalf("exhausted task must not be requeued, queue = %+v", queue.tasks)
	}
}

func TestWorkerDropsStaleTasks(t *testing.T) {
	for _, sentinel := range []error{pkgerrors.ErrNotFound, pkgerrors.ErrForbidden} {
		ctx := context.Background()
		queue := &memQueue{}
		enricher := &fakeEnricher{err: sentinel}
		w := newTestWorker(t, queue, enricher, "5")

		if err := queue.Enqueue(ctx, redis.EnrichTask{EntryID: uuid.New(), UserID: uuid.New()}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		drain(ctx, w, queue)

		if len(enricher.calls) != 1 {
			t.Fatalf("%v: deliveries = %d, want 1 (no retry)", sentinel, len(enricher.calls))
		}
		if len(queue.tasks) != 0 {
			t.Fatalf("%v: stale task must be dropped, queue = %+v", sentinel, queue.tasks)
		}
	}
}

func TestWorkerSuccessConsumesWithoutRequeue(t *testing.T) {
	ctx := context.Background()
	queue := &memQueue{}
	enricher := &fakeEnricher{}
	w := newTestWorker(t, queue, enricher, "5")

	if err := queue.Enqueue(ctx, redis.EnrichTask{EntryID: uuid.New(), UserID: uuid.New()}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	drain(ctx, w, queue)

	if len(enricher.calls) != 1 || len(queue.tasks) != 0 {
		t.Fatalf("success path: deliveries = %d, queued = %d, want 1/0", len(enricher.calls), len(queue.tasks))
	}
}
