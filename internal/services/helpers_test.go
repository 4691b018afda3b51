package services

import (
	"context"
	"testing"

	"github.com/yungbote/skillmatch-backend/internal/clients/redis"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeQueue struct {
	tasks []redis.EnrichTask
}

func (q *fakeQueue) Enqueue(ctx context.Context, task redis.EnrichTask) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context) (*redis.EnrichTask, error) {
	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return &task, nil
}

func (q *fakeQueue) Close() error { return nil }
