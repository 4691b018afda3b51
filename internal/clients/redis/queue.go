package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// EnrichTask is one queued enrichment request. Attempt counts redeliveries so
// the worker can cap retries of a task that keeps failing.
type EnrichTask struct {
	EntryID uuid.UUID `json:"entry_id"`
	UserID  uuid.UUID `json:"user_id"`
	Attempt int       `json:"attempt"`
}

// EnrichQueue decouples entry creation from enrichment completion: the
// creating request enqueues and returns immediately, the worker consumes.
// Delivery is at-least-once; enrichment itself is idempotent for equal text.
type EnrichQueue interface {
	Enqueue(ctx context.Context, task EnrichTask) error
	// Dequeue blocks up to its internal poll timeout and returns nil when the
	// queue stayed empty.
	Dequeue(ctx context.Context) (*EnrichTask, error)
	Close() error
}

type enrichQueue struct {
	log  *logger.Logger
	rdb  *goredis.Client
	key  string
	poll time.Duration
}

func NewEnrichQueue(log *logger.Logger) (EnrichQueue, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(os.Getenv("REDIS_ENRICH_QUEUE"))
	if key == "" {
		key = "enrich:entries"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &enrichQueue{
		log:  log.With("client", "RedisEnrichQueue"),
		rdb:  rdb,
		key:  key,
		poll: 2 * time.Second,
	}, nil
}

func (q *enrichQueue) Enqueue(ctx context.Context, task EnrichTask) error {
	if q == nil || q.rdb == nil {
		return fmt.Errorf("enrich queue not initialized")
	}
	raw, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, raw).Err()
}

func (q *enrichQueue) Dequeue(ctx context.Context) (*EnrichTask, error) {
	if q == nil || q.rdb == nil {
		return nil, fmt.Errorf("enrich queue not initialized")
	}
	res, err := q.rdb.BRPop(ctx, q.poll, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(res))
	}
	var task EnrichTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		q.log.Warn("Dropping undecodable enrich task", "error", err)
		return nil, nil
	}
	return &task, nil
}

func (q *enrichQueue) Close() error {
	if q == nil || q.rdb == nil {
		return nil
	}
	return q.rdb.Close()
}
