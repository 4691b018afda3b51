package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

// Sweeper runs the matching sweep on a schedule and on demand (the cron HTTP
// trigger). A mutex serializes the two paths; the pair-unique index would
// keep overlapping sweeps correct anyway, but running them concurrently just
// burns the same scan twice.
type Sweeper struct {
	log      *logger.Logger
	matching services.MatchingService
	schedule string
	timeout  time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func New(baseLog *logger.Logger, matching services.MatchingService) *Sweeper {
	return &Sweeper{
		log:      baseLog.With("job", "Sweeper"),
		matching: matching,
		schedule: envutil.Str("SWEEP_SCHEDULE", "@every 5m"),
		timeout:  envutil.Seconds("SWEEP_TIMEOUT_SECONDS", 4*time.Minute),
	}
}

func (s *Sweeper) Start() error {
	c := cron.New()
	err := c.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunNow(ctx); err != nil {
			s.log.Error("Scheduled sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info("Sweeper started", "schedule", s.schedule)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) RunNow(ctx context.Context) (services.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching.RunSweep(ctx)
}
