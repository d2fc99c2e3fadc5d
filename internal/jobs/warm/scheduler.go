package warm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// Scheduler runs registered handlers on fixed intervals. A handler never
// overlaps with itself.
type Scheduler struct {
	log      *logger.Logger
	registry *Registry
	cron     *gocron.Scheduler
	timeout  time.Duration
}

func NewScheduler(log *logger.Logger, registry *Registry, runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = time.Minute
	}
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{
		log:      log.With("component", "Scheduler"),
		registry: registry,
		cron:     cron,
		timeout:  runTimeout,
	}
}

// Every schedules a registered handler. The first run happens on Start.
func (s *Scheduler) Every(jobType string, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive for job_type=%s", jobType)
	}
	if _, ok := s.registry.Get(jobType); !ok {
		return fmt.Errorf("no handler registered for job_type=%s", jobType)
	}
	_, err := s.cron.Every(interval).Tag(jobType).Do(func() {
		_ = s.RunNow(context.Background(), jobType)
	})
	return err
}

// RunNow executes one handler synchronously with the run timeout applied.
func (s *Scheduler) RunNow(ctx context.Context, jobType string) error {
	h, ok := s.registry.Get(jobType)
	if !ok {
		return fmt.Errorf("no handler registered for job_type=%s", jobType)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := h.Run(ctx)
	if err != nil {
		s.log.Warn("Scheduled job failed", "job_type", jobType, "duration", time.Since(start), "error", err)
		return err
	}
	s.log.Debug("Scheduled job finished", "job_type", jobType, "duration", time.Since(start))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.log.Info("Scheduler started", "jobs", s.registry.Types())
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
