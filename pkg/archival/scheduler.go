package archival

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule triggers the pipeline daily at 2:00 AM.
const DefaultSchedule = "0 2 * * *"

// Scheduler fires the coordinator on a cron schedule in a fixed timezone.
type Scheduler struct {
	coordinator *Coordinator
	schedule    string
	location    *time.Location
	cron        *cron.Cron
	mu          sync.Mutex
	logger      *slog.Logger
	running     bool
}

// NewScheduler creates a Scheduler for the coordinator. An empty schedule
// falls back to DefaultSchedule; a nil location means UTC.
func NewScheduler(coordinator *Coordinator, schedule string, location *time.Location) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		coordinator: coordinator,
		schedule:    schedule,
		location:    location,
		cron:        cron.New(cron.WithLocation(location)),
		logger:      slog.Default().With("component", "archival.scheduler"),
	}
}

// Start begins scheduled archival runs. The context cancels the scheduler
// in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule archival: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("archival scheduler started",
		"schedule", s.schedule,
		"timezone", s.location.String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runOnce executes a scheduled fan-out run.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.logger.Info("scheduled archival run triggered")

	outcomes, err := s.coordinator.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled archival run failed", "error", err)
		return
	}

	var archived, skipped, failed int
	for _, outcome := range outcomes {
		switch outcome.Status {
		case OutcomeArchived:
			archived++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	s.logger.Info("scheduled archival run settled",
		"archived", archived,
		"skipped", skipped,
		"failed", failed,
	)
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("archival scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
