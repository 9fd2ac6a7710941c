// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fizcal/internal/logger"
	"fizcal/internal/services"
)

// Scheduler records balance snapshots on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	snapshots services.SnapshotServicer
	log       *zap.SugaredLogger
	now       func() time.Time
}

// New returns a Scheduler running snapshots on spec, which accepts standard
// five-field cron expressions and descriptors such as "@daily". An empty
// spec returns nil; a nil Scheduler is safe to Start and Stop.
func New(spec string, snapshots services.SnapshotServicer) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		snapshots: snapshots,
		log:       logger.Named("scheduler"),
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.RunSnapshots); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.log.Infow("Scheduler started", "next_run", s.cron.Entries()[0].Next)
}

// Stop halts the schedule and waits for a running job to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with a job still running")
	}
}

// RunSnapshots records one snapshot pass for every user.
func (s *Scheduler) RunSnapshots() {
	start := s.now()
	result, err := s.snapshots.ComputeAndRecordSnapshots(start)
	if err != nil {
		s.log.Errorw("Snapshot run failed", "error", err)
		return
	}
	s.log.Infow("Snapshot run complete",
		"recorded_at", result.RecordedAt,
		"users", result.Users,
		"recorded", result.Recorded,
		"duration", time.Since(start),
	)
}
