// Package scheduler runs the periodic expiry sweep. The sweep itself is
// pull-based and owned by databases.ExpiryManager; this is just the cron
// trigger around it.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/databases"
)

// Scheduler handles the periodic background sweep of expired codes
type Scheduler struct {
	cron    *cron.Cron
	sweeper *databases.ExpiryManager
	clock   databases.Clock
}

// NewScheduler creates a new scheduler instance
func NewScheduler(sweeper *databases.ExpiryManager, clock databases.Clock) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sweeper: sweeper,
		clock:   clock,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// sweep every minute; redundant runs are no-ops
	_, err := s.cron.AddFunc("* * * * *", s.runSweep)
	if err != nil {
		zap.S().Errorw("failed to register sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("expiry sweep scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("expiry sweep scheduler stopped")
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := s.sweeper.Sweep(ctx, s.clock.Now())
	if err != nil {
		zap.S().Errorw("expiry sweep failed", "error", err)
		return
	}
	if result.MovedToHistory > 0 || result.PurgedFromHistory > 0 {
		zap.S().Infow("expiry sweep complete",
			"movedToHistory", result.MovedToHistory,
			"purgedFromHistory", result.PurgedFromHistory,
		)
	}
}
