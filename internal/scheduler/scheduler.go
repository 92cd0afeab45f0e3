// Package scheduler drives periodic re-extraction of a fixed set of races,
// e.g. to pick up odds movement during the afternoon card.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-hunter/internal/models"
)

// Extractor is the extraction entry point the scheduler drives.
type Extractor interface {
	ExtractRace(ctx context.Context, raceID string, includeOdds bool) (*models.RaceResult, error)
}

// ResultSink receives each completed extraction.
type ResultSink func(raceID string, result *models.RaceResult)

// Scheduler runs extraction sweeps over a configured race list on a cron
// schedule. Races within one sweep are fetched strictly sequentially with a
// courtesy delay between them.
type Scheduler struct {
	cron        *cron.Cron
	extractor   Extractor
	sink        ResultSink
	logger      *logrus.Logger
	raceIDs     []string
	raceDelay   time.Duration
	includeOdds bool

	mu          sync.RWMutex
	isRunning   bool
	jobID       cron.EntryID
	lastSuccess time.Time
}

// New creates a scheduler for the given race list.
func New(extractor Extractor, sink ResultSink, raceIDs []string, raceDelay time.Duration, includeOdds bool, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	// A sweep slower than the schedule must not overlap the next firing;
	// races within a sweep are meant to be fetched strictly sequentially.
	chain := cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger)))
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC), chain),
		extractor:   extractor,
		sink:        sink,
		logger:      logger,
		raceIDs:     raceIDs,
		raceDelay:   raceDelay,
		includeOdds: includeOdds,
	}
}

// Schedule registers the extraction sweep under the given cron expression.
func (s *Scheduler) Schedule(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.runSweep)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}
	s.jobID = entryID

	s.logger.WithFields(logrus.Fields{
		"cron":  cronExpression,
		"races": len(s.raceIDs),
	}).Info("extraction sweep scheduled")

	return nil
}

// runSweep extracts every configured race in order. One failing race does
// not stop the sweep.
func (s *Scheduler) runSweep() {
	sweepID := uuid.New()
	log := s.logger.WithField("sweep_id", sweepID)
	log.Info("extraction sweep starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	succeeded := 0
	for i, raceID := range s.raceIDs {
		if i > 0 && s.raceDelay > 0 {
			select {
			case <-time.After(s.raceDelay):
			case <-ctx.Done():
				log.Warn("extraction sweep cancelled")
				return
			}
		}

		result, err := s.extractor.ExtractRace(ctx, raceID, s.includeOdds)
		if err != nil {
			log.WithError(err).WithField("race_id", raceID).Error("race extraction failed")
			continue
		}
		succeeded++
		if s.sink != nil {
			s.sink(raceID, result)
		}
	}

	if succeeded > 0 {
		s.mu.Lock()
		s.lastSuccess = time.Now()
		s.mu.Unlock()
	}

	log.WithFields(logrus.Fields{
		"succeeded": succeeded,
		"total":     len(s.raceIDs),
	}).Info("extraction sweep finished")
}

// RunOnce triggers a single sweep immediately, outside the cron schedule.
func (s *Scheduler) RunOnce() {
	s.runSweep()
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if s.jobID == 0 {
		return fmt.Errorf("no job scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	stopCtx := s.cron.Stop()
	s.mu.Unlock()

	// A finishing sweep takes s.mu to record its success time, so the
	// wait must happen with the lock released.
	<-stopCtx.Done()

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastSuccess returns the time of the last sweep that extracted at least
// one race; zero before the first success.
func (s *Scheduler) LastSuccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSuccess
}

// NextRun returns the time of the next scheduled sweep.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}
	entry := s.cron.Entry(s.jobID)
	if !entry.Valid() {
		return time.Time{}
	}
	return entry.Next
}
