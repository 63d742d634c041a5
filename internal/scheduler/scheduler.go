// Package scheduler drives the periodic check-in sweep.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Sweeper is the minimal surface the scheduler needs from the engine.
type Sweeper interface {
	Sweep(now time.Time)
	Now() time.Time
}

// Scheduler runs the sweep on a fixed cadence.
type Scheduler struct {
	sched  gocron.Scheduler
	log    *zap.Logger
	engine Sweeper
}

// New creates a scheduler that sweeps every interval.
func New(engine Sweeper, log *zap.Logger, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	sc := &Scheduler{sched: s, log: log, engine: engine}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sc.run),
		gocron.WithName("checkin-sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sweep job: %w", err)
	}
	return sc, nil
}

func (s *Scheduler) run() {
	s.engine.Sweep(s.engine.Now())
}

// Start begins the periodic sweep.
func (s *Scheduler) Start() {
	s.log.Info("sweep scheduler starting")
	s.sched.Start()
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Scheduler) Stop() error {
	s.log.Info("sweep scheduler stopping")
	return s.sched.Shutdown()
}
