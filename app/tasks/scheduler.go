package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler triggers a sync on startup and then every interval.
type Scheduler struct {
	runner   SyncRunner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(runner SyncRunner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()

	slog.Info("Scheduler started", "interval", s.interval)
}

// Stop cancels an in-flight run and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runOnce() {
	_, err := s.runner.Run(s.ctx, TriggerSchedule)
	if errors.Is(err, ErrRunInProgress) {
		slog.Debug("Scheduled sync skipped, run in progress")
	}
}
