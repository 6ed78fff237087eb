package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// Scheduler drives the periodic sweep-then-drain cycle: every interval it
// runs one sweep and then processes the queue one item at a time. Stands in
// for the host's cron when paranoia runs as its own process.
type Scheduler struct {
	sweep    *SweepService
	worker   *ResetWorker
	queue    outbound.ResetQueue
	interval time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once // Prevent double-close panic on Stop()
}

// NewScheduler creates a scheduler with the given tick interval.
func NewScheduler(sweep *SweepService, worker *ResetWorker, queue outbound.ResetQueue, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		sweep:    sweep,
		worker:   worker,
		queue:    queue,
		interval: interval,
		logger:   logger.With("channel", "paranoia"),
		stopChan: make(chan struct{}),
	}
}

// Start launches the scheduler goroutine. Call Stop to shut it down.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Tick runs one sweep and drains the queue. Exposed for the one-shot CLI
// path and the admin API's manual trigger.
func (s *Scheduler) Tick(ctx context.Context) {
	if _, err := s.sweep.Run(ctx); err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	s.Drain(ctx)
}

// Drain processes queued resets one item at a time until the queue is
// empty or the context is cancelled. A failed item is not re-queued here;
// the queue implementation owns retry.
func (s *Scheduler) Drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := s.queue.Dequeue()
		if err != nil {
			s.logger.Error("failed to dequeue reset item", "error", err)
			return
		}
		if item == nil {
			return
		}
		_ = s.worker.Process(ctx, *item) // Process logs its own failures
	}
}

// Stop stops the scheduler goroutine and waits for it to exit.
// Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}
