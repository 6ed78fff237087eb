package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// SweepService enumerates stale accounts and queues them for credential
// reset. Enumeration and processing are deliberately separate: the sweep
// only feeds the queue; the worker drains it one item at a time.
type SweepService struct {
	accounts   account.Store
	queue      outbound.ResetQueue
	exemptions outbound.Exempter
	settings   *SettingsStore
	batchSize  int
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer

	now func() time.Time
}

// NewSweepService creates a sweep service. The threshold is read from
// settings on every run; zero disables the feature. metrics and exemptions
// may be nil.
func NewSweepService(accounts account.Store, queue outbound.ResetQueue, exemptions outbound.Exempter, settings *SettingsStore, batchSize int, logger *slog.Logger, metrics *Metrics) *SweepService {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 250
	}
	return &SweepService{
		accounts:   accounts,
		queue:      queue,
		exemptions: exemptions,
		settings:   settings,
		batchSize:  batchSize,
		logger:     logger.With("channel", "paranoia"),
		metrics:    metrics,
		tracer:     otel.Tracer("paranoia/sweep"),
		now:        time.Now,
	}
}

// Run performs one sweep tick: enumerate up to batchSize stale accounts and
// enqueue each for reset. Returns the number enqueued. A zero threshold
// means the feature is off and the sweep is a no-op.
func (s *SweepService) Run(ctx context.Context) (int, error) {
	threshold := s.settings.Get().Threshold()
	if threshold <= 0 {
		return 0, nil
	}

	ctx, span := s.tracer.Start(ctx, "sweep.run")
	defer span.End()

	cutoff := s.now().UTC().Add(-threshold)
	stale, err := s.accounts.ListStale(ctx, cutoff, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate stale accounts: %w", err)
	}

	enqueued := 0
	for i := range stale {
		a := &stale[i]
		if s.exemptions != nil && s.exemptions.IsExempt(a) {
			s.logger.Debug("stale account exempt from reset", "uid", a.UID, "name", a.Name)
			continue
		}
		if err := s.queue.Enqueue(outbound.NewResetItem(a.UID)); err != nil {
			s.logger.Error("failed to enqueue stale account", "uid", a.UID, "error", err)
			continue
		}
		enqueued++
	}

	span.SetAttributes(
		attribute.Int("sweep.stale", len(stale)),
		attribute.Int("sweep.enqueued", enqueued),
	)
	if s.metrics != nil {
		s.metrics.SweepEnqueuedTotal.Add(float64(enqueued))
		s.metrics.QueueDepth.Set(float64(s.queue.Len()))
	}
	if enqueued > 0 {
		s.logger.Info("stale-account sweep complete",
			"cutoff", cutoff, "stale", len(stale), "enqueued", enqueued)
	}
	return enqueued, nil
}
