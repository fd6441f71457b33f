// Package worker relays unpublished outbox events to a publisher.
package worker

import (
	"context"
	"log/slog"
	"time"

	"onboard/internal/outbox"
	"onboard/internal/outbox/metrics"
)

// Store is the outbox persistence the worker drains.
type Store interface {
	ProcessPending(ctx context.Context, limit int, fn func(context.Context, outbox.Event) error) (int, error)
}

// Publisher delivers one event. A returned error leaves the event pending.
type Publisher interface {
	Publish(ctx context.Context, event outbox.Event) error
}

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Worker polls the outbox at a fixed interval.
type Worker struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

type Option func(w *Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func New(store Store, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the outbox until ctx is cancelled. Batch failures are logged
// and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			w.logger.ErrorContext(ctx, "outbox batch failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain processes one batch and returns how many events were published.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	return w.store.ProcessPending(ctx, w.batchSize, func(ctx context.Context, event outbox.Event) error {
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.WarnContext(ctx, "outbox publish failed",
				"event_id", event.ID.String(),
				"event_type", event.EventType,
				"attempts", event.Attempts+1,
				"error", err,
			)
			if w.metrics != nil {
				w.metrics.PublishFailures.Inc()
			}
			return err
		}
		if w.metrics != nil {
			w.metrics.Published.Inc()
		}
		return nil
	})
}
