package workers

import (
	"context"
	"log/slog"
	"time"
)

// CatalogRefresher is the part of the catalog service the worker drives.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

type RefreshJob struct {
	Reason string
}

// RefreshWorker reloads the catalog in the background, either on demand or
// on a fixed interval.
type RefreshWorker struct {
	catalog CatalogRefresher
	jobs    chan RefreshJob
	done    chan struct{}
	logger  *slog.Logger
}

func NewRefreshWorker(catalog CatalogRefresher, logger *slog.Logger) *RefreshWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshWorker{
		catalog: catalog,
		jobs:    make(chan RefreshJob, 10),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Start runs the worker until ctx is cancelled. A non-positive interval
// disables periodic refreshes.
func (w *RefreshWorker) Start(ctx context.Context, interval time.Duration) {
	go func() {
		defer close(w.done)

		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		w.logger.Info("catalog refresher started", "interval", interval.String())
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-tick:
				w.processJob(ctx, RefreshJob{Reason: "interval"})
			case <-ctx.Done():
				w.logger.Info("catalog refresher shutting down")
				return
			}
		}
	}()
}

// Done is closed once the worker goroutine has exited.
func (w *RefreshWorker) Done() <-chan struct{} {
	return w.done
}

// Enqueue schedules a refresh. It reports false when the queue is full and
// the job was dropped.
func (w *RefreshWorker) Enqueue(reason string) bool {
	select {
	case w.jobs <- RefreshJob{Reason: reason}:
		return true
	default:
		w.logger.Warn("catalog refresher queue full, dropping job", "reason", reason)
		return false
	}
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	start := time.Now()
	if err := w.catalog.Refresh(ctx); err != nil {
		w.logger.ErrorContext(ctx, "catalog refresh failed", "reason", job.Reason, "error", err)
		return
	}
	w.logger.InfoContext(ctx, "catalog refreshed", "reason", job.Reason, "duration", time.Since(start).String())
}
