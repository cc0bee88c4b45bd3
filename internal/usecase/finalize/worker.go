// Package finalize hosts the background worker pool that settles accepted
// transactions. Finalization never runs on the request path: the ingestion
// service only enqueues a business identifier, and a pool worker later
// waits out the settlement delay and flips the record to PROCESSED with a
// single compare-and-swap against the store.
package finalize

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/observability"
)

// Config controls the worker pool.
type Config struct {
	Workers         int
	QueueSize       int
	SettlementDelay time.Duration
	Clock           Clock // defaults to SystemClock
}

// Worker is the long-lived finalization pool. One job is enqueued per
// accepted transaction; jobs for different transactions run concurrently
// with no relative ordering.
type Worker struct {
	repo    domain.TransactionRepository
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   Clock
	delay   time.Duration
	workers int

	jobs chan string
	done chan struct{}
	wg   sync.WaitGroup
}

// NewWorker creates the pool; call Start before scheduling work.
func NewWorker(repo domain.TransactionRepository, logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Worker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}

	return &Worker{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		clock:   cfg.Clock,
		delay:   cfg.SettlementDelay,
		workers: cfg.Workers,
		jobs:    make(chan string, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the pool workers.
func (w *Worker) Start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	w.logger.Info("finalization workers started", "workers", w.workers, "settlementDelay", w.delay)
}

// Stop halts intake and waits for the workers to exit. Jobs still inside
// their settlement delay are abandoned; those records stay PROCESSING.
func (w *Worker) Stop() {
	close(w.done)
	w.wg.Wait()
	w.logger.Info("finalization workers stopped")
}

// Schedule enqueues one finalization job. It blocks only when the backlog
// exceeds the queue size, never on the settlement delay itself.
func (w *Worker) Schedule(transactionID string) {
	select {
	case w.jobs <- transactionID:
	case <-w.done:
		w.logger.Warn("finalization not scheduled, worker stopped", "transactionId", transactionID)
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case transactionID := <-w.jobs:
			w.finalize(transactionID)
		case <-w.done:
			return
		}
	}
}

// finalize waits out the settlement delay and then attempts the single
// PROCESSING -> PROCESSED transition. The delay holds no lock and no open
// store transaction.
func (w *Worker) finalize(transactionID string) {
	select {
	case <-w.clock.After(w.delay):
	case <-w.done:
		// Shutdown mid-delay: the record is left PROCESSING on purpose.
		w.logger.Warn("finalization abandoned during settlement delay", "transactionId", transactionID)
		return
	}

	affected, err := w.repo.TransitionStatus(
		context.Background(),
		transactionID,
		domain.StatusProcessing,
		domain.StatusProcessed,
		w.clock.Now().UTC(),
	)
	if err != nil {
		// Isolated to this transaction: logged, not retried, never fatal.
		w.logger.Error("finalization failed", "transactionId", transactionID, "error", err)
		w.metrics.ObserveFinalize(observability.FinalizeError)
		return
	}
	if affected == 0 {
		// Already finalized, or the record is missing. Safe no-op.
		w.logger.Info("finalization skipped, no matching record in PROCESSING", "transactionId", transactionID)
		w.metrics.ObserveFinalize(observability.FinalizeNoop)
		return
	}

	w.logger.Info("transaction finalized", "transactionId", transactionID)
	w.metrics.ObserveFinalize(observability.FinalizeApplied)
}
