// Package reconciler periodically brings batches whose root never reached
// the ledger back in line, either by confirming a root that did land or by
// resubmitting it.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/batch"
	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/util"
)

const (
	DefaultInterval     = time.Minute
	DefaultMaxAttempts  = 10
	DefaultPendingGrace = 5 * time.Minute
)

// IBatchManager is the part of the batch manager the reconciler drives
type IBatchManager interface {
	ListBatches() ([]*types.Batch, error)
	ResubmitBatch(ctx context.Context, batchCode string) (*types.Batch, error)
}

type Config struct {
	Interval time.Duration
	// MaxAttempts stops resubmitting a batch after this many ledger writes
	MaxAttempts int
	// PendingGrace leaves a pending batch alone until it has not been updated
	// for this long. Another process sharing the store may still be creating it.
	PendingGrace time.Duration
}

// Summary describes one reconciliation pass
type Summary struct {
	Scanned   int
	Confirmed int
	Failed    int
	Conflicts int
	Skipped   int
}

type Reconciler struct {
	manager IBatchManager
	cfg     Config
	logger  *zap.Logger

	now func() time.Time

	mu sync.Mutex
	// blocked holds batches resubmitting cannot fix: a conflicting ledger
	// root or products missing from the store.
	blocked map[string]struct{}
}

func NewReconciler(manager IBatchManager, cfg *Config, logger *zap.Logger) *Reconciler {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.PendingGrace <= 0 {
		c.PendingGrace = DefaultPendingGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		manager: manager,
		cfg:     c,
		logger:  logger,
		now:     time.Now,
		blocked: make(map[string]struct{}),
	}
}

// Run reconciles once immediately and then on every tick until ctx is done
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Sugar().Infow("Reconciler started", "interval", r.cfg.Interval.String())

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.ReconcileOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Sugar().Warnw("Reconciliation pass failed", "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			r.logger.Sugar().Info("Reconciler exiting due to context done")
			return
		}
	}
}

// ReconcileOnce resubmits every unconfirmed batch once. The pass stops early
// when the ledger is unavailable.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (*Summary, error) {
	batches, err := r.manager.ListBatches()
	if err != nil {
		return nil, err
	}
	unconfirmed := util.Filter(batches, func(b *types.Batch) bool {
		return b.LedgerStatus != types.LedgerConfirmed
	})

	summary := &Summary{Scanned: len(unconfirmed)}
	for _, b := range unconfirmed {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if r.isBlocked(b.BatchCode) || b.LedgerAttempts >= r.cfg.MaxAttempts || r.inGrace(b) {
			summary.Skipped++
			continue
		}

		updated, err := r.manager.ResubmitBatch(ctx, b.BatchCode)
		switch {
		case err == nil && updated.LedgerStatus == types.LedgerConfirmed:
			summary.Confirmed++
			r.logger.Sugar().Infow("Batch reconciled", "batchCode", b.BatchCode)
		case errors.Is(err, batch.ErrRootConflict):
			summary.Conflicts++
			r.markBlocked(b.BatchCode)
			r.logger.Sugar().Errorw("Batch root conflicts with the ledger", "batchCode", b.BatchCode, "error", err)
		case errors.Is(err, batch.ErrIncompleteBatch):
			summary.Failed++
			r.markBlocked(b.BatchCode)
			r.logger.Sugar().Errorw("Batch is missing products, not committing", "batchCode", b.BatchCode, "error", err)
		case errors.Is(err, contractCaller.ErrLedgerUnavailable):
			summary.Failed++
			r.logger.Sugar().Warnw("Ledger unavailable, ending pass", "batchCode", b.BatchCode, "error", err)
			return summary, nil
		default:
			summary.Failed++
			r.logger.Sugar().Warnw("Batch resubmit failed", "batchCode", b.BatchCode, "error", err)
		}
	}

	if summary.Scanned > 0 {
		r.logger.Sugar().Infow("Reconciliation pass finished",
			"scanned", summary.Scanned,
			"confirmed", summary.Confirmed,
			"failed", summary.Failed,
			"conflicts", summary.Conflicts,
			"skipped", summary.Skipped,
		)
	}
	return summary, nil
}

func (r *Reconciler) inGrace(b *types.Batch) bool {
	return b.LedgerStatus == types.LedgerPending && r.now().Sub(b.UpdatedAt) < r.cfg.PendingGrace
}

func (r *Reconciler) isBlocked(batchCode string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blocked[batchCode]
	return ok
}

func (r *Reconciler) markBlocked(batchCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[batchCode] = struct{}{}
}
