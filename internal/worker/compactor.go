package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CompactionFacade exposes the subset of application functionality required
// by the compactor.
type CompactionFacade interface {
	CustomersForCompaction(ctx context.Context, limit int) ([]int64, error)
	CompactLedger(ctx context.Context, customerID int64) (int64, error)
}

// Compactor periodically prunes consumed and expired lots from customer
// ledgers. Expiry stays lazy at read time; this pool only reclaims storage,
// so the pace of compaction never affects balances.
type Compactor struct {
	facade       CompactionFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan int64
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCompactor constructs ledger compaction worker pool.
func NewCompactor(facade CompactionFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Compactor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Compactor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan int64, batchSize*workers),
	}
}

// Start launches background compaction. The start context only scopes the
// launch; fx cancels it once startup completes, so the run context is detached
// from it and Stop is the sole shutdown path.
func (p *Compactor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *Compactor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Compactor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *Compactor) fetchAndDispatch(ctx context.Context) {
	customers, err := p.facade.CustomersForCompaction(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch customers for compaction failed", slog.String("error", err.Error()))
		return
	}
	for _, customerID := range customers {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- customerID:
		}
	}
}

func (p *Compactor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case customerID, ok := <-p.jobs:
			if !ok {
				return
			}
			p.compact(ctx, customerID)
		}
	}
}

func (p *Compactor) compact(ctx context.Context, customerID int64) {
	removed, err := p.facade.CompactLedger(ctx, customerID)
	if err != nil {
		p.logger.Error("ledger compaction failed",
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()),
		)
		return
	}
	if removed > 0 {
		p.logger.Info("ledger compacted",
			slog.Int64("customer_id", customerID),
			slog.Int64("lots_removed", removed),
		)
	}
}
