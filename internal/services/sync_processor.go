package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dompetku/internal/period"
	"dompetku/internal/ports"
)

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// ReconcileInterval is how often the current cycle is re-mirrored (default: 5m)
	ReconcileInterval time.Duration

	// Cycles is how many cycles, counting back from the current one, each
	// pass re-mirrors (default: 1)
	Cycles int
}

// DefaultSyncProcessorConfig returns sensible defaults
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		ReconcileInterval: 5 * time.Minute,
		Cycles:            1,
	}
}

// SyncProcessor periodically copies recent cycles from the store into the
// sheet mirror. It backs up the event-driven path in case messages are lost.
type SyncProcessor struct {
	store  ports.TransactionStore
	mirror ports.SheetMirror
	calc   period.Calculator
	now    func() time.Time
	config SyncProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncProcessor creates a new sync processor
func NewSyncProcessor(
	store ports.TransactionStore,
	mirror ports.SheetMirror,
	calc period.Calculator,
	now func() time.Time,
	config SyncProcessorConfig,
) *SyncProcessor {
	if now == nil {
		now = time.Now
	}
	if config.Cycles <= 0 {
		config.Cycles = 1
	}
	return &SyncProcessor{
		store:  store,
		mirror: mirror,
		calc:   calc,
		now:    now,
		config: config,
	}
}

// Start begins the reconcile loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	if p.config.ReconcileInterval <= 0 {
		p.mu.Unlock()
		return fmt.Errorf("sync processor reconcile interval must be positive")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started",
		"reconcile_interval", p.config.ReconcileInterval,
		"cycles", p.config.Cycles)

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.ReconcileInterval)
	defer ticker.Stop()

	p.reconcileLogged(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.reconcileLogged(ctx)
		}
	}
}

func (p *SyncProcessor) reconcileLogged(ctx context.Context) {
	n, err := p.Reconcile(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Reconcile failed", "error", err)
		return
	}
	slog.DebugContext(ctx, "Reconcile completed", "mirrored", n)
}

// Reconcile upserts every record of the configured recent cycles into the
// mirror and returns how many rows were written. It stops at the first
// mirror failure.
func (p *SyncProcessor) Reconcile(ctx context.Context) (int, error) {
	written := 0
	for opt := range p.calc.Enumerate(p.now(), p.config.Cycles) {
		rng := p.calc.Range(opt.Start)
		txs, err := p.store.ListRange(ctx, rng.Start, rng.End)
		if err != nil {
			return written, fmt.Errorf("list cycle %s: %w", opt.Value, err)
		}
		for _, tx := range txs {
			if err := p.mirror.Upsert(ctx, tx, rng); err != nil {
				return written, fmt.Errorf("mirror transaction %s: %w", tx.ID, err)
			}
			written++
		}
	}
	return written, nil
}
