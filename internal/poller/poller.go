package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fangwater/inventory-watch/internal/model"
	"github.com/fangwater/inventory-watch/internal/reconcile"
)

// InventoryFetcher is the client capability the poller needs; api.Client
// satisfies it.
type InventoryFetcher interface {
	AvailableInventory(ctx context.Context, host, marginType string) (*model.InventoryResult, error)
}

// ReportHandler receives one reconciliation report per host per sweep.
type ReportHandler interface {
	HandleReport(report reconcile.Report) error
}

// ReportHandlerFunc is a function adapter for ReportHandler.
type ReportHandlerFunc func(reconcile.Report) error

func (f ReportHandlerFunc) HandleReport(r reconcile.Report) error {
	return f(r)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // sweep cadence (default: 20s)
	Concurrency int           // max in-flight host×type calls (default: 4)
	Timeout     time.Duration // per-call timeout (default: 5s)

	Hosts       []string // base URLs, swept in declared order
	MarginTypes []string // one or two variants; reconciliation needs two
	Assets      []string // tracked symbols for reconciliation
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    20 * time.Second,
		Concurrency: 4,
		Timeout:     5 * time.Second,
	}
}

// Poller periodically sweeps the inventory endpoint across hosts and variants.
type Poller struct {
	cfg     Config
	client  InventoryFetcher
	handler ReportHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. handler may be nil; reports are always logged.
func New(cfg Config, client InventoryFetcher, handler ReportHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop. The first sweep runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("inventory poller started",
		"interval", p.cfg.Interval,
		"hosts", len(p.cfg.Hosts),
		"types", p.cfg.MarginTypes,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("inventory poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Sweep immediately on start.
	p.sweep()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

type pairKey struct {
	host       string
	marginType string
}

// sweep fetches every host×type pair, then reconciles per host. Results are
// local to the sweep; nothing is carried into the next cycle.
func (p *Poller) sweep() {
	start := time.Now()
	sweepID := uuid.New().String()

	var mu sync.Mutex
	results := make(map[pairKey]*model.InventoryResult)
	var faults atomic.Int64

	g, ctx := errgroup.WithContext(p.ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, host := range p.cfg.Hosts {
		for _, marginType := range p.cfg.MarginTypes {
			host, marginType := host, marginType
			g.Go(func() error {
				callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
				defer cancel()

				result, err := p.client.AvailableInventory(callCtx, host, marginType)
				if err != nil {
					// Isolated: the sweep continues over the remaining pairs.
					p.logger.Warn("fetch failed",
						"sweep_id", sweepID,
						"host", host,
						"type", marginType,
						"err", err,
					)
					faults.Add(1)
					return nil
				}

				p.logger.Info("inventory",
					"sweep_id", sweepID,
					"host", host,
					"type", marginType,
					"update_time", model.FormatUpdateTime(result.UpdateTime),
					"assets", len(result.Assets),
				)

				mu.Lock()
				results[pairKey{host, marginType}] = result
				mu.Unlock()
				return nil
			})
		}
	}

	g.Wait()

	// Reconcile per host once all of its pairs completed.
	if len(p.cfg.MarginTypes) == 2 {
		leftType, rightType := p.cfg.MarginTypes[0], p.cfg.MarginTypes[1]
		for _, host := range p.cfg.Hosts {
			report := reconcile.Compare(host, leftType, rightType,
				results[pairKey{host, leftType}],
				results[pairKey{host, rightType}],
				p.cfg.Assets,
			)
			p.report(sweepID, report)
		}
	}

	p.logger.Info("sweep complete",
		"sweep_id", sweepID,
		"pairs", len(p.cfg.Hosts)*len(p.cfg.MarginTypes),
		"fetched", len(results),
		"faults", faults.Load(),
		"duration", time.Since(start),
	)
}

func (p *Poller) report(sweepID string, report reconcile.Report) {
	switch {
	case report.Skipped:
		p.logger.Warn("compare skipped",
			"sweep_id", sweepID,
			"host", report.Host,
			"types", []string{report.Left, report.Right},
		)
	case report.Equal():
		p.logger.Info("all assets equal",
			"sweep_id", sweepID,
			"host", report.Host,
		)
	default:
		for _, d := range report.Diffs {
			p.logger.Info("inventory diff",
				"sweep_id", sweepID,
				"host", report.Host,
				"asset", d.Asset,
				report.Left, string(d.Left),
				report.Right, string(d.Right),
			)
		}
	}

	if p.handler != nil {
		if err := p.handler.HandleReport(report); err != nil {
			p.logger.Warn("report handler failed",
				"sweep_id", sweepID,
				"host", report.Host,
				"err", err,
			)
		}
	}
}
