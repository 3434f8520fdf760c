// Package scheduler runs the periodic background sweeps: low stock alert
// checks, batch status refreshes and resolved alert cleanup.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appbatch "github.com/wms/backend/internal/application/batch"
	appinv "github.com/wms/backend/internal/application/inventory"
)

// AlertChecker sweeps products against their reorder points and prunes old
// resolved alerts.
type AlertChecker interface {
	CheckProducts(ctx context.Context, now time.Time) (*appinv.AlertCheckResult, error)
	CleanupResolved(ctx context.Context, retention time.Duration, now time.Time) (int64, error)
}

// BatchRefresher re-derives batch statuses from the passage of time.
type BatchRefresher interface {
	RefreshStatuses(ctx context.Context) (*appbatch.RefreshResult, error)
}

// Config holds sweep intervals and retention settings
type Config struct {
	AlertCheckInterval   time.Duration
	BatchRefreshInterval time.Duration
	CleanupInterval      time.Duration
	ResolvedRetention    time.Duration
}

// DefaultConfig returns default sweeper configuration
func DefaultConfig() Config {
	return Config{
		AlertCheckInterval:   5 * time.Minute,
		BatchRefreshInterval: time.Hour,
		CleanupInterval:      24 * time.Hour,
		ResolvedRetention:    30 * 24 * time.Hour,
	}
}

// Sweeper drives the periodic maintenance work. Each sweep runs on its own
// ticker; a failed sweep is logged and retried on the next tick.
type Sweeper struct {
	config  Config
	alerts  AlertChecker
	batches BatchRefresher
	logger  *zap.Logger
	now     func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a new Sweeper
func NewSweeper(config Config, alerts AlertChecker, batches BatchRefresher, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		config:  config,
		alerts:  alerts,
		batches: batches,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests use this to pin timestamps.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Start launches the sweep loops. Calling Start on a running sweeper is a
// no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(3)
	go s.loop(ctx, s.config.AlertCheckInterval, s.runAlertCheck)
	go s.loop(ctx, s.config.BatchRefreshInterval, s.runBatchRefresh)
	go s.loop(ctx, s.config.CleanupInterval, s.runCleanup)

	s.logger.Info("Sweeper started",
		zap.Duration("alert_check_interval", s.config.AlertCheckInterval),
		zap.Duration("batch_refresh_interval", s.config.BatchRefreshInterval),
		zap.Duration("cleanup_interval", s.config.CleanupInterval),
	)
}

// Stop cancels the sweep loops and waits for in-flight sweeps to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("Sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

// RunOnce executes every sweep a single time. Used at startup so a restart
// does not wait a full interval before catching up, and by tests.
func (s *Sweeper) RunOnce(ctx context.Context) {
	s.runAlertCheck(ctx)
	s.runBatchRefresh(ctx)
	s.runCleanup(ctx)
}

func (s *Sweeper) runAlertCheck(ctx context.Context) {
	result, err := s.alerts.CheckProducts(ctx, s.now())
	if err != nil {
		s.logger.Error("Alert check sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Alert check sweep finished",
		zap.Int("products_checked", result.ProductsChecked),
		zap.Int("alerts_raised", result.AlertsRaised),
		zap.Int("alerts_refreshed", result.AlertsRefreshed),
		zap.Int("alerts_resolved", result.AlertsResolved),
	)
}

func (s *Sweeper) runBatchRefresh(ctx context.Context) {
	result, err := s.batches.RefreshStatuses(ctx)
	if err != nil {
		s.logger.Error("Batch refresh sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Batch refresh sweep finished",
		zap.Int("batches_checked", result.BatchesChecked),
		zap.Int("status_changes", result.StatusChanges),
	)
}

func (s *Sweeper) runCleanup(ctx context.Context) {
	deleted, err := s.alerts.CleanupResolved(ctx, s.config.ResolvedRetention, s.now())
	if err != nil {
		s.logger.Error("Alert cleanup sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Alert cleanup sweep finished", zap.Int64("alerts_deleted", deleted))
}
