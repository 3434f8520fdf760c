package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appbatch "github.com/wms/backend/internal/application/batch"
	appinv "github.com/wms/backend/internal/application/inventory"
)

type stubAlertChecker struct {
	mu           sync.Mutex
	checkCalls   int
	cleanupCalls int
	checkErr     error
	retention    time.Duration
}

func (s *stubAlertChecker) CheckProducts(_ context.Context, _ time.Time) (*appinv.AlertCheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkCalls++
	if s.checkErr != nil {
		return nil, s.checkErr
	}
	return &appinv.AlertCheckResult{ProductsChecked: 3, AlertsRaised: 1}, nil
}

func (s *stubAlertChecker) CleanupResolved(_ context.Context, retention time.Duration, _ time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupCalls++
	s.retention = retention
	return 2, nil
}

func (s *stubAlertChecker) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkCalls, s.cleanupCalls
}

type stubBatchRefresher struct {
	mu    sync.Mutex
	calls int
}

func (s *stubBatchRefresher) RefreshStatuses(_ context.Context) (*appbatch.RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return &appbatch.RefreshResult{BatchesChecked: 5, StatusChanges: 1}, nil
}

func (s *stubBatchRefresher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSweeper_RunOnce(t *testing.T) {
	alerts := &stubAlertChecker{}
	batches := &stubBatchRefresher{}
	cfg := DefaultConfig()
	cfg.ResolvedRetention = 7 * 24 * time.Hour
	sweeper := NewSweeper(cfg, alerts, batches, zap.NewNop())

	sweeper.RunOnce(context.Background())

	checks, cleanups := alerts.calls()
	assert.Equal(t, 1, checks)
	assert.Equal(t, 1, cleanups)
	assert.Equal(t, 7*24*time.Hour, alerts.retention)
	assert.Equal(t, 1, batches.callCount())
}

func TestSweeper_RunOnce_ContinuesAfterFailure(t *testing.T) {
	alerts := &stubAlertChecker{checkErr: errors.New("db down")}
	batches := &stubBatchRefresher{}
	sweeper := NewSweeper(DefaultConfig(), alerts, batches, zap.NewNop())

	sweeper.RunOnce(context.Background())

	// The failed alert sweep must not stop the remaining sweeps.
	assert.Equal(t, 1, batches.callCount())
	_, cleanups := alerts.calls()
	assert.Equal(t, 1, cleanups)
}

func TestSweeper_StartStop(t *testing.T) {
	alerts := &stubAlertChecker{}
	batches := &stubBatchRefresher{}
	cfg := Config{
		AlertCheckInterval:   5 * time.Millisecond,
		BatchRefreshInterval: 5 * time.Millisecond,
		CleanupInterval:      5 * time.Millisecond,
		ResolvedRetention:    time.Hour,
	}
	sweeper := NewSweeper(cfg, alerts, batches, zap.NewNop())

	sweeper.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()

	checks, _ := alerts.calls()
	assert.Greater(t, checks, 0)
	assert.Greater(t, batches.callCount(), 0)

	// Stop is idempotent and halts further sweeps.
	sweeper.Stop()
	checksAfterStop, _ := alerts.calls()
	time.Sleep(15 * time.Millisecond)
	finalChecks, _ := alerts.calls()
	assert.Equal(t, checksAfterStop, finalChecks)
}

func TestSweeper_StartTwiceIsNoOp(t *testing.T) {
	alerts := &stubAlertChecker{}
	batches := &stubBatchRefresher{}
	sweeper := NewSweeper(DefaultConfig(), alerts, batches, zap.NewNop())

	sweeper.Start(context.Background())
	sweeper.Start(context.Background())
	sweeper.Stop()
}
