package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
)

// HousekeepingService periodically publishes the registered client counts
// by status and pings the store so connection problems surface in logs
// before a token request hits them.
type HousekeepingService struct {
	Store    store.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one minute.
func NewHousekeepingService(st store.Store, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Store:    st,
		Metrics:  m,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep. Failures are logged and otherwise ignored.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.Interval)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Logger.Error("store ping failed", "error", err)
		return
	}

	counts, err := s.Store.Clients().CountByStatus(ctx)
	if err != nil {
		s.Logger.Error("failed to count clients", "error", err)
		return
	}
	s.Metrics.SetClients(counts)
	s.Logger.Debug("housekeeping sweep completed", "clients", counts)
}
