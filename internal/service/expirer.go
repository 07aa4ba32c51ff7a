package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/currency/internal/domain"
	"go.uber.org/zap"
)

const defaultExpirerInterval = 1 * time.Hour

// ExpirerService deletes stored estimate runs older than the retention
// window.
type ExpirerService struct {
	estimates domain.EstimateStore
	retention time.Duration
	logger    *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(es domain.EstimateStore, retention time.Duration, logger *zap.Logger) *ExpirerService {
	return &ExpirerService{
		estimates: es,
		retention: retention,
		logger:    logger,
		interval:  defaultExpirerInterval,
		stopCh:    make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("estimate expirer started",
			zap.Duration("interval", s.interval),
			zap.Duration("retention", s.retention))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx, time.Now())
				cancel()
			case <-s.stopCh:
				s.logger.Info("estimate expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ExpirerService) run(ctx context.Context, now time.Time) {
	deleted, err := s.estimates.DeleteOlderThan(ctx, now.Add(-s.retention))
	if err != nil {
		s.logger.Error("failed to delete expired estimates", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("deleted expired estimates", zap.Int64("count", deleted))
	}
}
