package scheduler

import (
	"context"
	"sync"
	"time"

	billingUsecases "github.com/vendo-inc/vendo/internal/application/billing/usecases"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// InvoiceDispatchScheduler periodically drains the invoice notification
// outbox, re-delivering notifications whose first attempt failed.
type InvoiceDispatchScheduler struct {
	dispatchUC *billingUsecases.DispatchInvoiceNotificationsUseCase
	logger     logger.Interface
	stopChan   chan struct{}
	stopOnce   sync.Once      // Ensures Stop() is only called once
	wg         sync.WaitGroup // Tracks running goroutines for graceful shutdown
	interval   time.Duration
}

func NewInvoiceDispatchScheduler(
	dispatchUC *billingUsecases.DispatchInvoiceNotificationsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *InvoiceDispatchScheduler {
	if interval <= 0 {
		interval = time.Minute
	}

	return &InvoiceDispatchScheduler{
		dispatchUC: dispatchUC,
		logger:     logger,
		stopChan:   make(chan struct{}),
		interval:   interval,
	}
}

// Start starts the scheduler loop in a background goroutine.
func (s *InvoiceDispatchScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting invoice dispatch scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runDispatchLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully and waits for the loop to finish.
// Safe to call multiple times.
func (s *InvoiceDispatchScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping invoice dispatch scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("invoice dispatch scheduler stopped")
	})
}

func (s *InvoiceDispatchScheduler) runDispatchLoop(ctx context.Context) {
	// Run immediately on startup to drain anything left over from the
	// previous process.
	s.dispatchDue(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("invoice dispatch scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.dispatchDue(ctx)
		}
	}
}

func (s *InvoiceDispatchScheduler) dispatchDue(ctx context.Context) {
	startTime := time.Now()

	delivered, err := s.dispatchUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to dispatch invoice notifications",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if delivered > 0 {
		s.logger.Infow("invoice notifications dispatched",
			"delivered", delivered,
			"duration", time.Since(startTime),
		)
	}
}
