package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingUsecases "github.com/vendo-inc/vendo/internal/application/billing/usecases"
	"github.com/vendo-inc/vendo/internal/infrastructure/billing"
	"github.com/vendo-inc/vendo/internal/infrastructure/config"
	"github.com/vendo-inc/vendo/internal/infrastructure/database"
	"github.com/vendo-inc/vendo/internal/infrastructure/repository"
	"github.com/vendo-inc/vendo/internal/infrastructure/scheduler"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting invoice dispatch worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	outboxRepo := repository.NewInvoiceNotificationRepository(database.Get(), log)
	notifier := billing.NewHTTPNotifier(&cfg.Billing, log)

	dispatchUC := billingUsecases.NewDispatchInvoiceNotificationsUseCase(outboxRepo, notifier, log)
	dispatchUC.SetBatchSize(cfg.Checkout.DispatchBatchSize)
	dispatchUC.SetMaxAttempts(cfg.Checkout.MaxDeliveryAttempts)

	interval := time.Duration(cfg.Checkout.DispatchIntervalSeconds) * time.Second
	dispatchScheduler := scheduler.NewInvoiceDispatchScheduler(dispatchUC, interval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatchScheduler.Start(ctx)
	log.Infow("invoice dispatch scheduler started", "interval", interval.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("shutting down worker", "signal", sig.String())

	cancel()
	dispatchScheduler.Stop()

	log.Infow("worker exited")
}
