package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/assistant"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Notifications are published for the delivery worker; without AMQP the
	// tracker still works, reminders just stay in-app.
	var publisher services.NotificationPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, notifications stay in-app only", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", applog.FieldExchange, cfg.AMQPExchange, applog.FieldQueue, cfg.AMQPQueue)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service, err := services.NewLedgerService(ctx, repo, publisher, cfg.ScanDebounce, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger service", applog.FieldError, err)
		os.Exit(1)
	}
	defer service.Close()

	var model *assistant.Client
	if cfg.AssistantEndpoint != "" {
		model = assistant.NewClient(cfg.AssistantEndpoint, cfg.AssistantModel)
	}

	srv := apphttp.NewServer(":"+cfg.Port, service, model, cfg.Currency())
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Baseline periodic scan; the debounced rescan after mutations covers
	// the rest.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ScanSchedule, func() {
		if _, err := service.Scan(ctx, time.Now()); err != nil {
			logger.Error("Periodic scan failed", applog.FieldError, err)
		}
	}); err != nil {
		logger.Error("Failed to schedule periodic scan", applog.FieldError, err, "schedule", cfg.ScanSchedule)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port, applog.FieldCurrency, cfg.DisplayCurrency)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-groupCtx.Done():
			return groupCtx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
