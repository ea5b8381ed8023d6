package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backup"
	gbackup "fintrack/internal/backup/google"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var exporter backup.Exporter
	if cfg.BackupEnabled {
		client, err := gbackup.NewFromEnv(ctx)
		if err != nil {
			logger.Warn("Failed to initialize Google Sheets exporter, backups disabled", applog.FieldError, err)
		} else {
			exporter = client
			logger.Info("Google Sheets backup enabled", "schedule", cfg.BackupSchedule)
		}
	}

	w := worker.New(notify.LogNotifier{}, repo, exporter)

	scheduler := cron.New()
	if exporter != nil {
		if _, err := scheduler.AddFunc(cfg.BackupSchedule, func() {
			backupCtx, backupCancel := context.WithTimeout(ctx, 2*time.Minute)
			defer backupCancel()
			if err := w.RunBackup(backupCtx); err != nil {
				logger.Error("Scheduled backup failed", applog.FieldError, err)
			}
		}); err != nil {
			logger.Error("Failed to schedule backups", applog.FieldError, err, "schedule", cfg.BackupSchedule)
			os.Exit(1)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return amqpClient.ConsumeNotifications(groupCtx, func(msg *amqp.NotificationMessage) error {
			return w.HandleNotification(groupCtx, msg)
		})
	})

	group.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
