package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/employee"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	"github.com/devadmin007/employee-management/internal/messaging/kafka"
	"github.com/devadmin007/employee-management/internal/messaging/kafka/producer"
	"github.com/devadmin007/employee-management/internal/salary"
	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/counter"
)

// RunWorker hosts the outbox publisher and the monthly salary schedule.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	generator := salary.NewGenerator(
		sqlDB,
		salary.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		leavebalance.NewRepository(gormDB),
		counter.NewRepository(gormDB),
		outboxRepo,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	// Fires every late evening from the 28th on; only the actual last day of
	// the month runs the batch.
	schedule := cron.New()
	_, err = schedule.AddFunc("59 23 28-31 * *", func() {
		now := time.Now()
		if now.AddDate(0, 0, 1).Day() != 1 {
			return
		}

		summary, err := generator.GenerateMonthly(ctx, now)
		if err != nil {
			logger.Error("monthly salary generation failed", zap.Error(err))
			return
		}
		logger.Info("monthly salary generation finished",
			zap.String("month", summary.Month),
			zap.Int("year", summary.Year),
			zap.Int("generated", summary.Generated),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed),
		)
	})
	if err != nil {
		return err
	}
	schedule.Start()
	defer schedule.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
