package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/employee"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	"github.com/devadmin007/employee-management/internal/messaging/kafka"
	"github.com/devadmin007/employee-management/internal/messaging/kafka/consumer"
	"github.com/devadmin007/employee-management/internal/notification"
	"github.com/devadmin007/employee-management/internal/salary"
	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/counter"
)

const defaultLeaveAllowance = 18.0

// RunConsumer hosts the event side: balance provisioning for new employees
// and payslip delivery after salary generation.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	balanceService := leavebalance.NewService(sqlDB, leavebalance.NewRepository(gormDB), logger)

	salaryRepo := salary.NewRepository(gormDB)
	salaryGenerator := salary.NewGenerator(
		sqlDB,
		salaryRepo,
		employee.NewRepository(gormDB),
		leavebalance.NewRepository(gormDB),
		counter.NewRepository(gormDB),
		kafka.NewOutboxRepository(sqlDB),
		logger,
	)
	salaryService := salary.NewService(salaryRepo, salaryGenerator, logger)

	mailer := notification.New(mailConfigFromEnv())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	balanceConsumer := consumer.NewEmployeeCreatedConsumer(
		kafkaBroker,
		"employee-management-leave-balance",
		balanceService,
		leaveAllowanceFromEnv(),
		logger,
	)
	defer balanceConsumer.Close()
	balanceConsumer.Start(ctx)

	payslipConsumer := consumer.NewSalaryGeneratedConsumer(
		kafkaBroker,
		"employee-management-payslip",
		salaryService,
		mailer,
		logger,
	)
	defer payslipConsumer.Close()
	payslipConsumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}

func leaveAllowanceFromEnv() float64 {
	raw := os.Getenv("LEAVE_DEFAULT_ALLOWANCE")
	if raw == "" {
		return defaultLeaveAllowance
	}
	allowance, err := strconv.ParseFloat(raw, 64)
	if err != nil || allowance < 0 {
		return defaultLeaveAllowance
	}
	return allowance
}

func mailConfigFromEnv() notification.Config {
	port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	return notification.Config{
		Enabled:  os.Getenv("MAIL_HOST") != "",
		Host:     os.Getenv("MAIL_HOST"),
		Port:     port,
		User:     os.Getenv("MAIL_USER"),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     os.Getenv("MAIL_FROM"),
		UseTLS:   os.Getenv("MAIL_TLS") == "true",
	}
}
