package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/events"
	"github.com/devadmin007/employee-management/internal/notification"
	"github.com/devadmin007/employee-management/internal/salary"
)

// SalaryGeneratedConsumer mails the rendered payslip to the employee after
// the generator books a record.
type SalaryGeneratedConsumer struct {
	reader   *kafka.Reader
	salaries salary.Service
	mailer   notification.Mailer
	logger   *zap.Logger
}

func NewSalaryGeneratedConsumer(
	broker string,
	groupID string,
	salaries salary.Service,
	mailer notification.Mailer,
	logger ...*zap.Logger,
) *SalaryGeneratedConsumer {
	l := zap.L().Named("salary.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.consumer")
	}

	return &SalaryGeneratedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.SalaryGeneratedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		salaries: salaries,
		mailer:   mailer,
		logger:   l,
	}
}

func (c *SalaryGeneratedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume salary_generated failed", zap.Error(err))
				continue
			}

			var event events.SalaryGeneratedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode salary_generated event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid salary_generated event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.deliver(ctx, event); err != nil {
				c.logger.Error("deliver payslip failed",
					zap.String("salary_id", event.SalaryID),
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit salary_generated event failed", zap.Error(err))
				continue
			}

			c.logger.Info("payslip delivered",
				zap.String("salary_id", event.SalaryID),
				zap.String("employee_id", event.EmployeeID),
			)
		}
	}()
}

func (c *SalaryGeneratedConsumer) deliver(ctx context.Context, event events.SalaryGeneratedEvent) error {
	delivery, err := c.salaries.PayslipForDelivery(ctx, event.SalaryID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Payslip %s %d", delivery.Month, delivery.Year)
	body := fmt.Sprintf(
		"Hi %s,\n\nyour payslip %s for %s %d is attached.\n",
		delivery.EmployeeName, delivery.SlipNumber, delivery.Month, delivery.Year,
	)

	return c.mailer.Send(ctx, delivery.EmployeeEmail, subject, body, notification.Attachment{
		Filename:    fmt.Sprintf("payslip-%s.pdf", delivery.SlipNumber),
		ContentType: "application/pdf",
		Data:        delivery.PDF,
	})
}

func (c *SalaryGeneratedConsumer) Close() error {
	return c.reader.Close()
}
