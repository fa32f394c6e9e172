package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/events"
	"github.com/devadmin007/employee-management/internal/leavebalance"
)

// EmployeeCreatedConsumer provisions a leave balance for every new
// employee. Provisioning is idempotent, so redelivered events are harmless.
type EmployeeCreatedConsumer struct {
	reader    *kafka.Reader
	balances  leavebalance.Service
	allowance float64
	logger    *zap.Logger
}

func NewEmployeeCreatedConsumer(
	broker string,
	groupID string,
	balances leavebalance.Service,
	allowance float64,
	logger ...*zap.Logger,
) *EmployeeCreatedConsumer {
	l := zap.L().Named("leavebalance.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.consumer")
	}

	return &EmployeeCreatedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.EmployeeCreatedTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		balances:  balances,
		allowance: allowance,
		logger:    l,
	}
}

func (c *EmployeeCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("consume employee_created failed", zap.Error(err))
				continue
			}

			var event events.EmployeeCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode employee_created event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid employee_created event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.balances.Provision(ctx, event.EmployeeID, c.allowance); err != nil {
				c.logger.Error("provision leave balance from event failed",
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit employee_created event failed", zap.Error(err))
				continue
			}

			c.logger.Info("leave balance provisioned from employee_created event",
				zap.String("employee_id", event.EmployeeID),
				zap.String("request_id", event.RequestID),
			)
		}
	}()
}

func (c *EmployeeCreatedConsumer) Close() error {
	return c.reader.Close()
}
