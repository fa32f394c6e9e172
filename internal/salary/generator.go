package salary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/employee"
	"github.com/devadmin007/employee-management/internal/events"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	"github.com/devadmin007/employee-management/internal/messaging/kafka"
	"github.com/devadmin007/employee-management/internal/shared/counter"
)

// GenerationSummary reports one batch run.
type GenerationSummary struct {
	Month     string `json:"month"`
	Year      int    `json:"year"`
	Generated int    `json:"generated"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// Generator walks the active workforce once a month and books one immutable
// salary record per employee. Each employee runs in its own transaction so a
// bad row never aborts the batch.
type Generator struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	balances  leavebalance.Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewGenerator(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	balances leavebalance.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) *Generator {
	l := zap.L().Named("salary.generator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.generator")
	}
	return &Generator{
		db:        db,
		repo:      repo,
		employees: employees,
		balances:  balances,
		counter:   counterRepo,
		outbox:    outboxRepo,
		logger:    l,
	}
}

// GenerateMonthly creates the salary records for the month containing now.
// Re-running it for the same period is a no-op: existing records are skipped
// and the unique period index catches any race on the insert itself.
func (g *Generator) GenerateMonthly(ctx context.Context, now time.Time) (GenerationSummary, error) {
	month := now.Month().String()
	year := now.Year()
	daysInMonth := DaysInMonth(year, now.Month())

	summary := GenerationSummary{Month: month, Year: year}

	g.logger.Info("salary generation started",
		zap.String("month", month),
		zap.Int("year", year),
		zap.Int("days_in_month", daysInMonth),
	)

	staff, err := g.employees.FindAllActive(ctx)
	if err != nil {
		g.logger.Error("salary generation could not list employees", zap.Error(err))
		return summary, err
	}

	for _, emp := range staff {
		ok, err := g.generateOne(ctx, emp, month, year, daysInMonth, now)
		switch {
		case err != nil:
			summary.Failed++
			g.logger.Error("salary generation failed for employee",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
		case ok:
			summary.Generated++
		default:
			summary.Skipped++
		}
	}

	g.logger.Info("salary generation finished",
		zap.String("month", month),
		zap.Int("year", year),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (g *Generator) generateOne(ctx context.Context, emp employee.Employee, month string, year, daysInMonth int, now time.Time) (bool, error) {
	if !emp.BaseSalary.Valid {
		g.logger.Debug("skipping employee without base salary",
			zap.String("employee_id", emp.ID.String()),
		)
		return false, nil
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := g.repo.WithTx(tx)

	exists, err := qtx.ExistsForPeriod(ctx, emp.ID, month, year)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	balance, err := g.balances.WithTx(tx).FindByEmployee(ctx, emp.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.logger.Warn("skipping employee without leave balance",
				zap.String("employee_id", emp.ID.String()),
			)
			return false, nil
		}
		return false, err
	}

	unpaidDays := unpaidDaysFor(balance, month, year)
	deduction, net := ComputeDeduction(emp.BaseSalary.Decimal, daysInMonth, unpaidDays)

	slipVal, err := g.counter.GetNextValue(ctx, "salary_slip")
	if err != nil {
		return false, err
	}

	rec := &SalaryRecord{
		ID:              uuid.New(),
		EmployeeID:      emp.ID,
		Month:           month,
		Year:            year,
		SlipNumber:      fmt.Sprintf("SLP-%06d", slipVal),
		BaseSalary:      emp.BaseSalary.Decimal.Round(2),
		UnpaidLeaveDays: unpaidDays,
		LeaveDeduction:  deduction,
		NetSalary:       net,
		GeneratedAt:     now.UTC(),
		IsActive:        true,
	}

	if err := qtx.Create(ctx, rec); err != nil {
		if isDuplicatePeriod(err) {
			// Lost the insert race to a concurrent run; the record exists,
			// which is exactly what we wanted.
			return false, nil
		}
		return false, err
	}

	if g.outbox != nil {
		event := events.SalaryGeneratedEvent{
			EventType:  "salary_generated",
			SalaryID:   rec.ID.String(),
			EmployeeID: emp.ID.String(),
			Month:      month,
			Year:       year,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return false, err
		}
		if err := g.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			AggregateType: "salary",
			AggregateID:   rec.ID.String(),
			EventType:     event.EventType,
			Topic:         events.SalaryGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	g.logger.Info("salary record generated",
		zap.String("employee_id", emp.ID.String()),
		zap.String("slip_number", rec.SlipNumber),
		zap.Float64("unpaid_days", unpaidDays),
		zap.String("net", net.StringFixed(2)),
	)
	return true, nil
}

func unpaidDaysFor(b *leavebalance.LeaveBalance, month string, year int) float64 {
	for _, h := range b.History {
		if h.Month == month && h.Year == year {
			return h.UnpaidLeaveUsed
		}
	}
	return 0
}

func isDuplicatePeriod(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "uq_salary_period")
}
