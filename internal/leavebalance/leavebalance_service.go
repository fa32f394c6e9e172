package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	leavebalanceerrors "github.com/devadmin007/employee-management/internal/leavebalance/errors"
)

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	GetByEmployee(ctx context.Context, employeeID string) (BalanceResponse, error)
	Provision(ctx context.Context, employeeID string, allowance float64) error
	VerifyConsistency(ctx context.Context, employeeID string) error
}

// Ledger is the mutation side of the balance, invoked by the leave approval
// flow inside its own transaction.
type Ledger interface {
	ApplyApproval(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, requestedDays float64, leaveDate time.Time) (ApprovalDelta, error)
}

// Svc implements both Service and Ledger over one repository.
type Svc struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) *Svc {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &Svc{db: db, repo: repo, logger: l}
}

func (s *Svc) GetByEmployee(ctx context.Context, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}

	b, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leavebalanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

// Provision seeds the balance for a newly created employee. Safe to replay:
// an existing balance is left untouched.
func (s *Svc) Provision(ctx context.Context, employeeID string, allowance float64) error {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return leavebalanceerrors.ErrInvalidEmployeeID
	}

	b := &LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: id,
		Balance:    allowance,
		UsedLeave:  0,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("provision leave balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("leave balance provisioned",
		zap.String("employee_id", employeeID),
		zap.Float64("allowance", allowance),
	)
	return nil
}

// ApplyApproval deducts an approved leave from the balance and records the
// month bucket, all against the caller's transaction. The write is guarded
// by the version read here; losing the race returns a conflict without any
// partial mutation.
func (s *Svc) ApplyApproval(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, requestedDays float64, leaveDate time.Time) (ApprovalDelta, error) {
	repo := s.repo.WithTx(tx)

	b, err := repo.FindByEmployee(ctx, employeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalDelta{}, leavebalanceerrors.ErrBalanceNotFound
		}
		return ApprovalDelta{}, err
	}

	delta := ComputeApproval(b.Balance, requestedDays, leaveDate)

	expectedVersion := b.Version
	b.Balance = delta.NewBalance
	b.UsedLeave += delta.Deducted

	if err := repo.SaveWithVersion(ctx, b, expectedVersion); err != nil {
		if errors.Is(err, ErrStaleVersion) {
			s.logger.Warn("leave balance version conflict",
				zap.String("employee_id", employeeID.String()),
				zap.Int64("expected_version", expectedVersion),
			)
			return ApprovalDelta{}, leavebalanceerrors.ErrVersionConflict
		}
		return ApprovalDelta{}, err
	}

	if err := repo.UpsertHistory(ctx, b.ID, delta.Month, delta.Year, delta.Deducted, delta.Unpaid); err != nil {
		return ApprovalDelta{}, err
	}

	s.logger.Info("leave approval applied to balance",
		zap.String("employee_id", employeeID.String()),
		zap.Float64("requested_days", requestedDays),
		zap.Float64("deducted", delta.Deducted),
		zap.Float64("unpaid", delta.Unpaid),
		zap.Float64("new_balance", delta.NewBalance),
	)
	return delta, nil
}

// VerifyConsistency checks that lifetime used leave matches the history sum.
// A mismatch is logged, not returned: the read path must not fail on it.
func (s *Svc) VerifyConsistency(ctx context.Context, employeeID string) error {
	b, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavebalanceerrors.ErrBalanceNotFound
		}
		return err
	}

	total, err := s.repo.SumPaidHistory(ctx, b.ID)
	if err != nil {
		return err
	}

	if math.Abs(total-b.UsedLeave) > 1e-9 {
		s.logger.Warn("leave balance history drift detected",
			zap.String("employee_id", employeeID),
			zap.Float64("used_leave", b.UsedLeave),
			zap.Float64("history_sum", total),
		)
	}
	return nil
}
