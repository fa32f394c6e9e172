package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/scopes"
)

// ErrStaleVersion signals that the version-checked update matched no row:
// someone else mutated the balance since it was read.
var ErrStaleVersion = errors.New("leave balance version is stale")

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByEmployee(ctx context.Context, employeeID string) (*LeaveBalance, error)
	SaveWithVersion(ctx context.Context, b *LeaveBalance, expectedVersion int64) error
	UpsertHistory(ctx context.Context, balanceID uuid.UUID, month string, year int, paidDelta, unpaidDelta float64) error
	SumPaidHistory(ctx context.Context, balanceID uuid.UUID) (float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx scopes every operation to the caller's transaction so the version
// bump and the history bucket commit or roll back with the leave decision.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// Create is idempotent on employee_id so that replayed provisioning events
// do not reset an existing balance.
func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(b).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Preload("History").
		First(&b, "employee_id = ?", employeeID).Error
	return &b, err
}

func (r *repository) SaveWithVersion(ctx context.Context, b *LeaveBalance, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ? AND version = ?", b.ID, expectedVersion).
		Updates(map[string]interface{}{
			"balance":    b.Balance,
			"used_leave": b.UsedLeave,
			"version":    expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	b.Version = expectedVersion + 1
	return nil
}

func (r *repository) UpsertHistory(ctx context.Context, balanceID uuid.UUID, month string, year int, paidDelta, unpaidDelta float64) error {
	query := `
		INSERT INTO leave_month_histories
			(id, balance_id, month, year, paid_leave_used, unpaid_leave_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (balance_id, month, year) DO UPDATE SET
			paid_leave_used   = leave_month_histories.paid_leave_used + EXCLUDED.paid_leave_used,
			unpaid_leave_used = leave_month_histories.unpaid_leave_used + EXCLUDED.unpaid_leave_used,
			updated_at        = NOW()
	`
	return r.db.WithContext(ctx).
		Exec(query, uuid.New(), balanceID, month, year, paidDelta, unpaidDelta).Error
}

func (r *repository) SumPaidHistory(ctx context.Context, balanceID uuid.UUID) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&LeaveMonthHistory{}).
		Select("COALESCE(SUM(paid_leave_used), 0)").
		Where("balance_id = ?", balanceID).
		Scan(&total).Error
	return total.Float64, err
}
