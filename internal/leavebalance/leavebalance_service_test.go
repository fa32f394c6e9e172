package leavebalance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/leavebalance"
	leavebalanceerrors "github.com/devadmin007/employee-management/internal/leavebalance/errors"
)

type fakeBalanceRepository struct {
	withTxFn          func(tx *sql.Tx) leavebalance.Repository
	createFn          func(ctx context.Context, b *leavebalance.LeaveBalance) error
	findByEmployeeFn  func(ctx context.Context, employeeID string) (*leavebalance.LeaveBalance, error)
	saveWithVersionFn func(ctx context.Context, b *leavebalance.LeaveBalance, expectedVersion int64) error
	upsertHistoryFn   func(ctx context.Context, balanceID uuid.UUID, month string, year int, paidDelta, unpaidDelta float64) error
	sumPaidHistoryFn  func(ctx context.Context, balanceID uuid.UUID) (float64, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByEmployee(ctx context.Context, employeeID string) (*leavebalance.LeaveBalance, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) SaveWithVersion(ctx context.Context, b *leavebalance.LeaveBalance, expectedVersion int64) error {
	if f.saveWithVersionFn != nil {
		return f.saveWithVersionFn(ctx, b, expectedVersion)
	}
	return nil
}

func (f *fakeBalanceRepository) UpsertHistory(ctx context.Context, balanceID uuid.UUID, month string, year int, paidDelta, unpaidDelta float64) error {
	if f.upsertHistoryFn != nil {
		return f.upsertHistoryFn(ctx, balanceID, month, year, paidDelta, unpaidDelta)
	}
	return nil
}

func (f *fakeBalanceRepository) SumPaidHistory(ctx context.Context, balanceID uuid.UUID) (float64, error) {
	if f.sumPaidHistoryFn != nil {
		return f.sumPaidHistoryFn(ctx, balanceID)
	}
	return 0, nil
}

type balanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service *leavebalance.Svc
	repo    *fakeBalanceRepository
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBalanceRepository{}
	svc := leavebalance.NewService(db, repo)

	return &balanceServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func TestBalanceService_GetByEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("success with history", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			assert.Equal(t, employeeID.String(), eid)
			return &leavebalance.LeaveBalance{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				Balance:    7.5,
				UsedLeave:  2.5,
				Version:    3,
				History: []leavebalance.LeaveMonthHistory{
					{Month: "July", Year: 2025, PaidLeaveUsed: 2.5, UnpaidLeaveUsed: 1},
				},
			}, nil
		}

		resp, err := deps.service.GetByEmployee(ctx, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, 7.5, resp.Balance)
		assert.Equal(t, 2.5, resp.UsedLeave)
		assert.Len(t, resp.History, 1)
		assert.Equal(t, "July", resp.History[0].Month)
	})

	t.Run("negative - not found", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByEmployee(ctx, employeeID.String())

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative - invalid uuid", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByEmployee(ctx, "nope")

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)
	})
}

func TestBalanceService_ApplyApproval(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	balanceID := uuid.New()
	leaveDate := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	t.Run("deducts from balance and records bucket", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{
				ID:         balanceID,
				EmployeeID: employeeID,
				Balance:    2,
				UsedLeave:  5,
				Version:    4,
			}, nil
		}
		deps.repo.saveWithVersionFn = func(ctx context.Context, b *leavebalance.LeaveBalance, expectedVersion int64) error {
			assert.Equal(t, int64(4), expectedVersion)
			assert.Equal(t, float64(0), b.Balance)
			assert.Equal(t, float64(7), b.UsedLeave)
			return nil
		}
		var gotMonth string
		var gotYear int
		var gotPaid, gotUnpaid float64
		deps.repo.upsertHistoryFn = func(ctx context.Context, bid uuid.UUID, month string, year int, paidDelta, unpaidDelta float64) error {
			assert.Equal(t, balanceID, bid)
			gotMonth, gotYear, gotPaid, gotUnpaid = month, year, paidDelta, unpaidDelta
			return nil
		}

		delta, err := deps.service.ApplyApproval(ctx, nil, employeeID, 3, leaveDate)

		assert.NoError(t, err)
		assert.Equal(t, float64(2), delta.Deducted)
		assert.Equal(t, float64(1), delta.Unpaid)
		assert.Equal(t, float64(0), delta.NewBalance)
		assert.Equal(t, "July", gotMonth)
		assert.Equal(t, 2025, gotYear)
		assert.Equal(t, float64(2), gotPaid)
		assert.Equal(t, float64(1), gotUnpaid)
	})

	t.Run("negative - concurrent modification", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{ID: balanceID, EmployeeID: employeeID, Balance: 5, Version: 1}, nil
		}
		deps.repo.saveWithVersionFn = func(ctx context.Context, b *leavebalance.LeaveBalance, expectedVersion int64) error {
			return leavebalance.ErrStaleVersion
		}

		_, err := deps.service.ApplyApproval(ctx, nil, employeeID, 1, leaveDate)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrVersionConflict)
	})

	t.Run("negative - missing balance", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.ApplyApproval(ctx, nil, employeeID, 1, leaveDate)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})
}

func TestBalanceService_Provision(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			assert.Equal(t, employeeID, b.EmployeeID)
			assert.Equal(t, float64(18), b.Balance)
			assert.Equal(t, float64(0), b.UsedLeave)
			assert.True(t, b.IsActive)
			return nil
		}

		err := deps.service.Provision(ctx, employeeID.String(), 18)

		assert.NoError(t, err)
	})

	t.Run("negative - invalid id", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Provision(ctx, "bad-id", 18)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative - repo error", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			return errors.New("db down")
		}

		err := deps.service.Provision(ctx, employeeID.String(), 18)

		assert.Error(t, err)
	})
}

func TestBalanceService_VerifyConsistency(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	balanceID := uuid.New()

	t.Run("drift is logged not returned", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{ID: balanceID, EmployeeID: employeeID, UsedLeave: 5}, nil
		}
		deps.repo.sumPaidHistoryFn = func(ctx context.Context, bid uuid.UUID) (float64, error) {
			return 3, nil
		}

		err := deps.service.VerifyConsistency(ctx, employeeID.String())

		assert.NoError(t, err)
	})
}
