package leave_test

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

	"github.com/devadmin007/employee-management/internal/domain"
	"github.com/devadmin007/employee-management/internal/employee"
	"github.com/devadmin007/employee-management/internal/leave"
	leaveerrors "github.com/devadmin007/employee-management/internal/leave/errors"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	leavebalanceerrors "github.com/devadmin007/employee-management/internal/leavebalance/errors"
)

type fakeLeaveRepository struct {
	withTxFn          func(tx *sql.Tx) leave.Repository
	createBatchFn     func(ctx context.Context, leaves []leave.LeaveRequest) error
	findByIDFn        func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllFn         func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveRequest, int64, error)
	hasActiveOnDateFn func(ctx context.Context, employeeID, approverID uuid.UUID, date time.Time) (bool, error)
	updateFn          func(ctx context.Context, l *leave.LeaveRequest) error
	replaceDatesFn    func(ctx context.Context, requestID uuid.UUID, dates []leave.LeaveDate) error
	softDeleteFn      func(ctx context.Context, id string) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) CreateBatch(ctx context.Context, leaves []leave.LeaveRequest) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, leaves)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveRequest, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeLeaveRepository) HasActiveOnDate(ctx context.Context, employeeID, approverID uuid.UUID, date time.Time) (bool, error) {
	if f.hasActiveOnDateFn != nil {
		return f.hasActiveOnDateFn(ctx, employeeID, approverID, date)
	}
	return false, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) ReplaceDates(ctx context.Context, requestID uuid.UUID, dates []leave.LeaveDate) error {
	if f.replaceDatesFn != nil {
		return f.replaceDatesFn(ctx, requestID, dates)
	}
	return nil
}

func (f *fakeLeaveRepository) SoftDelete(ctx context.Context, id string) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id)
	}
	return nil
}

type fakeEmployeeDirectory struct {
	findByIDFn  func(ctx context.Context, id string) (*employee.Employee, error)
	findAdminFn func(ctx context.Context) (*employee.Employee, error)
}

func (f *fakeEmployeeDirectory) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeDirectory) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeDirectory) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeDirectory) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeDirectory) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeDirectory) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeDirectory) FindAdmin(ctx context.Context) (*employee.Employee, error) {
	if f.findAdminFn != nil {
		return f.findAdminFn(ctx)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	return true, nil
}

func (f *fakeEmployeeDirectory) Update(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeDirectory) SoftDelete(ctx context.Context, id string) error { return nil }

type fakeLedger struct {
	applyApprovalFn func(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, requestedDays float64, leaveDate time.Time) (leavebalance.ApprovalDelta, error)
}

func (f *fakeLedger) ApplyApproval(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, requestedDays float64, leaveDate time.Time) (leavebalance.ApprovalDelta, error) {
	if f.applyApprovalFn != nil {
		return f.applyApprovalFn(ctx, tx, employeeID, requestedDays, leaveDate)
	}
	return leavebalance.ApprovalDelta{}, nil
}

type leaveServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   leave.Service
	repo      *fakeLeaveRepository
	employees *fakeEmployeeDirectory
	ledger    *fakeLedger
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	employees := &fakeEmployeeDirectory{}
	ledger := &fakeLedger{}
	svc := leave.NewService(db, repo, employees, ledger)

	return &leaveServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		employees: employees,
		ledger:    ledger,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func directoryWith(emp *employee.Employee, admin *employee.Employee) *fakeEmployeeDirectory {
	return &fakeEmployeeDirectory{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			if emp != nil && id == emp.ID.String() {
				return emp, nil
			}
			if admin != nil && id == admin.ID.String() {
				return admin, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		findAdminFn: func(ctx context.Context) (*employee.Employee, error) {
			if admin == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return admin, nil
		},
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()
	admin := &employee.Employee{ID: uuid.New(), FirstName: "Ada", LastName: "Admin", Role: domain.RoleAdmin}
	emp := &employee.Employee{
		ID:        uuid.New(),
		FirstName: "Eva",
		LastName:  "Green",
		Role:      domain.RoleEmployee,
		ManagerID: &managerID,
	}

	t.Run("one pending request per date with mixed day values", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		*deps.employees = *directoryWith(emp, admin)
		expectTx(t, deps.sqlMock, true)

		var created []leave.LeaveRequest
		deps.repo.createBatchFn = func(ctx context.Context, leaves []leave.LeaveRequest) error {
			created = leaves
			return nil
		}

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{
				{Date: "2025-07-14", LeaveType: leave.TypeFullDay},
				{Date: "2025-07-15", LeaveType: leave.TypeFirstHalf},
			},
			Comment: "family trip",
		}

		resp, err := deps.service.Create(ctx, emp.ID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, created, 2)
		assert.Equal(t, 1.5, resp.TotalDays)
		for _, l := range created {
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, managerID, l.ApproverID)
			assert.Equal(t, "family trip", l.Comment)
			assert.Len(t, l.Dates, 1)
		}
		assert.Equal(t, float64(1), created[0].TotalDays)
		assert.Equal(t, 0.5, created[1].TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("project manager routes to admin", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		pm := &employee.Employee{ID: uuid.New(), FirstName: "Pam", LastName: "Lead", Role: domain.RoleProjectManager, ManagerID: &managerID}
		*deps.employees = *directoryWith(pm, admin)
		expectTx(t, deps.sqlMock, true)

		var created []leave.LeaveRequest
		deps.repo.createBatchFn = func(ctx context.Context, leaves []leave.LeaveRequest) error {
			created = leaves
			return nil
		}

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{{Date: "2025-08-01", LeaveType: leave.TypeFullDay}},
		}

		_, err := deps.service.Create(ctx, pm.ID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, admin.ID, created[0].ApproverID)
	})

	t.Run("already covered dates are dropped silently", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		*deps.employees = *directoryWith(emp, admin)
		expectTx(t, deps.sqlMock, true)

		taken := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
		deps.repo.hasActiveOnDateFn = func(ctx context.Context, eid, aid uuid.UUID, date time.Time) (bool, error) {
			return date.Equal(taken), nil
		}

		var created []leave.LeaveRequest
		deps.repo.createBatchFn = func(ctx context.Context, leaves []leave.LeaveRequest) error {
			created = leaves
			return nil
		}

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{
				{Date: "2025-07-14", LeaveType: leave.TypeFullDay},
				{Date: "2025-07-16", LeaveType: leave.TypeFullDay},
			},
		}

		resp, err := deps.service.Create(ctx, emp.ID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, "2025-07-16", created[0].Dates[0].Date.Format("2006-01-02"))
		assert.Equal(t, float64(1), resp.TotalDays)
	})

	t.Run("negative - all dates already covered", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		*deps.employees = *directoryWith(emp, admin)
		expectTx(t, deps.sqlMock, false)

		deps.repo.hasActiveOnDateFn = func(ctx context.Context, eid, aid uuid.UUID, date time.Time) (bool, error) {
			return true, nil
		}

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{{Date: "2025-07-14", LeaveType: leave.TypeFullDay}},
		}

		_, err := deps.service.Create(ctx, emp.ID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - duplicate dates in payload collapse first", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		*deps.employees = *directoryWith(emp, admin)
		expectTx(t, deps.sqlMock, true)

		var created []leave.LeaveRequest
		deps.repo.createBatchFn = func(ctx context.Context, leaves []leave.LeaveRequest) error {
			created = leaves
			return nil
		}

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{
				{Date: "2025-07-14", LeaveType: leave.TypeFullDay},
				{Date: "2025-07-14", LeaveType: leave.TypeFirstHalf},
			},
		}

		resp, err := deps.service.Create(ctx, emp.ID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, leave.TypeFullDay, created[0].Dates[0].LeaveType)
		assert.Equal(t, float64(1), resp.TotalDays)
	})

	t.Run("negative - invalid date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			Entries: []leave.LeaveEntry{{Date: "14-07-2025", LeaveType: leave.TypeFullDay}},
		}

		_, err := deps.service.Create(ctx, emp.ID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDate)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	actorID := uuid.New()
	leaveID := uuid.New()
	leaveDate := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	pendingLeave := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:         leaveID,
			EmployeeID: employeeID,
			Status:     leave.StatusPending,
			TotalDays:  3,
			Dates: []leave.LeaveDate{
				{Date: leaveDate, LeaveType: leave.TypeFullDay, DayValue: 1},
			},
		}
	}

	t.Run("approve books balance in same flow", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}

		var gotDays float64
		var gotDate time.Time
		deps.ledger.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, eid uuid.UUID, days float64, date time.Time) (leavebalance.ApprovalDelta, error) {
			assert.Equal(t, employeeID, eid)
			gotDays, gotDate = days, date
			return leavebalance.ApprovalDelta{Deducted: 2, Unpaid: 1, NewBalance: 0, Month: "July", Year: 2025}, nil
		}

		var updated *leave.LeaveRequest
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updated = l
			return nil
		}

		resp, err := deps.service.Decide(ctx, leaveID.String(), leave.StatusApproved, actorID.String())

		assert.NoError(t, err)
		assert.Equal(t, float64(3), gotDays)
		assert.Equal(t, leaveDate, gotDate)
		assert.Equal(t, leave.StatusApproved, updated.Status)
		assert.NotNil(t, updated.ApprovedByID)
		assert.Equal(t, actorID, *updated.ApprovedByID)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject leaves the balance alone", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.ledger.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, eid uuid.UUID, days float64, date time.Time) (leavebalance.ApprovalDelta, error) {
			t.Fatal("ledger must not be touched on reject")
			return leavebalance.ApprovalDelta{}, nil
		}

		resp, err := deps.service.Decide(ctx, leaveID.String(), leave.StatusReject, actorID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusReject, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - second decision is rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := pendingLeave()
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.StatusApproved, actorID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - concurrent approval surfaces version conflict", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.ledger.applyApprovalFn = func(ctx context.Context, tx *sql.Tx, eid uuid.UUID, days float64, date time.Time) (leavebalance.ApprovalDelta, error) {
			return leavebalance.ApprovalDelta{}, leavebalanceerrors.ErrVersionConflict
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.StatusApproved, actorID.String())

		assert.ErrorIs(t, err, leavebalanceerrors.ErrVersionConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - invalid target status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, leaveID.String(), "MAYBE", actorID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatus)
	})
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	employeeID := uuid.New()

	existing := func(status string) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:         leaveID,
			EmployeeID: employeeID,
			Status:     status,
			TotalDays:  1,
			Dates: []leave.LeaveDate{
				{Date: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), LeaveType: leave.TypeFullDay, DayValue: 1},
			},
		}
	}

	t.Run("replaces dates and recomputes totals", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing(leave.StatusPending), nil
		}

		var replaced []leave.LeaveDate
		deps.repo.replaceDatesFn = func(ctx context.Context, requestID uuid.UUID, dates []leave.LeaveDate) error {
			assert.Equal(t, leaveID, requestID)
			replaced = dates
			return nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, 1.5, l.TotalDays)
			assert.Equal(t, "moved dates", l.Comment)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		req := leave.UpdateLeaveRequest{
			Entries: []leave.LeaveEntry{
				{Date: "2025-07-20", LeaveType: leave.TypeFullDay},
				{Date: "2025-07-21", LeaveType: leave.TypeSecondHalf},
				{Date: "2025-07-20", LeaveType: leave.TypeFullDay}, // dup, dropped
			},
			Comment: "moved dates",
		}

		resp, err := deps.service.Update(ctx, leaveID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, replaced, 2)
		assert.Equal(t, 1.5, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - decided request cannot change", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return existing(leave.StatusApproved), nil
		}

		req := leave.UpdateLeaveRequest{
			Entries: []leave.LeaveEntry{{Date: "2025-07-20", LeaveType: leave.TypeFullDay}},
		}

		_, err := deps.service.Update(ctx, leaveID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		req := leave.UpdateLeaveRequest{
			Entries: []leave.LeaveEntry{{Date: "2025-07-20", LeaveType: leave.TypeFullDay}},
		}

		_, err := deps.service.Update(ctx, leaveID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusPending}, nil
		}
		deps.repo.softDeleteFn = func(ctx context.Context, id string) error {
			assert.Equal(t, leaveID.String(), id)
			return nil
		}

		err := deps.service.Delete(ctx, leaveID.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative - repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID}, nil
		}
		deps.repo.softDeleteFn = func(ctx context.Context, id string) error {
			return errors.New("db error")
		}

		err := deps.service.Delete(ctx, leaveID.String())

		assert.Error(t, err)
	})
}

func TestDayValue(t *testing.T) {
	assert.Equal(t, float64(1), leave.DayValue(leave.TypeFullDay))
	assert.Equal(t, 0.5, leave.DayValue(leave.TypeFirstHalf))
	assert.Equal(t, 0.5, leave.DayValue(leave.TypeSecondHalf))
	assert.Equal(t, float64(0), leave.DayValue("SABBATICAL"))
}
