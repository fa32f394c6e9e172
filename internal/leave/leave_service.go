package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/employee"
	employeeerrors "github.com/devadmin007/employee-management/internal/employee/errors"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	leaveerrors "github.com/devadmin007/employee-management/internal/leave/errors"
	"github.com/devadmin007/employee-management/internal/shared/contextutil"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error)
	GetAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, id, target, actorID string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	ledger    leavebalance.Ledger
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	ledger leavebalance.Ledger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, employees: employees, ledger: ledger, logger: l}
}

// Create files one PENDING request per requested date. Dates already covered
// by a live request routed to the same approver are silently dropped; if
// nothing survives the whole call is a conflict. The balance is untouched
// until approval.
func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (CreateLeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("entries", len(req.Entries)),
	)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return CreateLeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	entries, err := normalizeEntries(req.Entries)
	if err != nil {
		return CreateLeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CreateLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emps := s.employees.WithTx(tx)

	emp, err := emps.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateLeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return CreateLeaveResponse{}, err
	}

	admin, err := emps.FindAdmin(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateLeaveResponse{}, employeeerrors.ErrAdminNotFound
		}
		return CreateLeaveResponse{}, err
	}

	approverID := employee.ResolveApprover(emp.Role, emp.ManagerID, admin.ID)

	var surviving []normalizedEntry
	for _, e := range entries {
		taken, err := qtx.HasActiveOnDate(ctx, empID, approverID, e.date)
		if err != nil {
			return CreateLeaveResponse{}, err
		}
		if taken {
			s.logger.Debug("dropping already requested date",
				zap.String("employee_id", employeeID),
				zap.String("date", e.date.Format(dateLayout)),
			)
			continue
		}
		surviving = append(surviving, e)
	}
	if len(surviving) == 0 {
		return CreateLeaveResponse{}, leaveerrors.ErrLeaveAlreadyExists
	}

	leaves := make([]LeaveRequest, len(surviving))
	var totalDays float64
	for i, e := range surviving {
		requestID := uuid.New()
		leaves[i] = LeaveRequest{
			ID:         requestID,
			EmployeeID: empID,
			Dates: []LeaveDate{{
				ID:             uuid.New(),
				LeaveRequestID: requestID,
				Date:           e.date,
				LeaveType:      e.leaveType,
				DayValue:       e.dayValue,
			}},
			TotalDays:  e.dayValue,
			Comment:    req.Comment,
			Status:     StatusPending,
			ApproverID: approverID,
			IsActive:   true,
		}
		totalDays += e.dayValue
	}

	if err := qtx.CreateBatch(ctx, leaves); err != nil {
		s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
		return CreateLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CreateLeaveResponse{}, err
	}

	// Names for the response without another round trip per row.
	empRef := &EmployeeRef{ID: emp.ID, FirstName: emp.FirstName, LastName: emp.LastName}
	approverRef := s.lookupRef(ctx, approverID)
	for i := range leaves {
		leaves[i].Employee = empRef
		leaves[i].Approver = approverRef
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("created", len(leaves)),
		zap.Float64("total_days", totalDays),
	)

	return CreateLeaveResponse{
		Requests:  mapToListResponse(leaves),
		TotalDays: totalDays,
	}, nil
}

func (s *service) GetAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveResponse, int64, error) {
	leaves, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Update replaces the date list of a still-pending request. Status and
// approver are never touched here.
func (s *service) Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	entries, err := normalizeEntries(req.Entries)
	if err != nil {
		return LeaveResponse{}, err
	}
	if len(entries) == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoValidDates
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	dates := make([]LeaveDate, len(entries))
	var totalDays float64
	for i, e := range entries {
		dates[i] = LeaveDate{
			ID:             uuid.New(),
			LeaveRequestID: l.ID,
			Date:           e.date,
			LeaveType:      e.leaveType,
			DayValue:       e.dayValue,
		}
		totalDays += e.dayValue
	}

	if err := qtx.ReplaceDates(ctx, l.ID, dates); err != nil {
		return LeaveResponse{}, err
	}

	l.TotalDays = totalDays
	l.Comment = req.Comment
	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	l.Dates = dates
	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Float64("total_days", totalDays),
	)
	return mapToResponse(*l), nil
}

// Decide settles a pending request. Approval and the balance deduction
// commit atomically; a concurrent decision loses either on the PENDING
// guard or on the ledger's version check.
func (s *service) Decide(ctx context.Context, id, target, actorID string) (LeaveResponse, error) {
	if target != StatusApproved && target != StatusReject {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	if target == StatusApproved {
		delta, err := s.ledger.ApplyApproval(ctx, tx, l.EmployeeID, l.TotalDays, l.EarliestDate())
		if err != nil {
			return LeaveResponse{}, err
		}
		s.logger.Debug("approval booked against balance",
			zap.String("leave_id", id),
			zap.Float64("deducted", delta.Deducted),
			zap.Float64("unpaid", delta.Unpaid),
		)
	}

	l.Status = target
	l.ApprovedByID = &actor
	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	l.ApprovedBy = s.lookupRef(ctx, actor)
	s.logger.Info("leave decided",
		zap.String("leave_id", id),
		zap.String("status", target),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if err := qtx.SoftDelete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

type normalizedEntry struct {
	date      time.Time
	leaveType string
	dayValue  float64
}

// normalizeEntries parses dates, truncates them to day boundaries and drops
// duplicate dates (first entry wins).
func normalizeEntries(entries []LeaveEntry) ([]normalizedEntry, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]normalizedEntry, 0, len(entries))
	for _, e := range entries {
		d, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			return nil, leaveerrors.ErrInvalidDate
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		key := d.Format(dateLayout)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalizedEntry{date: d, leaveType: e.LeaveType, dayValue: DayValue(e.LeaveType)})
	}
	return out, nil
}

func (s *service) lookupRef(ctx context.Context, id uuid.UUID) *EmployeeRef {
	e, err := s.employees.FindByID(ctx, id.String())
	if err != nil {
		return nil
	}
	return &EmployeeRef{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
}
