package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/scopes"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, leaves []LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, int64, error)
	HasActiveOnDate(ctx context.Context, employeeID, approverID uuid.UUID, date time.Time) (bool, error)
	Update(ctx context.Context, l *LeaveRequest) error
	ReplaceDates(ctx context.Context, requestID uuid.UUID, dates []LeaveDate) error
	SoftDelete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx scopes every operation to the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) CreateBatch(ctx context.Context, leaves []LeaveRequest) error {
	return r.db.WithContext(ctx).Create(&leaves).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Preload("Dates").
		Preload("Employee").
		Preload("Approver").
		Preload("ApprovedBy").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(scopes.Active())

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ApproverID != "" {
		q = q.Where("approver_id = ?", filter.ApproverID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil || filter.To != nil {
		sub := r.db.Table("leave_request_dates").
			Select("leave_request_id")
		if filter.From != nil {
			sub = sub.Where("date >= ?", *filter.From)
		}
		if filter.To != nil {
			sub = sub.Where("date <= ?", *filter.To)
		}
		q = q.Where("id IN (?)", sub)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var leaves []LeaveRequest
	err := q.
		Preload("Dates").
		Preload("Employee").
		Preload("Approver").
		Preload("ApprovedBy").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&leaves).Error
	return leaves, total, err
}

// HasActiveOnDate reports whether a live request of this employee, routed to
// this approver, already covers the date.
func (r *repository) HasActiveOnDate(ctx context.Context, employeeID, approverID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Joins("JOIN leave_request_dates ON leave_request_dates.leave_request_id = leave_requests.id").
		Where("leave_requests.employee_id = ?", employeeID).
		Where("leave_requests.approver_id = ?", approverID).
		Where("leave_requests.is_deleted = ?", false).
		Where("leave_requests.is_active = ?", true).
		Where("leave_request_dates.date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Dates", "Employee", "Approver", "ApprovedBy").Save(l).Error
}

func (r *repository) ReplaceDates(ctx context.Context, requestID uuid.UUID, dates []LeaveDate) error {
	if err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", requestID).
		Delete(&LeaveDate{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dates).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
