package salary

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/scopes"
)

type ListSalaryFilter struct {
	EmployeeID string
	Month      string
	Year       int
	Page       int
	PageSize   int
}

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *SalaryRecord) error
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month string, year int) (bool, error)
	FindAll(ctx context.Context, filter ListSalaryFilter) ([]SalaryRecord, int64, error)
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx scopes every operation to the caller's transaction so the record
// insert and its outbox event commit together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Scopes(scopes.Active()).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Where("year = ?", year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter ListSalaryFilter) ([]SalaryRecord, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Scopes(scopes.Active())

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month != "" {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
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

	var records []SalaryRecord
	err := q.
		Preload("Employee").
		Order("generated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Preload("Employee").
		First(&rec, "id = ?", id).Error
	return &rec, err
}
