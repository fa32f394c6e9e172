package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/domain"
	"github.com/devadmin007/employee-management/internal/shared/connection"
	"github.com/devadmin007/employee-management/internal/shared/scopes"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindAdmin(ctx context.Context) (*Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, e *Employee) error
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Order("created_at DESC").
		Find(&employees).Error
	return employees, err
}

// FindAllActive returns the population the salary batch walks: active,
// non-deleted employees.
func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Select("id", "employee_number", "first_name", "last_name", "email", "role", "is_active").
		Where("is_active = ?", true).
		Order("first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAdmin(ctx context.Context) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(scopes.Active()).
		Where("role = ?", domain.RoleAdmin).
		Where("is_active = ?", true).
		Order("created_at ASC").
		First(&e).Error
	return &e, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(scopes.Active()).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
