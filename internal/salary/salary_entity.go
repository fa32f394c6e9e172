package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryRecord is one generated monthly payout. Records are immutable after
// insert; the unique period index is what makes generation idempotent.
type SalaryRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_salary_period,priority:1" json:"employee_id"`
	Month           string          `gorm:"size:16;not null;uniqueIndex:uq_salary_period,priority:2" json:"month"`
	Year            int             `gorm:"not null;uniqueIndex:uq_salary_period,priority:3" json:"year"`
	SlipNumber      string          `gorm:"size:32;not null;uniqueIndex:uq_salary_slip" json:"slip_number"`
	BaseSalary      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"base_salary"`
	UnpaidLeaveDays float64         `gorm:"not null;default:0" json:"unpaid_leave_days"`
	LeaveDeduction  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"leave_deduction"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_salary"`
	GeneratedAt     time.Time       `gorm:"not null" json:"generated_at"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	IsDeleted       bool            `gorm:"default:false" json:"is_deleted"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (SalaryRecord) TableName() string { return "salary_records" }

// EmployeeRef joins the employee name and email onto salary reads.
type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
	Email     string
}

func (EmployeeRef) TableName() string { return "employees" }

func (e *EmployeeRef) FullName() string {
	if e == nil {
		return ""
	}
	return e.FirstName + " " + e.LastName
}
