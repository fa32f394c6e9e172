package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance tracks the remaining paid leave of one employee. There is at
// most one row per employee; approvals mutate it under an optimistic version
// check.
type LeaveBalance struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_balance_employee" json:"employee_id"`
	Balance    float64             `gorm:"not null;default:0" json:"balance"`
	UsedLeave  float64             `gorm:"not null;default:0" json:"used_leave"`
	Version    int64               `gorm:"not null;default:0" json:"version"`
	History    []LeaveMonthHistory `gorm:"foreignKey:BalanceID" json:"history"`
	IsActive   bool                `gorm:"default:true" json:"is_active"`
	IsDeleted  bool                `gorm:"default:false" json:"is_deleted"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// LeaveMonthHistory is the per-month usage bucket. One row per
// (balance, month, year); the month is stored by name ("July") to match the
// payslip wording.
type LeaveMonthHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BalanceID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_history_bucket,priority:1" json:"balance_id"`
	Month           string    `gorm:"size:16;not null;uniqueIndex:uq_history_bucket,priority:2" json:"month"`
	Year            int       `gorm:"not null;uniqueIndex:uq_history_bucket,priority:3" json:"year"`
	PaidLeaveUsed   float64   `gorm:"not null;default:0" json:"paid_leave_used"`
	UnpaidLeaveUsed float64   `gorm:"not null;default:0" json:"unpaid_leave_used"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (LeaveMonthHistory) TableName() string { return "leave_month_histories" }
