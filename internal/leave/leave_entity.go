package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusReject   = "REJECT"
)

const (
	TypeFullDay    = "FULL_DAY"
	TypeFirstHalf  = "FIRST_HALF"
	TypeSecondHalf = "SECOND_HALF"
)

// DayValue maps a leave type to the number of days it consumes. Unknown
// types count as zero so they never touch the balance.
func DayValue(leaveType string) float64 {
	switch leaveType {
	case TypeFullDay:
		return 1
	case TypeFirstHalf, TypeSecondHalf:
		return 0.5
	default:
		return 0
	}
}

// LeaveRequest is one pending/decided request. Creation inserts one request
// per date; an update may grow the date list of a single request.
type LeaveRequest struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"employee_id"`
	Dates        []LeaveDate `gorm:"foreignKey:LeaveRequestID" json:"dates"`
	TotalDays    float64     `gorm:"not null;default:0" json:"total_days"`
	Comment      string      `gorm:"size:500" json:"comment"`
	Status       string      `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	ApproverID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"approver_id"`
	ApprovedByID *uuid.UUID  `gorm:"type:uuid" json:"approved_by_id"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	IsDeleted    bool        `gorm:"default:false" json:"is_deleted"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID" json:"-"`
	Approver   *EmployeeRef `gorm:"foreignKey:ApproverID" json:"-"`
	ApprovedBy *EmployeeRef `gorm:"foreignKey:ApprovedByID" json:"-"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// EarliestDate picks the date whose month bucket the approval is booked
// under. Zero time when the request has no dates.
func (l LeaveRequest) EarliestDate() time.Time {
	var earliest time.Time
	for _, d := range l.Dates {
		if earliest.IsZero() || d.Date.Before(earliest) {
			earliest = d.Date
		}
	}
	return earliest
}

type LeaveDate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"leave_request_id"`
	Date           time.Time `gorm:"type:date;not null" json:"date"`
	LeaveType      string    `gorm:"size:16;not null" json:"leave_type"`
	DayValue       float64   `gorm:"not null" json:"day_value"`
}

func (LeaveDate) TableName() string { return "leave_request_dates" }

// EmployeeRef is a read-only join target for names on list/detail views.
type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

func (EmployeeRef) TableName() string { return "employees" }

func (e *EmployeeRef) FullName() string {
	if e == nil {
		return ""
	}
	return e.FirstName + " " + e.LastName
}
