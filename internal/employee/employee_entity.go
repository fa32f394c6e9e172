package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex:uq_employee_number"`

	FirstName string `gorm:"type:varchar(80);not null"`
	LastName  string `gorm:"type:varchar(80);not null"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`

	Role      string     `gorm:"type:varchar(30);not null;default:'EMPLOYEE';index"`
	ManagerID *uuid.UUID `gorm:"type:uuid"`

	// BaseSalary is nullable: salary generation skips employees that have
	// no configured salary yet.
	BaseSalary decimal.NullDecimal `gorm:"type:numeric(14,2)"`

	IsActive  bool `gorm:"not null;default:true"`
	IsDeleted bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
