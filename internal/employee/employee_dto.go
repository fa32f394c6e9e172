package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Role       string   `json:"role" binding:"required,oneof=EMPLOYEE PROJECT_MANAGER HR ADMIN"`
	ManagerID  *string  `json:"manager_id" binding:"omitempty,uuid"`
	BaseSalary *float64 `json:"base_salary" binding:"omitempty,gt=0"`
}

type UpdateEmployeeRequest struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Role       string   `json:"role" binding:"required,oneof=EMPLOYEE PROJECT_MANAGER HR ADMIN"`
	ManagerID  *string  `json:"manager_id" binding:"omitempty,uuid"`
	BaseSalary *float64 `json:"base_salary" binding:"omitempty,gt=0"`
	IsActive   *bool    `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	ManagerID      *string `json:"manager_id,omitempty"`
	BaseSalary     *string `json:"base_salary,omitempty"`
	IsActive       bool    `json:"is_active"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Role:           e.Role,
		IsActive:       e.IsActive,
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	if e.BaseSalary.Valid {
		v := e.BaseSalary.Decimal.StringFixed(2)
		resp.BaseSalary = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}

func nullDecimalFromFloat(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}
