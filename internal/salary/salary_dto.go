package salary

import "time"

type SalaryResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	SlipNumber      string    `json:"slip_number"`
	Month           string    `json:"month"`
	Year            int       `json:"year"`
	BaseSalary      string    `json:"base_salary"`
	UnpaidLeaveDays float64   `json:"unpaid_leave_days"`
	LeaveDeduction  string    `json:"leave_deduction"`
	NetSalary       string    `json:"net_salary"`
	GeneratedAt     time.Time `json:"generated_at"`
}

func mapToResponse(r SalaryRecord) SalaryResponse {
	return SalaryResponse{
		ID:              r.ID.String(),
		EmployeeID:      r.EmployeeID.String(),
		EmployeeName:    r.Employee.FullName(),
		SlipNumber:      r.SlipNumber,
		Month:           r.Month,
		Year:            r.Year,
		BaseSalary:      r.BaseSalary.StringFixed(2),
		UnpaidLeaveDays: r.UnpaidLeaveDays,
		LeaveDeduction:  r.LeaveDeduction.StringFixed(2),
		NetSalary:       r.NetSalary.StringFixed(2),
		GeneratedAt:     r.GeneratedAt,
	}
}

func mapToListResponse(records []SalaryRecord) []SalaryResponse {
	resp := make([]SalaryResponse, len(records))
	for i, r := range records {
		resp[i] = mapToResponse(r)
	}
	return resp
}
