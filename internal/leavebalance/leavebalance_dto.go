package leavebalance

type MonthHistoryResponse struct {
	Month           string  `json:"month"`
	Year            int     `json:"year"`
	PaidLeaveUsed   float64 `json:"paid_leave_used"`
	UnpaidLeaveUsed float64 `json:"unpaid_leave_used"`
}

type BalanceResponse struct {
	ID         string                 `json:"id"`
	EmployeeID string                 `json:"employee_id"`
	Balance    float64                `json:"balance"`
	UsedLeave  float64                `json:"used_leave"`
	History    []MonthHistoryResponse `json:"history"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:         b.ID.String(),
		EmployeeID: b.EmployeeID.String(),
		Balance:    b.Balance,
		UsedLeave:  b.UsedLeave,
		History:    make([]MonthHistoryResponse, len(b.History)),
	}
	for i, h := range b.History {
		resp.History[i] = MonthHistoryResponse{
			Month:           h.Month,
			Year:            h.Year,
			PaidLeaveUsed:   h.PaidLeaveUsed,
			UnpaidLeaveUsed: h.UnpaidLeaveUsed,
		}
	}
	return resp
}
