package leave

import "time"

type LeaveEntry struct {
	Date      string `json:"date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=FULL_DAY FIRST_HALF SECOND_HALF"`
}

type CreateLeaveRequest struct {
	Entries []LeaveEntry `json:"entries" binding:"required,min=1,dive"`
	Comment string       `json:"comment" binding:"max=500"`
}

type UpdateLeaveRequest struct {
	Entries []LeaveEntry `json:"entries" binding:"required,min=1,dive"`
	Comment string       `json:"comment" binding:"max=500"`
}

type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListLeaveFilter struct {
	EmployeeID string
	ApproverID string
	Status     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

type LeaveDateResponse struct {
	Date      string  `json:"date"`
	LeaveType string  `json:"leave_type"`
	DayValue  float64 `json:"day_value"`
}

type LeaveResponse struct {
	ID             string              `json:"id"`
	EmployeeID     string              `json:"employee_id"`
	EmployeeName   string              `json:"employee_name,omitempty"`
	Dates          []LeaveDateResponse `json:"dates"`
	TotalDays      float64             `json:"total_days"`
	Comment        string              `json:"comment"`
	Status         string              `json:"status"`
	ApproverID     string              `json:"approver_id"`
	ApproverName   string              `json:"approver_name,omitempty"`
	ApprovedByID   *string             `json:"approved_by_id,omitempty"`
	ApprovedByName string              `json:"approved_by_name,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

type CreateLeaveResponse struct {
	Requests  []LeaveResponse `json:"requests"`
	TotalDays float64         `json:"total_days"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		EmployeeName: l.Employee.FullName(),
		Dates:        make([]LeaveDateResponse, len(l.Dates)),
		TotalDays:    l.TotalDays,
		Comment:      l.Comment,
		Status:       l.Status,
		ApproverID:   l.ApproverID.String(),
		ApproverName: l.Approver.FullName(),
		CreatedAt:    l.CreatedAt,
	}
	for i, d := range l.Dates {
		resp.Dates[i] = LeaveDateResponse{
			Date:      d.Date.Format("2006-01-02"),
			LeaveType: d.LeaveType,
			DayValue:  d.DayValue,
		}
	}
	if l.ApprovedByID != nil {
		v := l.ApprovedByID.String()
		resp.ApprovedByID = &v
		resp.ApprovedByName = l.ApprovedBy.FullName()
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
