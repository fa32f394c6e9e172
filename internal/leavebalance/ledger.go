package leavebalance

import "time"

// ApprovalDelta is the outcome of applying one approved leave to a balance.
// Days beyond the remaining paid balance become unpaid; the balance never
// goes negative.
type ApprovalDelta struct {
	Deducted   float64
	Unpaid     float64
	NewBalance float64
	Month      string
	Year       int
}

// ComputeApproval splits requestedDays into a paid deduction and an unpaid
// remainder against the current balance, and names the month bucket the
// usage belongs to.
func ComputeApproval(balance, requestedDays float64, leaveDate time.Time) ApprovalDelta {
	deducted := requestedDays
	if deducted > balance {
		deducted = balance
	}
	if deducted < 0 {
		deducted = 0
	}

	newBalance := balance - deducted
	if newBalance < 0 {
		newBalance = 0
	}

	return ApprovalDelta{
		Deducted:   deducted,
		Unpaid:     requestedDays - deducted,
		NewBalance: newBalance,
		Month:      leaveDate.Month().String(),
		Year:       leaveDate.Year(),
	}
}
