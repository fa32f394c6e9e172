package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysInMonth returns the real calendar length of the month, not a fixed 30.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ComputeDeduction prices unpaid leave days against the base salary: the
// per-day rate is base over the real days in the month, and both outputs are
// rounded to cents.
func ComputeDeduction(base decimal.Decimal, daysInMonth int, unpaidDays float64) (deduction, net decimal.Decimal) {
	if daysInMonth <= 0 || unpaidDays <= 0 {
		return decimal.Zero, base.Round(2)
	}

	perDay := base.Div(decimal.NewFromInt(int64(daysInMonth)))
	deduction = perDay.Mul(decimal.NewFromFloat(unpaidDays)).Round(2)
	net = base.Sub(deduction).Round(2)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return deduction, net
}
