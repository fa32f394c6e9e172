package salary

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslipPDF renders a one-page payslip for a generated record.
func RenderPayslipPDF(rec SalaryRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Slip number: %s", rec.SlipNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", rec.Employee.FullName()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", rec.Month, rec.Year))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %s", rec.BaseSalary.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Unpaid leave days: %.1f", rec.UnpaidLeaveDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Leave deduction: %s", rec.LeaveDeduction.StringFixed(2)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %s", rec.NetSalary.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
