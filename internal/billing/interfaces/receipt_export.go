package interfaces

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"condo-billing/internal/billing/application"
	billing "condo-billing/internal/billing/domain"
	"condo-billing/internal/observability/metrics"
)

// BillReader loads a persisted bill and its itemized lines.
type BillReader interface {
	Get(ctx context.Context, billID string) (*billing.Bill, error)
	ListLines(ctx context.Context, billID string) ([]billing.BillLine, error)
}

// BuildStoredReceiptPDF re-exports a persisted bill: it loads the bill
// and its lines and renders the receipt.
func BuildStoredReceiptPDF(ctx context.Context, bills BillReader, billID string) ([]byte, error) {
	bill, err := bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	lines, err := bills.ListLines(ctx, billID)
	if err != nil {
		return nil, err
	}
	bill.Lines = lines
	return BuildReceiptPDF(bill)
}

// BuildReceiptPDF renders a printable receipt for one bill.
func BuildReceiptPDF(bill *billing.Bill) ([]byte, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReceiptExport("pdf", result, time.Since(start))
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("Receipt #%d", bill.ReceiptNumber))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Unit: %s", bill.UnitID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", bill.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Due date: %s", bill.DueDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", bill.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Charge", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range bill.Lines {
		pdf.CellFormat(90, 6, line.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Maintenance: %s", bill.Maintenance.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Arrears: %s", bill.Arrears.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Penalty: %s", bill.Penalty.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Funds: %s", bill.Funds.StringFixed(2)))
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %s", bill.Total.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildMonthlyRegisterXLSX renders the month's bill register for one
// billing run.
func BuildMonthlyRegisterXLSX(run *application.RunResult) ([]byte, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReceiptExport("xlsx", result, time.Since(start))
	}()

	f := excelize.NewFile()
	summarySheet := "summary"
	billsSheet := "bills"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(billsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Bill Register")
	_ = f.SetCellValue(summarySheet, "A3", "Association")
	_ = f.SetCellValue(summarySheet, "B3", run.AssociationID)
	_ = f.SetCellValue(summarySheet, "A4", "Period")
	_ = f.SetCellValue(summarySheet, "B4", run.Period.String())
	_ = f.SetCellValue(summarySheet, "A5", "Due date")
	_ = f.SetCellValue(summarySheet, "B5", run.DueDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Units billed")
	_ = f.SetCellValue(summarySheet, "B6", run.UnitsBilled)
	_ = f.SetCellValue(summarySheet, "A7", "Units skipped")
	_ = f.SetCellValue(summarySheet, "B7", len(run.Failures))
	_ = f.SetCellValue(summarySheet, "A8", "Grand total")
	_ = f.SetCellValue(summarySheet, "B8", run.GrandTotal.StringFixed(2))

	headers := []string{"Receipt", "Unit", "Maintenance", "Arrears", "Penalty", "Funds", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(billsSheet, cell, header)
	}
	for i, bill := range run.Bills {
		row := i + 2
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("A%d", row), bill.ReceiptNumber)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("B%d", row), bill.UnitID)
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("C%d", row), bill.Maintenance.StringFixed(2))
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("D%d", row), bill.Arrears.StringFixed(2))
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("E%d", row), bill.Penalty.StringFixed(2))
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("F%d", row), bill.Funds.StringFixed(2))
		_ = f.SetCellValue(billsSheet, fmt.Sprintf("G%d", row), bill.Total.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return buf.Bytes(), nil
}
