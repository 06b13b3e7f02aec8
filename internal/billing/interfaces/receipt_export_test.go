package interfaces_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"condo-billing/internal/billing/application"
	billing "condo-billing/internal/billing/domain"
	"condo-billing/internal/billing/interfaces"
)

func sampleBill() billing.Bill {
	return billing.Bill{
		ID:            "bill-1",
		AssociationID: "assoc-1",
		UnitID:        "u1",
		ReceiptNumber: 101,
		Period:        billing.Period{Month: time.March, Year: 2024},
		Status:        billing.BillStatusUnpaid,
		Maintenance:   billing.MustMoney("250.00"),
		Arrears:       billing.MustMoney("500.00"),
		Penalty:       billing.MustMoney("4.50"),
		Funds:         billing.MustMoney("50.00"),
		Total:         billing.MustMoney("804.50"),
		Lines: []billing.BillLine{
			{ExpenseID: "e1", Label: "cleaning", Basis: billing.ByUnitCount, Amount: billing.MustMoney("50.00")},
			{ExpenseID: "e2", Label: "Cold water", Basis: billing.ByConsumption, Amount: billing.MustMoney("200.00")},
		},
		DueDate:   time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestBuildReceiptPDF(t *testing.T) {
	bill := sampleBill()
	data, err := interfaces.BuildReceiptPDF(&bill)
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty pdf output")
	}
	if string(data[:5]) != "%PDF-" {
		t.Fatalf("output is not a pdf, header %q", data[:5])
	}
}

// stubBillReader serves one stored bill with its lines kept separately,
// the way the repository returns them.
type stubBillReader struct {
	bill  billing.Bill
	lines []billing.BillLine
}

func (s *stubBillReader) Get(ctx context.Context, billID string) (*billing.Bill, error) {
	_ = ctx
	if billID != s.bill.ID {
		return nil, billing.ErrBillNotFound
	}
	bill := s.bill
	return &bill, nil
}

func (s *stubBillReader) ListLines(ctx context.Context, billID string) ([]billing.BillLine, error) {
	_ = ctx
	return append([]billing.BillLine(nil), s.lines...), nil
}

func TestBuildStoredReceiptPDF(t *testing.T) {
	bill := sampleBill()
	reader := &stubBillReader{bill: bill, lines: bill.Lines}
	reader.bill.Lines = nil

	data, err := interfaces.BuildStoredReceiptPDF(context.Background(), reader, bill.ID)
	if err != nil {
		t.Fatalf("build stored pdf: %v", err)
	}
	if len(data) == 0 || string(data[:5]) != "%PDF-" {
		t.Fatalf("output is not a pdf")
	}
}

func TestBuildStoredReceiptPDF_UnknownBill(t *testing.T) {
	reader := &stubBillReader{bill: sampleBill()}

	_, err := interfaces.BuildStoredReceiptPDF(context.Background(), reader, "bill-missing")
	if !errors.Is(err, billing.ErrBillNotFound) {
		t.Fatalf("expected bill-not-found, got %v", err)
	}
}

func TestBuildMonthlyRegisterXLSX(t *testing.T) {
	bill := sampleBill()
	run := &application.RunResult{
		AssociationID: "assoc-1",
		Period:        bill.Period,
		DueDate:       bill.DueDate,
		Bills:         []billing.Bill{bill},
		UnitsBilled:   1,
		GrandTotal:    bill.Total,
	}
	data, err := interfaces.BuildMonthlyRegisterXLSX(run)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty xlsx output")
	}
	// xlsx files are zip archives.
	if data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("output is not a zip archive, header %q", data[:2])
	}
}
