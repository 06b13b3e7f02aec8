package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusUnpaid        = "unpaid"
	BillStatusSent          = "sent"
	BillStatusPartiallyPaid = "partially_paid"
	BillStatusPaid          = "paid"
)

// Bill is one unit's finalized monthly receipt. It is immutable once
// created for a (unit, period); corrections land on the next month's bill.
type Bill struct {
	ID            string
	AssociationID string
	UnitID        string
	ReceiptNumber int64
	Period        Period
	Status        string

	Maintenance decimal.Decimal
	Arrears     decimal.Decimal
	Penalty     decimal.Decimal
	Funds       decimal.Decimal
	Total       decimal.Decimal

	Lines   []BillLine
	DueDate time.Time

	CreatedAt time.Time
}

// BillLine is one itemized charge on a bill. Zero-amount lines are never
// recorded.
type BillLine struct {
	ExpenseID string
	Label     string
	Basis     AllocationBasis
	Amount    decimal.Decimal
	Warnings  []Warning
}

// Payment is a confirmed or pending payment applied against one bill.
// Several partial payments may apply to the same bill.
type Payment struct {
	ID        string
	BillID    string
	Amount    decimal.Decimal
	Confirmed bool
	PaidAt    time.Time
}

// Outstanding returns the unpaid remainder of the bill given its confirmed
// payments, floored at zero so an overpaid bill never contributes negative
// arrears.
func (b Bill) Outstanding(payments []Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Confirmed {
			paid = paid.Add(p.Amount)
		}
	}
	remaining := b.Total.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Open reports whether the bill can still carry arrears forward.
func (b Bill) Open() bool {
	switch b.Status {
	case BillStatusUnpaid, BillStatusSent, BillStatusPartiallyPaid:
		return true
	}
	return false
}
