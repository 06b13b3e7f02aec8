package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Arrears is the unpaid balance a unit carries into the current period.
// OldestDueDate anchors the penalty clock and is zero when nothing is
// outstanding.
type Arrears struct {
	Outstanding   decimal.Decimal
	OldestDueDate time.Time
}

// ArrearsAggregator folds a unit's open historical bills and their
// confirmed payments into a single outstanding balance.
type ArrearsAggregator struct{}

// Aggregate sums per-bill outstanding amounts, floored at zero per bill,
// over bills whose status still carries arrears (unpaid, sent, partially
// paid). The penalty clock anchor is the due date of the oldest bill with
// a positive outstanding balance; a settled bill neither contributes
// arrears nor ages the balance.
func (ArrearsAggregator) Aggregate(bills []Bill, paymentsByBill map[string][]Payment) Arrears {
	arrears := Arrears{Outstanding: decimal.Zero}
	for _, bill := range bills {
		if !bill.Open() {
			continue
		}
		due := bill.Outstanding(paymentsByBill[bill.ID])
		if !due.IsPositive() {
			continue
		}
		arrears.Outstanding = arrears.Outstanding.Add(due)
		if arrears.OldestDueDate.IsZero() || bill.DueDate.Before(arrears.OldestDueDate) {
			arrears.OldestDueDate = bill.DueDate
		}
	}
	return arrears
}
