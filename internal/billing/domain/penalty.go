package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyCalculator accrues simple (non-compounded) daily interest on an
// outstanding balance.
type PenaltyCalculator struct{}

// DaysLate returns the whole days elapsed since the due date, never
// negative.
func (PenaltyCalculator) DaysLate(dueDate, now time.Time) int {
	if dueDate.IsZero() || !now.After(dueDate) {
		return 0
	}
	return int(now.Sub(dueDate) / (24 * time.Hour))
}

// Accrue computes outstanding * dailyRate * daysLate rounded to 2
// decimals. A non-positive balance accrues nothing regardless of age.
func (c PenaltyCalculator) Accrue(outstanding, dailyRate decimal.Decimal, dueDate, now time.Time) decimal.Decimal {
	if !outstanding.IsPositive() {
		return decimal.Zero
	}
	days := c.DaysLate(dueDate, now)
	if days == 0 {
		return decimal.Zero
	}
	return RoundMoney(outstanding.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))))
}
