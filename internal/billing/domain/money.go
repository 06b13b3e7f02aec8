package billing

import "github.com/shopspring/decimal"

// RoundMoney rounds a monetary amount to 2 decimal places, half up.
// Rounding is applied to each per-unit amount, never to running sums;
// the resulting drift against an expense total is accepted.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// MustMoney parses a decimal literal and panics on malformed input.
// Intended for constants and test fixtures only.
func MustMoney(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
