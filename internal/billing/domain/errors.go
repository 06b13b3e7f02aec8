package billing

import "errors"

var (
	// ErrEmptyAssociationID is returned when an association id is empty.
	ErrEmptyAssociationID = errors.New("billing: empty association id")
	// ErrInvalidPeriod is returned when a billing period is out of range.
	ErrInvalidPeriod = errors.New("billing: invalid billing period")
	// ErrInvalidDueDay is returned when the due day is outside 1-31.
	ErrInvalidDueDay = errors.New("billing: due day must be between 1 and 31")
	// ErrNegativePenaltyRate is returned when the daily penalty rate is negative.
	ErrNegativePenaltyRate = errors.New("billing: negative penalty rate")
	// ErrNoUnits is returned when a billing run resolves zero units.
	ErrNoUnits = errors.New("billing: no units to bill")
	// ErrNilBill is returned when persisting a nil bill.
	ErrNilBill = errors.New("billing: nil bill")
	// ErrBillNotFound is returned when a bill is not found.
	ErrBillNotFound = errors.New("billing: bill not found")
	// ErrUnknownBasis is returned for an unrecognized allocation basis.
	ErrUnknownBasis = errors.New("billing: unknown allocation basis")
)
