package application

import (
	"context"
	"time"

	billing "condo-billing/internal/billing/domain"
)

// AssociationStore provides association settings and owns the receipt
// number sequence.
type AssociationStore interface {
	Get(ctx context.Context, associationID string) (*billing.Association, error)
	// ReserveNextReceiptNumber atomically increments and returns the
	// association's receipt counter. Reservations are serialized per
	// association and are never rolled back.
	ReserveNextReceiptNumber(ctx context.Context, associationID string) (int64, error)
}

// UnitStore lists billable units with shares, occupant counts and meters.
type UnitStore interface {
	// ListActive returns the association's active units, restricted to
	// unitIDs when non-empty.
	ListActive(ctx context.Context, associationID string, unitIDs []string) ([]billing.Unit, error)
}

// ExpenseStore lists the recorded expenses of a billing period.
type ExpenseStore interface {
	ListForPeriod(ctx context.Context, associationID string, period billing.Period) ([]billing.Expense, error)
}

// MeterReadingStore fetches recorded readings keyed by meter id.
type MeterReadingStore interface {
	ReadingsForPeriod(ctx context.Context, associationID string, period billing.Period) (map[string]billing.MeterReading, error)
}

// BillStore fetches historical bills and persists newly assembled ones.
type BillStore interface {
	ListOpenByUnit(ctx context.Context, unitID string) ([]billing.Bill, error)
	Create(ctx context.Context, bill *billing.Bill) error
}

// PaymentStore fetches confirmed payments applied against a bill.
type PaymentStore interface {
	ListConfirmedByBill(ctx context.Context, billID string) ([]billing.Payment, error)
}

// FundStore lists the recurring funds of an association.
type FundStore interface {
	ListByAssociation(ctx context.Context, associationID string) ([]billing.Fund, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
