package billing

import "github.com/shopspring/decimal"

// Association holds the billing settings of one owners' association.
// DueDay and PenaltyDailyRate are read once at the start of a billing run
// and must not change while the run is in flight.
type Association struct {
	ID                string
	Name              string
	DueDay            int
	PenaltyDailyRate  decimal.Decimal
	LastReceiptNumber int64
}

// Validate checks the settings an engine run depends on.
func (a Association) Validate() error {
	if a.ID == "" {
		return ErrEmptyAssociationID
	}
	if a.DueDay < 1 || a.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if a.PenaltyDailyRate.IsNegative() {
		return ErrNegativePenaltyRate
	}
	return nil
}

// Unit is one billable apartment of an association.
// OwnershipShare is a fraction of the building total; the sum of shares
// across units is the allocation denominator and is not assumed to be 100.
type Unit struct {
	ID             string
	AssociationID  string
	Label          string
	OwnershipShare decimal.Decimal
	Occupants      int
	Meters         []Meter
	Active         bool
}

// BillableOccupants returns the occupant count used for BY_OCCUPANTS
// allocation, defaulting to 1 when unset.
func (u Unit) BillableOccupants() int {
	if u.Occupants < 1 {
		return 1
	}
	return u.Occupants
}

// MeterFor returns the unit's meter for a category, if it has one.
func (u Unit) MeterFor(category MeterCategory) (Meter, bool) {
	for _, m := range u.Meters {
		if m.Category == category {
			return m, true
		}
	}
	return Meter{}, false
}

// Meter is a consumption meter attached to one unit.
type Meter struct {
	ID       string
	UnitID   string
	Category MeterCategory
}

// MeterReading is one recorded meter value for a billing period.
// Readings are non-decreasing by convention; a violation is surfaced as a
// data-quality warning, never an error.
type MeterReading struct {
	MeterID string
	Period  Period
	Value   decimal.Decimal
}

// Fund is a recurring fixed monthly contribution added identically to
// every unit's bill, independent of the expense apportionment path.
type Fund struct {
	ID            string
	AssociationID string
	Name          string
	MonthlyAmount decimal.Decimal
}
