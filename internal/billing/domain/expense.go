package billing

import "github.com/shopspring/decimal"

// AllocationBasis selects the rule used to split an expense across units.
type AllocationBasis string

const (
	ByShare       AllocationBasis = "by_share"
	ByOccupants   AllocationBasis = "by_occupants"
	ByUnitCount   AllocationBasis = "by_unit_count"
	ByConsumption AllocationBasis = "by_consumption"

	// BasisFund marks itemized lines coming from recurring funds rather
	// than apportioned expenses.
	BasisFund AllocationBasis = "fund"
)

// MeterCategory identifies the kind of consumption a meter records.
type MeterCategory string

const (
	MeterColdWater   MeterCategory = "cold_water"
	MeterHotWater    MeterCategory = "hot_water"
	MeterGas         MeterCategory = "gas"
	MeterElectricity MeterCategory = "electricity"
	MeterHeat        MeterCategory = "heat"
)

// meterCategoryLabels maps meter categories to display labels.
var meterCategoryLabels = map[MeterCategory]string{
	MeterColdWater:   "Cold water",
	MeterHotWater:    "Hot water",
	MeterGas:         "Gas",
	MeterElectricity: "Electricity",
	MeterHeat:        "Heat",
}

// Label returns the display label for a meter category.
func (c MeterCategory) Label() string {
	if label, ok := meterCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether the category is one of the known meter kinds.
func (c MeterCategory) Valid() bool {
	_, ok := meterCategoryLabels[c]
	return ok
}

// Expense is one shared cost recorded for a billing period.
// It is created by a collaborator before the run and is immutable once a
// finalized bill references it.
type Expense struct {
	ID            string
	AssociationID string
	Category      string
	Amount        decimal.Decimal
	Basis         AllocationBasis
	Period        Period
	MeterCategory MeterCategory
}

// IsMetered reports whether the expense is allocated by consumption.
func (e Expense) IsMetered() bool {
	return e.Basis == ByConsumption
}
