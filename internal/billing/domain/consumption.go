package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitConsumption is one unit's metered delta for a billing period.
type UnitConsumption struct {
	UnitID   string
	MeterID  string
	Delta    decimal.Decimal
	Warnings []Warning
}

// ConsumptionUsage is the pooled consumption of an association for one
// meter category and period. Only units with both a current and a prior
// reading contribute to the pool; the rest carry a missing-reading warning
// and receive no consumption charge.
type ConsumptionUsage struct {
	Category MeterCategory
	Pooled   decimal.Decimal
	byUnit   map[string]UnitConsumption
	warnings []Warning
}

// ConsumptionResolver derives per-unit deltas between two recorded
// readings and prices them against the pooled building total.
type ConsumptionResolver struct{}

// Resolve computes each unit's delta for the category from the current and
// previous period readings, keyed by meter id.
func (ConsumptionResolver) Resolve(units []Unit, category MeterCategory, current, previous map[string]MeterReading) ConsumptionUsage {
	usage := ConsumptionUsage{
		Category: category,
		Pooled:   decimal.Zero,
		byUnit:   make(map[string]UnitConsumption, len(units)),
	}

	for _, unit := range units {
		meter, ok := unit.MeterFor(category)
		if !ok {
			continue
		}
		cur, hasCur := current[meter.ID]
		prev, hasPrev := previous[meter.ID]
		if !hasCur || !hasPrev {
			usage.warnings = append(usage.warnings, Warning{
				Kind:   WarnMissingReading,
				UnitID: unit.ID,
				Detail: fmt.Sprintf("meter %s (%s) lacks a current or prior reading", meter.ID, category.Label()),
			})
			continue
		}

		uc := UnitConsumption{UnitID: unit.ID, MeterID: meter.ID, Delta: cur.Value.Sub(prev.Value)}
		if uc.Delta.IsNegative() {
			// Mis-entered reading: surfaced, not clamped.
			uc.Warnings = append(uc.Warnings, Warning{
				Kind:   WarnNonMonotonicReading,
				UnitID: unit.ID,
				Detail: fmt.Sprintf("meter %s reading decreased from %s to %s", meter.ID, prev.Value, cur.Value),
			})
		}
		usage.Pooled = usage.Pooled.Add(uc.Delta)
		usage.byUnit[unit.ID] = uc
	}
	return usage
}

// Charge prices one unit's delta against the pooled total for the given
// expense amount. The boolean is false when the unit receives no
// consumption charge line: no usable delta, or a zero pooled total that
// makes the unit price undefined.
func (u ConsumptionUsage) Charge(amount decimal.Decimal, unitID string) (decimal.Decimal, []Warning, bool) {
	uc, ok := u.byUnit[unitID]
	if !ok {
		return decimal.Zero, nil, false
	}
	if u.Pooled.IsZero() {
		warn := append([]Warning{}, uc.Warnings...)
		warn = append(warn, Warning{
			Kind:   WarnZeroPooledTotal,
			UnitID: unitID,
			Detail: fmt.Sprintf("pooled %s consumption is zero, unit price undefined", u.Category.Label()),
		})
		return decimal.Zero, warn, false
	}
	unitPrice := amount.Div(u.Pooled)
	return RoundMoney(unitPrice.Mul(uc.Delta)), uc.Warnings, true
}

// Delta returns the unit's resolved delta, if it has one.
func (u ConsumptionUsage) Delta(unitID string) (decimal.Decimal, bool) {
	uc, ok := u.byUnit[unitID]
	if !ok {
		return decimal.Zero, false
	}
	return uc.Delta, true
}

// Warnings returns pool-level warnings gathered while resolving.
func (u ConsumptionUsage) Warnings() []Warning {
	return u.warnings
}
