package billing

import "github.com/shopspring/decimal"

// ApportionmentEngine splits one expense across all units of an
// association using the expense's allocation basis. Every per-unit amount
// is rounded to 2 decimals half up; the sum of rounded amounts may drift
// from the expense total by a few cents and that drift is accepted.
type ApportionmentEngine struct {
	consumption ConsumptionResolver
}

// NewApportionmentEngine constructs the engine.
func NewApportionmentEngine() ApportionmentEngine {
	return ApportionmentEngine{consumption: ConsumptionResolver{}}
}

// Apportionment is the result of allocating one expense.
type Apportionment struct {
	ExpenseID string
	Lines     map[string]BillLine
	Warnings  []Warning
}

// Allocate computes each unit's share of the expense. Metered expenses
// need the resolved consumption usage for the expense's meter category;
// the other bases ignore it. Zero-amount lines are omitted.
func (e ApportionmentEngine) Allocate(expense Expense, units []Unit, usage ConsumptionUsage) (Apportionment, error) {
	result := Apportionment{
		ExpenseID: expense.ID,
		Lines:     make(map[string]BillLine, len(units)),
	}
	if len(units) == 0 {
		return result, ErrNoUnits
	}

	switch expense.Basis {
	case ByShare:
		denominator := decimal.Zero
		for _, unit := range units {
			denominator = denominator.Add(unit.OwnershipShare)
		}
		if denominator.IsZero() {
			// Degrade to an equal split rather than divide by zero.
			denominator = decimal.NewFromInt(int64(len(units)))
			for _, unit := range units {
				result.addLine(expense, unit.ID, RoundMoney(expense.Amount.Div(denominator)), nil)
			}
			return result, nil
		}
		for _, unit := range units {
			amount := RoundMoney(expense.Amount.Mul(unit.OwnershipShare).Div(denominator))
			result.addLine(expense, unit.ID, amount, nil)
		}

	case ByOccupants:
		total := int64(0)
		for _, unit := range units {
			total += int64(unit.BillableOccupants())
		}
		denominator := decimal.NewFromInt(total)
		for _, unit := range units {
			occupants := decimal.NewFromInt(int64(unit.BillableOccupants()))
			amount := RoundMoney(expense.Amount.Mul(occupants).Div(denominator))
			result.addLine(expense, unit.ID, amount, nil)
		}

	case ByUnitCount:
		amount := RoundMoney(expense.Amount.Div(decimal.NewFromInt(int64(len(units)))))
		for _, unit := range units {
			result.addLine(expense, unit.ID, amount, nil)
		}

	case ByConsumption:
		result.Warnings = append(result.Warnings, usage.Warnings()...)
		for _, unit := range units {
			amount, warnings, ok := usage.Charge(expense.Amount, unit.ID)
			if !ok {
				result.Warnings = append(result.Warnings, warnings...)
				continue
			}
			result.addLine(expense, unit.ID, amount, warnings)
		}

	default:
		return result, ErrUnknownBasis
	}
	return result, nil
}

func (a *Apportionment) addLine(expense Expense, unitID string, amount decimal.Decimal, warnings []Warning) {
	if amount.IsZero() {
		return
	}
	label := expense.Category
	if expense.IsMetered() && expense.MeterCategory.Valid() {
		label = expense.MeterCategory.Label()
	}
	a.Lines[unitID] = BillLine{
		ExpenseID: expense.ID,
		Label:     label,
		Basis:     expense.Basis,
		Amount:    amount,
		Warnings:  warnings,
	}
}
