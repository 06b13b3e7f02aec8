package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "condo-billing/internal/billing/domain"
)

func reading(meterID string, period billing.Period, value string) billing.MeterReading {
	return billing.MeterReading{MeterID: meterID, Period: period, Value: billing.MustMoney(value)}
}

func TestResolve_MissingReadingExcludedFromPool(t *testing.T) {
	units := []billing.Unit{
		meteredUnit("u1", "m1", billing.MeterColdWater),
		meteredUnit("u2", "m2", billing.MeterColdWater),
	}
	period := billing.Period{Month: time.April, Year: 2024}
	current := map[string]billing.MeterReading{
		"m1": reading("m1", period, "120"),
		// m2 has no current reading this month
	}
	previous := map[string]billing.MeterReading{
		"m1": reading("m1", period.Previous(), "100"),
		"m2": reading("m2", period.Previous(), "50"),
	}

	usage := billing.ConsumptionResolver{}.Resolve(units, billing.MeterColdWater, current, previous)

	assert.True(t, usage.Pooled.Equal(billing.MustMoney("20")))

	_, ok := usage.Delta("u2")
	assert.False(t, ok, "unit without both readings must not have a delta")

	require.Len(t, usage.Warnings(), 1)
	assert.Equal(t, billing.WarnMissingReading, usage.Warnings()[0].Kind)
	assert.Equal(t, "u2", usage.Warnings()[0].UnitID)

	_, _, charged := usage.Charge(billing.MustMoney("100"), "u2")
	assert.False(t, charged)
}

func TestResolve_NegativeDeltaWarnedNotClamped(t *testing.T) {
	units := []billing.Unit{
		meteredUnit("u1", "m1", billing.MeterGas),
		meteredUnit("u2", "m2", billing.MeterGas),
	}
	period := billing.Period{Month: time.April, Year: 2024}
	current := map[string]billing.MeterReading{
		"m1": reading("m1", period, "95"),
		"m2": reading("m2", period, "160"),
	}
	previous := map[string]billing.MeterReading{
		"m1": reading("m1", period.Previous(), "100"),
		"m2": reading("m2", period.Previous(), "100"),
	}

	usage := billing.ConsumptionResolver{}.Resolve(units, billing.MeterGas, current, previous)

	delta, ok := usage.Delta("u1")
	require.True(t, ok)
	assert.True(t, delta.Equal(billing.MustMoney("-5")), "delta kept as recorded, got %s", delta)
	assert.True(t, usage.Pooled.Equal(billing.MustMoney("55")))

	_, warnings, charged := usage.Charge(billing.MustMoney("110"), "u1")
	require.True(t, charged)
	require.Len(t, warnings, 1)
	assert.Equal(t, billing.WarnNonMonotonicReading, warnings[0].Kind)
}

func TestCharge_ZeroPooledTotal(t *testing.T) {
	units := []billing.Unit{meteredUnit("u1", "m1", billing.MeterHotWater)}
	period := billing.Period{Month: time.April, Year: 2024}
	current := map[string]billing.MeterReading{"m1": reading("m1", period, "100")}
	previous := map[string]billing.MeterReading{"m1": reading("m1", period.Previous(), "100")}

	usage := billing.ConsumptionResolver{}.Resolve(units, billing.MeterHotWater, current, previous)
	require.True(t, usage.Pooled.IsZero())

	amount, warnings, charged := usage.Charge(billing.MustMoney("500"), "u1")
	assert.False(t, charged, "zero pooled total must not produce a charge line")
	assert.True(t, amount.IsZero())
	require.Len(t, warnings, 1)
	assert.Equal(t, billing.WarnZeroPooledTotal, warnings[0].Kind)
}

func TestResolve_UnmeteredUnitIgnored(t *testing.T) {
	units := []billing.Unit{
		meteredUnit("u1", "m1", billing.MeterElectricity),
		unit("u2", "1", 1),
	}
	period := billing.Period{Month: time.April, Year: 2024}
	current := map[string]billing.MeterReading{"m1": reading("m1", period, "130")}
	previous := map[string]billing.MeterReading{"m1": reading("m1", period.Previous(), "100")}

	usage := billing.ConsumptionResolver{}.Resolve(units, billing.MeterElectricity, current, previous)

	assert.True(t, usage.Pooled.Equal(billing.MustMoney("30")))
	assert.Empty(t, usage.Warnings(), "a unit with no meter for the category is not a warning")
	_, ok := usage.Delta("u2")
	assert.False(t, ok)
}
