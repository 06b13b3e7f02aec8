package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "condo-billing/internal/billing/domain"
)

func TestNewPeriod(t *testing.T) {
	period, err := billing.NewPeriod(time.February, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", period.String())

	_, err = billing.NewPeriod(time.Month(13), 2024)
	assert.ErrorIs(t, err, billing.ErrInvalidPeriod)

	_, err = billing.NewPeriod(time.January, 0)
	assert.ErrorIs(t, err, billing.ErrInvalidPeriod)
}

func TestPeriodPrevious_WrapsYear(t *testing.T) {
	period := billing.Period{Month: time.January, Year: 2024}
	prev := period.Previous()
	assert.Equal(t, time.December, prev.Month)
	assert.Equal(t, 2023, prev.Year)
}

func TestPeriodNext_WrapsYear(t *testing.T) {
	period := billing.Period{Month: time.December, Year: 2023}
	next := period.Next()
	assert.Equal(t, time.January, next.Month)
	assert.Equal(t, 2024, next.Year)

	assert.Equal(t, billing.Period{Month: time.February, Year: 2024}, billing.Period{Month: time.January, Year: 2024}.Next())
}

func TestPeriodDueDate_ClampsToMonthLength(t *testing.T) {
	feb := billing.Period{Month: time.February, Year: 2023}
	assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), feb.DueDate(31))

	leapFeb := billing.Period{Month: time.February, Year: 2024}
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), leapFeb.DueDate(31))

	april := billing.Period{Month: time.April, Year: 2024}
	assert.Equal(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), april.DueDate(15))
}
