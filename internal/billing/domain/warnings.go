package billing

import "fmt"

// Warning kinds attached to charge lines or units. Warnings record
// data-quality problems that must not fail a billing run.
const (
	WarnNonMonotonicReading = "non_monotonic_reading"
	WarnMissingReading      = "missing_reading"
	WarnZeroPooledTotal     = "zero_pooled_consumption"
)

// Warning is a non-fatal data-quality note produced during calculation.
type Warning struct {
	Kind   string
	UnitID string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s unit=%s: %s", w.Kind, w.UnitID, w.Detail)
}
