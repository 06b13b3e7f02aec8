package billing

import (
	"fmt"
	"time"
)

// Period identifies a billing month.
type Period struct {
	Month time.Month
	Year  int
}

// NewPeriod validates and builds a billing period.
func NewPeriod(month time.Month, year int) (Period, error) {
	if month < time.January || month > time.December || year < 1 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: month, Year: year}, nil
}

// Previous returns the immediately preceding calendar month.
// January wraps to December of the previous year.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Month: time.December, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Next returns the immediately following calendar month.
// December wraps to January of the next year.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Month: time.January, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// DueDate resolves the period's due date for the given due day of month.
// The due day is clamped to the last day of the month, so a due day of 31
// resolves to February 28/29 rather than spilling into March.
func (p Period) DueDate(dueDay int) time.Time {
	last := p.Start().AddDate(0, 1, -1).Day()
	if dueDay > last {
		dueDay = last
	}
	return time.Date(p.Year, p.Month, dueDay, 0, 0, 0, 0, time.UTC)
}

// String returns the YYYY-MM key used in storage and exports.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}
