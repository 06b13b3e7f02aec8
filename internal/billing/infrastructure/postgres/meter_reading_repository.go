package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// MeterReadingRepository loads recorded meter readings.
type MeterReadingRepository struct {
	db *sql.DB
}

// NewMeterReadingRepository constructs a repository.
func NewMeterReadingRepository(db *sql.DB) *MeterReadingRepository {
	return &MeterReadingRepository{db: db}
}

// ReadingsForPeriod returns the association's readings for a billing
// month, keyed by meter id.
func (r *MeterReadingRepository) ReadingsForPeriod(ctx context.Context, associationID string, period billing.Period) (map[string]billing.MeterReading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("meter reading repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT mr.meter_id, mr.billing_month, mr.billing_year, mr.value
FROM meter_readings mr
JOIN meters m ON m.id = mr.meter_id
JOIN units u ON u.id = m.unit_id
WHERE u.association_id = $1 AND mr.billing_month = $2 AND mr.billing_year = $3`,
		associationID, int(period.Month), period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make(map[string]billing.MeterReading)
	for rows.Next() {
		var reading billing.MeterReading
		var month, year int
		var value string
		if err := rows.Scan(&reading.MeterID, &month, &year, &value); err != nil {
			return nil, err
		}
		reading.Value, err = decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}
		reading.Period = billing.Period{Month: time.Month(month), Year: year}
		readings[reading.MeterID] = reading
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}
