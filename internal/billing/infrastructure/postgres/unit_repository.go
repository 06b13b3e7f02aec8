package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// UnitRepository loads units with shares, occupant counts and meters.
type UnitRepository struct {
	db *sql.DB
}

// NewUnitRepository constructs a repository.
func NewUnitRepository(db *sql.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// ListActive returns the association's active units, restricted to
// unitIDs when non-empty. Meters are attached in one follow-up query.
func (r *UnitRepository) ListActive(ctx context.Context, associationID string, unitIDs []string) ([]billing.Unit, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("unit repo: nil db")
	}

	query := `
SELECT id, association_id, label, ownership_share, occupants
FROM units
WHERE association_id = $1 AND active = TRUE`
	args := []any{associationID}
	if len(unitIDs) > 0 {
		placeholders := make([]string, 0, len(unitIDs))
		for _, id := range unitIDs {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += " AND id IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY label ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []billing.Unit
	index := make(map[string]int)
	for rows.Next() {
		var unit billing.Unit
		var share string
		var occupants sql.NullInt64
		if err := rows.Scan(&unit.ID, &unit.AssociationID, &unit.Label, &share, &occupants); err != nil {
			return nil, err
		}
		unit.OwnershipShare, err = decimal.NewFromString(share)
		if err != nil {
			return nil, err
		}
		if occupants.Valid {
			unit.Occupants = int(occupants.Int64)
		}
		unit.Active = true
		index[unit.ID] = len(units)
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}

	meterRows, err := r.db.QueryContext(ctx, `
SELECT m.id, m.unit_id, m.category
FROM meters m
JOIN units u ON u.id = m.unit_id
WHERE u.association_id = $1`, associationID)
	if err != nil {
		return nil, err
	}
	defer meterRows.Close()

	for meterRows.Next() {
		var meter billing.Meter
		var category string
		if err := meterRows.Scan(&meter.ID, &meter.UnitID, &category); err != nil {
			return nil, err
		}
		meter.Category = billing.MeterCategory(category)
		if i, ok := index[meter.UnitID]; ok {
			units[i].Meters = append(units[i].Meters, meter)
		}
	}
	if err := meterRows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}
