package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// FundRepository loads recurring funds.
type FundRepository struct {
	db *sql.DB
}

// NewFundRepository constructs a repository.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// ListByAssociation returns the association's recurring funds.
func (r *FundRepository) ListByAssociation(ctx context.Context, associationID string) ([]billing.Fund, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("fund repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, association_id, name, monthly_amount
FROM funds
WHERE association_id = $1
ORDER BY name ASC`, associationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funds []billing.Fund
	for rows.Next() {
		var fund billing.Fund
		var amount string
		if err := rows.Scan(&fund.ID, &fund.AssociationID, &fund.Name, &amount); err != nil {
			return nil, err
		}
		fund.MonthlyAmount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return funds, nil
}
