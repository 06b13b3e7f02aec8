package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// ExpenseRepository loads recorded expenses for a billing period.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository constructs a repository.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListForPeriod returns the association's expenses for a billing month.
func (r *ExpenseRepository) ListForPeriod(ctx context.Context, associationID string, period billing.Period) ([]billing.Expense, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("expense repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, association_id, category, amount, basis, billing_month, billing_year, meter_category
FROM expenses
WHERE association_id = $1 AND billing_month = $2 AND billing_year = $3
ORDER BY category ASC`, associationID, int(period.Month), period.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []billing.Expense
	for rows.Next() {
		var expense billing.Expense
		var amount string
		var basis string
		var month, year int
		var meterCategory sql.NullString
		if err := rows.Scan(&expense.ID, &expense.AssociationID, &expense.Category, &amount, &basis, &month, &year, &meterCategory); err != nil {
			return nil, err
		}
		expense.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		expense.Basis = billing.AllocationBasis(basis)
		expense.Period = billing.Period{Month: time.Month(month), Year: year}
		if meterCategory.Valid {
			expense.MeterCategory = billing.MeterCategory(meterCategory.String)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}
