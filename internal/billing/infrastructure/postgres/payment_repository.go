package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// PaymentRepository loads payments applied against bills.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository constructs a repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListConfirmedByBill returns the confirmed payments for one bill.
func (r *PaymentRepository) ListConfirmedByBill(ctx context.Context, billID string) ([]billing.Payment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, bill_id, amount, confirmed, paid_at
FROM payments
WHERE bill_id = $1 AND confirmed = TRUE
ORDER BY paid_at ASC`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []billing.Payment
	for rows.Next() {
		var payment billing.Payment
		var amount string
		var paidAt sql.NullTime
		if err := rows.Scan(&payment.ID, &payment.BillID, &amount, &payment.Confirmed, &paidAt); err != nil {
			return nil, err
		}
		payment.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		if paidAt.Valid {
			payment.PaidAt = paidAt.Time.UTC()
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
