package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// AssociationRepository loads association settings and owns the receipt
// number sequence.
type AssociationRepository struct {
	db *sql.DB
}

// NewAssociationRepository constructs a repository.
func NewAssociationRepository(db *sql.DB) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// Get fetches one association, or nil when absent.
func (r *AssociationRepository) Get(ctx context.Context, associationID string) (*billing.Association, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("association repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, due_day, penalty_daily_rate, last_receipt_number
FROM associations
WHERE id = $1
LIMIT 1`, associationID)

	var assoc billing.Association
	var rate string
	err := row.Scan(&assoc.ID, &assoc.Name, &assoc.DueDay, &rate, &assoc.LastReceiptNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	assoc.PenaltyDailyRate, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	return &assoc, nil
}

// ReserveNextReceiptNumber atomically increments the association's
// receipt counter and returns the reserved number. The increment commits
// immediately; a later bill-assembly failure leaves a gap in the sequence
// rather than rolling the reservation back.
func (r *AssociationRepository) ReserveNextReceiptNumber(ctx context.Context, associationID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("association repo: nil db")
	}
	var number int64
	err := r.db.QueryRowContext(ctx, `
UPDATE associations
SET last_receipt_number = last_receipt_number + 1
WHERE id = $1
RETURNING last_receipt_number`, associationID).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, billing.ErrEmptyAssociationID
		}
		return 0, err
	}
	return number, nil
}
