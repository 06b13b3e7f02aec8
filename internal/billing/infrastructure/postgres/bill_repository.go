package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
)

// BillRepository persists assembled bills and loads historical ones.
// Data-quality warnings are reporting output and are not persisted with
// the lines.
type BillRepository struct {
	db *sql.DB
}

// NewBillRepository constructs a repository.
func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create inserts a bill and its lines in one transaction.
func (r *BillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	if r == nil || r.db == nil {
		return errors.New("bill repo: nil db")
	}
	if bill == nil {
		return billing.ErrNilBill
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO bills (
	id, association_id, unit_id, receipt_number, billing_month, billing_year,
	status, maintenance, arrears, penalty, funds, total, due_date, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		bill.ID, bill.AssociationID, bill.UnitID, bill.ReceiptNumber,
		int(bill.Period.Month), bill.Period.Year, bill.Status,
		bill.Maintenance.String(), bill.Arrears.String(), bill.Penalty.String(),
		bill.Funds.String(), bill.Total.String(), bill.DueDate, bill.CreatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for position, line := range bill.Lines {
		_, err := tx.ExecContext(ctx, `
INSERT INTO bill_lines (bill_id, position, expense_id, label, basis, amount)
VALUES ($1,$2,$3,$4,$5,$6)`,
			bill.ID, position, line.ExpenseID, line.Label, string(line.Basis), line.Amount.String())
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get fetches one bill by id, without its lines.
func (r *BillRepository) Get(ctx context.Context, billID string) (*billing.Bill, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("bill repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, association_id, unit_id, receipt_number, billing_month, billing_year,
	status, maintenance, arrears, penalty, funds, total, due_date, created_at
FROM bills
WHERE id = $1
LIMIT 1`, billID)
	bill, err := scanBill(row)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billing.ErrBillNotFound
	}
	return bill, nil
}

// ListOpenByUnit returns a unit's bills still carrying a balance.
func (r *BillRepository) ListOpenByUnit(ctx context.Context, unitID string) ([]billing.Bill, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("bill repo: nil db")
	}
	return r.list(ctx, `
SELECT id, association_id, unit_id, receipt_number, billing_month, billing_year,
	status, maintenance, arrears, penalty, funds, total, due_date, created_at
FROM bills
WHERE unit_id = $1 AND status IN ('unpaid','sent','partially_paid')
ORDER BY due_date ASC`, unitID)
}

// ListOpenByAssociation returns all open bills of an association, used by
// the reminder sweep.
func (r *BillRepository) ListOpenByAssociation(ctx context.Context, associationID string) ([]billing.Bill, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("bill repo: nil db")
	}
	return r.list(ctx, `
SELECT id, association_id, unit_id, receipt_number, billing_month, billing_year,
	status, maintenance, arrears, penalty, funds, total, due_date, created_at
FROM bills
WHERE association_id = $1 AND status IN ('unpaid','sent','partially_paid')
ORDER BY due_date ASC`, associationID)
}

func (r *BillRepository) list(ctx context.Context, query string, arg any) ([]billing.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []billing.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bills, nil
}

// ListLines returns a bill's itemized lines in insertion order.
func (r *BillRepository) ListLines(ctx context.Context, billID string) ([]billing.BillLine, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("bill repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT expense_id, label, basis, amount
FROM bill_lines
WHERE bill_id = $1
ORDER BY position ASC`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []billing.BillLine
	for rows.Next() {
		var line billing.BillLine
		var basis string
		var amount string
		if err := rows.Scan(&line.ExpenseID, &line.Label, &basis, &amount); err != nil {
			return nil, err
		}
		line.Basis = billing.AllocationBasis(basis)
		line.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*billing.Bill, error) {
	var bill billing.Bill
	var month, year int
	var maintenance, arrears, penalty, funds, total string
	err := row.Scan(
		&bill.ID,
		&bill.AssociationID,
		&bill.UnitID,
		&bill.ReceiptNumber,
		&month,
		&year,
		&bill.Status,
		&maintenance,
		&arrears,
		&penalty,
		&funds,
		&total,
		&bill.DueDate,
		&bill.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	bill.Period = billing.Period{Month: time.Month(month), Year: year}
	if bill.Maintenance, err = decimal.NewFromString(maintenance); err != nil {
		return nil, err
	}
	if bill.Arrears, err = decimal.NewFromString(arrears); err != nil {
		return nil, err
	}
	if bill.Penalty, err = decimal.NewFromString(penalty); err != nil {
		return nil, err
	}
	if bill.Funds, err = decimal.NewFromString(funds); err != nil {
		return nil, err
	}
	if bill.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	bill.DueDate = bill.DueDate.UTC()
	bill.CreatedAt = bill.CreatedAt.UTC()
	return &bill, nil
}
