package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ReminderLogRepository records reminder emissions, one row per bill per
// calendar day.
type ReminderLogRepository struct {
	db *sql.DB
}

// NewReminderLogRepository constructs a repository.
func NewReminderLogRepository(db *sql.DB) *ReminderLogRepository {
	return &ReminderLogRepository{db: db}
}

// WasSentToday reports whether a reminder already went out for the bill
// on the given day.
func (r *ReminderLogRepository) WasSentToday(ctx context.Context, billID string, day time.Time) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("reminder log repo: nil db")
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
	SELECT 1 FROM reminder_log WHERE bill_id = $1 AND sent_on = $2
)`, billID, dateOnly(day)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// RecordSent stores the emission. The (bill, day) pair is unique, so a
// concurrent duplicate insert is a no-op.
func (r *ReminderLogRepository) RecordSent(ctx context.Context, billID string, day time.Time, tier string) error {
	if r == nil || r.db == nil {
		return errors.New("reminder log repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reminder_log (bill_id, sent_on, tier)
VALUES ($1,$2,$3)
ON CONFLICT (bill_id, sent_on) DO NOTHING`, billID, dateOnly(day), tier)
	return err
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
