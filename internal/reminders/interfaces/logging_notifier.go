package interfaces

import (
	"context"
	"errors"
	"log"

	"condo-billing/internal/reminders/application"
)

// LoggingNotifier logs reminder emissions. Actual email/SMS delivery is a
// host-application concern behind the same Notifier contract.
type LoggingNotifier struct {
	logger *log.Logger
}

// NewLoggingNotifier constructs a logging notifier.
func NewLoggingNotifier(logger *log.Logger) *LoggingNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingNotifier{logger: logger}
}

// Notify logs the reminder decision.
func (n *LoggingNotifier) Notify(ctx context.Context, reminder application.Reminder) error {
	_ = ctx
	if n == nil {
		return errors.New("reminder notifier: nil notifier")
	}
	n.logger.Printf("reminder: bill=%s unit=%s tier=%s days_late=%d message=%q",
		reminder.BillID, reminder.UnitID, reminder.Tier, reminder.DaysLate, reminder.Message)
	return nil
}
