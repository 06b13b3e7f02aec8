package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
	"condo-billing/internal/observability/metrics"
	reminders "condo-billing/internal/reminders/domain"
)

// AssociationSource provides the association settings a sweep needs.
type AssociationSource interface {
	Get(ctx context.Context, associationID string) (*billing.Association, error)
}

// OpenBillSource lists bills that may still need reminders.
type OpenBillSource interface {
	ListOpenByAssociation(ctx context.Context, associationID string) ([]billing.Bill, error)
}

// PaymentSource fetches confirmed payments applied against a bill.
type PaymentSource interface {
	ListConfirmedByBill(ctx context.Context, billID string) ([]billing.Payment, error)
}

// ReminderLog answers whether a reminder already went out today and
// records the ones that do.
type ReminderLog interface {
	WasSentToday(ctx context.Context, billID string, day time.Time) (bool, error)
	RecordSent(ctx context.Context, billID string, day time.Time, tier string) error
}

// Notifier delivers a reminder to the outside world.
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Reminder is one decision for one bill on one day.
type Reminder struct {
	BillID        string
	UnitID        string
	ReceiptNumber int64
	Tier          reminders.Tier
	DaysLate      int
	Outstanding   decimal.Decimal
	Penalty       decimal.Decimal
	Message       string
	ShouldSend    bool
}

// ReminderService recomputes reminder decisions for an association's open
// bills. At most one reminder per bill per calendar day leaves the
// service; the sent log is consulted before every emission.
type ReminderService struct {
	associations AssociationSource
	bills        OpenBillSource
	payments     PaymentSource
	log          ReminderLog
	notifier     Notifier
	clock        Clock
	schedule     reminders.Schedule
	penalty      billing.PenaltyCalculator
}

// NewReminderService constructs the service.
func NewReminderService(
	associations AssociationSource,
	bills OpenBillSource,
	payments PaymentSource,
	log ReminderLog,
	notifier Notifier,
	clock Clock,
	schedule reminders.Schedule,
) (*ReminderService, error) {
	if associations == nil {
		return nil, errors.New("reminder service: nil association source")
	}
	if bills == nil {
		return nil, errors.New("reminder service: nil bill source")
	}
	if payments == nil {
		return nil, errors.New("reminder service: nil payment source")
	}
	if log == nil {
		return nil, errors.New("reminder service: nil reminder log")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if len(schedule.BeforeDueOffsets) == 0 && schedule.DailyThrough == 0 {
		schedule = reminders.DefaultSchedule()
	}
	return &ReminderService{
		associations: associations,
		bills:        bills,
		payments:     payments,
		log:          log,
		notifier:     notifier,
		clock:        clock,
		schedule:     schedule,
	}, nil
}

// Sweep evaluates every open bill of the association for today and emits
// the reminders that are due. It returns the full decision set, including
// bills that were evaluated but not emitted.
func (s *ReminderService) Sweep(ctx context.Context, associationID string) ([]Reminder, error) {
	if associationID == "" {
		return nil, billing.ErrEmptyAssociationID
	}
	assoc, err := s.associations.Get(ctx, associationID)
	if err != nil {
		return nil, err
	}
	if assoc == nil {
		return nil, billing.ErrEmptyAssociationID
	}

	bills, err := s.bills.ListOpenByAssociation(ctx, associationID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now()
	var decisions []Reminder
	for _, bill := range bills {
		payments, err := s.payments.ListConfirmedByBill(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		outstanding := bill.Outstanding(payments)
		if !outstanding.IsPositive() {
			continue
		}

		daysLate := reminders.DaysLate(bill.DueDate, today)
		tier, emit := s.schedule.Decide(daysLate)
		if tier == reminders.TierNone {
			continue
		}

		penalty := s.penalty.Accrue(outstanding, assoc.PenaltyDailyRate, bill.DueDate, today)
		decision := Reminder{
			BillID:        bill.ID,
			UnitID:        bill.UnitID,
			ReceiptNumber: bill.ReceiptNumber,
			Tier:          tier,
			DaysLate:      daysLate,
			Outstanding:   outstanding,
			Penalty:       penalty,
			ShouldSend:    emit,
		}
		decision.Message = renderMessage(bill, decision)

		if emit {
			sent, err := s.log.WasSentToday(ctx, bill.ID, today)
			if err != nil {
				return nil, err
			}
			if sent {
				metrics.IncReminderSkipped()
				decision.ShouldSend = false
			}
		}

		if decision.ShouldSend {
			if s.notifier != nil {
				if err := s.notifier.Notify(ctx, decision); err != nil {
					return nil, err
				}
			}
			if err := s.log.RecordSent(ctx, bill.ID, today, string(tier)); err != nil {
				return nil, err
			}
			metrics.IncReminderDecision(string(tier))
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

func renderMessage(bill billing.Bill, d Reminder) string {
	switch d.Tier {
	case reminders.TierBeforeDue:
		return fmt.Sprintf("Receipt #%d for %s is due in %d day(s): %s outstanding.",
			bill.ReceiptNumber, bill.Period, -d.DaysLate, d.Outstanding.StringFixed(2))
	case reminders.TierOnDue:
		return fmt.Sprintf("Receipt #%d for %s is due today: %s outstanding.",
			bill.ReceiptNumber, bill.Period, d.Outstanding.StringFixed(2))
	default:
		return fmt.Sprintf("Receipt #%d for %s is %d day(s) overdue: %s outstanding, %s penalty accrued.",
			bill.ReceiptNumber, bill.Period, d.DaysLate, d.Outstanding.StringFixed(2), d.Penalty.StringFixed(2))
	}
}
