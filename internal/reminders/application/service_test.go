package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	billing "condo-billing/internal/billing/domain"
	"condo-billing/internal/billing/infrastructure/memory"
	"condo-billing/internal/reminders/application"
	reminders "condo-billing/internal/reminders/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type captureNotifier struct {
	sent []application.Reminder
}

func (n *captureNotifier) Notify(ctx context.Context, reminder application.Reminder) error {
	_ = ctx
	n.sent = append(n.sent, reminder)
	return nil
}

func seedOverdueBill(stores *memory.Stores, billID string, due time.Time, total string) {
	stores.PutBill(billing.Bill{
		ID:            billID,
		AssociationID: "assoc-1",
		UnitID:        "u1",
		ReceiptNumber: 42,
		Period:        billing.Period{Month: due.Month(), Year: due.Year()},
		Status:        billing.BillStatusSent,
		Total:         billing.MustMoney(total),
		DueDate:       due,
	})
}

func newSweepService(t *testing.T, stores *memory.Stores, notifier *captureNotifier, now time.Time) *application.ReminderService {
	t.Helper()
	service, err := application.NewReminderService(
		stores, stores, stores, stores, notifier, fixedClock{now: now}, reminders.DefaultSchedule(),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestSweep_EmitsOncePerBillPerDay(t *testing.T) {
	stores := memory.NewStores()
	stores.PutAssociation(billing.Association{
		ID: "assoc-1", Name: "Linden Court", DueDay: 25,
		PenaltyDailyRate: billing.MustMoney("0.0002"),
	})
	due := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	seedOverdueBill(stores, "b1", due, "500")

	now := due.AddDate(0, 0, 3) // daily cadence
	notifier := &captureNotifier{}
	service := newSweepService(t, stores, notifier, now)
	ctx := context.Background()

	first, err := service.Sweep(ctx, "assoc-1")
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if len(first) != 1 || !first[0].ShouldSend {
		t.Fatalf("expected one emitted decision, got %+v", first)
	}
	if first[0].Tier != reminders.TierAfterDue || first[0].DaysLate != 3 {
		t.Fatalf("decision: %+v", first[0])
	}

	second, err := service.Sweep(ctx, "assoc-1")
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(second) != 1 || second[0].ShouldSend {
		t.Fatalf("same-day resweep must not emit again, got %+v", second)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(notifier.sent))
	}
}

func TestSweep_SkipsSettledBills(t *testing.T) {
	stores := memory.NewStores()
	stores.PutAssociation(billing.Association{
		ID: "assoc-1", DueDay: 25, PenaltyDailyRate: billing.MustMoney("0.0002"),
	})
	due := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	seedOverdueBill(stores, "b1", due, "500")
	stores.PutPayment(billing.Payment{ID: "p1", BillID: "b1", Amount: billing.MustMoney("500"), Confirmed: true})

	notifier := &captureNotifier{}
	service := newSweepService(t, stores, notifier, due.AddDate(0, 0, 5))

	decisions, err := service.Sweep(context.Background(), "assoc-1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(decisions) != 0 {
		t.Fatalf("settled bill must not be evaluated, got %+v", decisions)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("notifier must stay silent, sent %d", len(notifier.sent))
	}
}

func TestSweep_QuietDayReturnsDecisionWithoutEmission(t *testing.T) {
	stores := memory.NewStores()
	stores.PutAssociation(billing.Association{
		ID: "assoc-1", DueDay: 25, PenaltyDailyRate: billing.MustMoney("0.0002"),
	})
	due := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	seedOverdueBill(stores, "b1", due, "500")

	notifier := &captureNotifier{}
	// 2 days before due: between the -3 and -1 offsets.
	service := newSweepService(t, stores, notifier, due.AddDate(0, 0, -2))

	decisions, err := service.Sweep(context.Background(), "assoc-1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected one decision, got %d", len(decisions))
	}
	if decisions[0].Tier != reminders.TierBeforeDue || decisions[0].ShouldSend {
		t.Fatalf("quiet pre-due day must not emit: %+v", decisions[0])
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("notifier must stay silent, sent %d", len(notifier.sent))
	}
}

func TestSweep_OverdueMessageCarriesPenalty(t *testing.T) {
	stores := memory.NewStores()
	stores.PutAssociation(billing.Association{
		ID: "assoc-1", DueDay: 25, PenaltyDailyRate: billing.MustMoney("0.0002"),
	})
	due := time.Date(2024, time.January, 25, 0, 0, 0, 0, time.UTC)
	seedOverdueBill(stores, "b1", due, "500")

	notifier := &captureNotifier{}
	// 43 days late: first long-cycle emission day.
	service := newSweepService(t, stores, notifier, due.AddDate(0, 0, 43))

	decisions, err := service.Sweep(context.Background(), "assoc-1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(decisions) != 1 || !decisions[0].ShouldSend {
		t.Fatalf("expected one emitted decision, got %+v", decisions)
	}
	d := decisions[0]
	// 500 * 0.0002 * 43 = 4.30
	if !d.Penalty.Equal(billing.MustMoney("4.30")) {
		t.Errorf("penalty: got %s", d.Penalty)
	}
	if !strings.Contains(d.Message, "43 day(s) overdue") || !strings.Contains(d.Message, "4.30") {
		t.Errorf("message: %q", d.Message)
	}
}

func TestSweep_FarFutureBillIgnored(t *testing.T) {
	stores := memory.NewStores()
	stores.PutAssociation(billing.Association{
		ID: "assoc-1", DueDay: 25, PenaltyDailyRate: billing.MustMoney("0.0002"),
	})
	due := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	seedOverdueBill(stores, "b1", due, "500")

	notifier := &captureNotifier{}
	service := newSweepService(t, stores, notifier, due.AddDate(0, 0, -20))

	decisions, err := service.Sweep(context.Background(), "assoc-1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(decisions) != 0 {
		t.Fatalf("a bill 20 days out must not appear, got %+v", decisions)
	}
}
