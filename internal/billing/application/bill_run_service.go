package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	billing "condo-billing/internal/billing/domain"
	"condo-billing/internal/observability/metrics"
)

// RunRequest identifies one billing run. An empty UnitIDs bills every
// active unit of the association.
type RunRequest struct {
	AssociationID string
	Month         time.Month
	Year          int
	UnitIDs       []string
}

// UnitFailure reports one unit excluded from a run.
type UnitFailure struct {
	UnitID string
	Err    error
}

// RunResult is the outcome of one billing run: the assembled bills plus
// the batch summary of spec outputs.
type RunResult struct {
	AssociationID string
	Period        billing.Period
	DueDate       time.Time
	Bills         []billing.Bill
	UnitsBilled   int
	GrandTotal    decimal.Decimal
	Failures      []UnitFailure
	Warnings      []billing.Warning
}

// BillRunService assembles one immutable bill per unit for a billing
// period. Parameter validation fails the whole batch before any unit is
// touched; a failure on one unit skips that unit and the batch continues.
type BillRunService struct {
	associations AssociationStore
	units        UnitStore
	expenses     ExpenseStore
	readings     MeterReadingStore
	bills        BillStore
	payments     PaymentStore
	funds        FundStore
	clock        Clock

	apportion  billing.ApportionmentEngine
	consume    billing.ConsumptionResolver
	aggregator billing.ArrearsAggregator
	penalty    billing.PenaltyCalculator
}

// NewBillRunService constructs the service.
func NewBillRunService(
	associations AssociationStore,
	units UnitStore,
	expenses ExpenseStore,
	readings MeterReadingStore,
	bills BillStore,
	payments PaymentStore,
	funds FundStore,
	clock Clock,
) (*BillRunService, error) {
	if associations == nil {
		return nil, errors.New("bill run service: nil association store")
	}
	if units == nil {
		return nil, errors.New("bill run service: nil unit store")
	}
	if expenses == nil {
		return nil, errors.New("bill run service: nil expense store")
	}
	if readings == nil {
		return nil, errors.New("bill run service: nil meter reading store")
	}
	if bills == nil {
		return nil, errors.New("bill run service: nil bill store")
	}
	if payments == nil {
		return nil, errors.New("bill run service: nil payment store")
	}
	if funds == nil {
		return nil, errors.New("bill run service: nil fund store")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &BillRunService{
		associations: associations,
		units:        units,
		expenses:     expenses,
		readings:     readings,
		bills:        bills,
		payments:     payments,
		funds:        funds,
		clock:        clock,
		apportion:    billing.NewApportionmentEngine(),
	}, nil
}

// Run executes one billing run.
func (s *BillRunService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveBillingRun(result, time.Since(start))
	}()

	run, err := s.run(ctx, req)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	metrics.AddBillsGenerated(run.UnitsBilled)
	metrics.AddUnitFailures(len(run.Failures))
	return run, nil
}

func (s *BillRunService) run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.AssociationID == "" {
		return nil, billing.ErrEmptyAssociationID
	}
	period, err := billing.NewPeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}

	assoc, err := s.associations.Get(ctx, req.AssociationID)
	if err != nil {
		return nil, err
	}
	if assoc == nil {
		return nil, billing.ErrEmptyAssociationID
	}
	if err := assoc.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dueDate := period.DueDate(assoc.DueDay)
	if dueDate.Before(now) {
		// Running late: never issue an already-overdue bill. The rolled
		// date goes through the next period's clamping, so due day 31
		// lands on February 29, not March 2.
		dueDate = period.Next().DueDate(assoc.DueDay)
	}

	units, err := s.units.ListActive(ctx, req.AssociationID, req.UnitIDs)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, billing.ErrNoUnits
	}

	expenses, err := s.expenses.ListForPeriod(ctx, req.AssociationID, period)
	if err != nil {
		return nil, err
	}
	funds, err := s.funds.ListByAssociation(ctx, req.AssociationID)
	if err != nil {
		return nil, err
	}
	usages, err := s.resolveUsages(ctx, req.AssociationID, period, units, expenses)
	if err != nil {
		return nil, err
	}

	run := &RunResult{
		AssociationID: req.AssociationID,
		Period:        period,
		DueDate:       dueDate,
		GrandTotal:    decimal.Zero,
	}

	apportionments := make([]billing.Apportionment, 0, len(expenses))
	for _, expense := range expenses {
		allocated, err := s.apportion.Allocate(expense, units, usages[expense.MeterCategory])
		if err != nil {
			return nil, err
		}
		run.Warnings = append(run.Warnings, allocated.Warnings...)
		apportionments = append(apportionments, allocated)
	}

	for _, unit := range units {
		bill, err := s.assembleUnit(ctx, assoc, unit, period, dueDate, now, apportionments, funds)
		if err != nil {
			run.Failures = append(run.Failures, UnitFailure{UnitID: unit.ID, Err: err})
			continue
		}
		run.Bills = append(run.Bills, *bill)
		run.GrandTotal = run.GrandTotal.Add(bill.Total)
	}
	run.UnitsBilled = len(run.Bills)
	return run, nil
}

// assembleUnit builds and persists one unit's bill. The receipt number is
// reserved eagerly; a failure past that point leaves a permanent gap in
// the sequence.
func (s *BillRunService) assembleUnit(
	ctx context.Context,
	assoc *billing.Association,
	unit billing.Unit,
	period billing.Period,
	dueDate, now time.Time,
	apportionments []billing.Apportionment,
	funds []billing.Fund,
) (*billing.Bill, error) {
	number, err := s.associations.ReserveNextReceiptNumber(ctx, assoc.ID)
	if err != nil {
		return nil, fmt.Errorf("reserve receipt number: %w", err)
	}

	bill := &billing.Bill{
		ID:            buildBillID(assoc.ID, unit.ID, period),
		AssociationID: assoc.ID,
		UnitID:        unit.ID,
		ReceiptNumber: number,
		Period:        period,
		Status:        billing.BillStatusUnpaid,
		DueDate:       dueDate,
		CreatedAt:     now,
	}

	maintenance := decimal.Zero
	for _, allocated := range apportionments {
		line, ok := allocated.Lines[unit.ID]
		if !ok {
			continue
		}
		bill.Lines = append(bill.Lines, line)
		maintenance = maintenance.Add(line.Amount)
	}

	open, err := s.bills.ListOpenByUnit(ctx, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("load prior bills: %w", err)
	}
	// A re-run replaces the current period's bill; it is history for
	// later months, not arrears for its own.
	var priorBills []billing.Bill
	for _, prior := range open {
		if prior.Period == period {
			continue
		}
		priorBills = append(priorBills, prior)
	}
	paymentsByBill := make(map[string][]billing.Payment, len(priorBills))
	for _, prior := range priorBills {
		payments, err := s.payments.ListConfirmedByBill(ctx, prior.ID)
		if err != nil {
			return nil, fmt.Errorf("load payments for bill %s: %w", prior.ID, err)
		}
		paymentsByBill[prior.ID] = payments
	}
	arrears := s.aggregator.Aggregate(priorBills, paymentsByBill)
	penalty := s.penalty.Accrue(arrears.Outstanding, assoc.PenaltyDailyRate, arrears.OldestDueDate, now)

	fundTotal := decimal.Zero
	for _, fund := range funds {
		if fund.MonthlyAmount.IsZero() {
			continue
		}
		amount := billing.RoundMoney(fund.MonthlyAmount)
		bill.Lines = append(bill.Lines, billing.BillLine{
			ExpenseID: fund.ID,
			Label:     fund.Name,
			Basis:     billing.BasisFund,
			Amount:    amount,
		})
		fundTotal = fundTotal.Add(amount)
	}

	bill.Maintenance = billing.RoundMoney(maintenance)
	bill.Arrears = billing.RoundMoney(arrears.Outstanding)
	bill.Penalty = penalty
	bill.Funds = fundTotal
	bill.Total = billing.RoundMoney(bill.Maintenance.Add(bill.Arrears).Add(bill.Penalty).Add(bill.Funds))

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("persist bill: %w", err)
	}
	return bill, nil
}

// resolveUsages loads current and prior period readings once and resolves
// pooled consumption for every meter category referenced by a metered
// expense.
func (s *BillRunService) resolveUsages(
	ctx context.Context,
	associationID string,
	period billing.Period,
	units []billing.Unit,
	expenses []billing.Expense,
) (map[billing.MeterCategory]billing.ConsumptionUsage, error) {
	usages := make(map[billing.MeterCategory]billing.ConsumptionUsage)

	metered := false
	for _, expense := range expenses {
		if expense.IsMetered() {
			metered = true
			break
		}
	}
	if !metered {
		return usages, nil
	}

	current, err := s.readings.ReadingsForPeriod(ctx, associationID, period)
	if err != nil {
		return nil, err
	}
	previous, err := s.readings.ReadingsForPeriod(ctx, associationID, period.Previous())
	if err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		if !expense.IsMetered() {
			continue
		}
		if _, done := usages[expense.MeterCategory]; done {
			continue
		}
		usages[expense.MeterCategory] = s.consume.Resolve(units, expense.MeterCategory, current, previous)
	}
	return usages, nil
}

func buildBillID(associationID, unitID string, period billing.Period) string {
	base := associationID + "|" + unitID + "|" + period.String()
	hash := sha256.Sum256([]byte(base))
	return "bill-" + hex.EncodeToString(hash[:8])
}
