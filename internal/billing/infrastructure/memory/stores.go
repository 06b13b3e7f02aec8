package memory

import (
	"context"
	"sync"
	"time"

	billing "condo-billing/internal/billing/domain"
)

// Stores is an in-memory implementation of every collaborator contract,
// used by tests and the demo wiring. All methods are safe for concurrent
// use; the receipt counter in particular is a single locked
// read-and-increment.
type Stores struct {
	mu           sync.RWMutex
	associations map[string]*billing.Association
	units        map[string][]billing.Unit
	expenses     map[string][]billing.Expense
	readings     map[string]map[string]billing.MeterReading
	bills        map[string]*billing.Bill
	payments     map[string][]billing.Payment
	funds        map[string][]billing.Fund
	reminderLog  map[string]string
}

// NewStores constructs empty stores.
func NewStores() *Stores {
	return &Stores{
		associations: make(map[string]*billing.Association),
		units:        make(map[string][]billing.Unit),
		expenses:     make(map[string][]billing.Expense),
		readings:     make(map[string]map[string]billing.MeterReading),
		bills:        make(map[string]*billing.Bill),
		payments:     make(map[string][]billing.Payment),
		funds:        make(map[string][]billing.Fund),
		reminderLog:  make(map[string]string),
	}
}

// PutAssociation stores an association.
func (s *Stores) PutAssociation(assoc billing.Association) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := assoc
	s.associations[assoc.ID] = &copy
}

// Get fetches an association, or nil when absent.
func (s *Stores) Get(ctx context.Context, associationID string) (*billing.Association, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	assoc, ok := s.associations[associationID]
	if !ok {
		return nil, nil
	}
	copy := *assoc
	return &copy, nil
}

// ReserveNextReceiptNumber increments and returns the receipt counter.
func (s *Stores) ReserveNextReceiptNumber(ctx context.Context, associationID string) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	assoc, ok := s.associations[associationID]
	if !ok {
		return 0, billing.ErrEmptyAssociationID
	}
	assoc.LastReceiptNumber++
	return assoc.LastReceiptNumber, nil
}

// PutUnit adds a unit to its association.
func (s *Stores) PutUnit(unit billing.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unit.AssociationID] = append(s.units[unit.AssociationID], unit)
}

// ListActive returns active units, restricted to unitIDs when non-empty.
func (s *Stores) ListActive(ctx context.Context, associationID string, unitIDs []string) ([]billing.Unit, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	filter := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		filter[id] = true
	}
	var units []billing.Unit
	for _, unit := range s.units[associationID] {
		if !unit.Active {
			continue
		}
		if len(filter) > 0 && !filter[unit.ID] {
			continue
		}
		units = append(units, unit)
	}
	return units, nil
}

// PutExpense records an expense.
func (s *Stores) PutExpense(expense billing.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[expense.AssociationID] = append(s.expenses[expense.AssociationID], expense)
}

// ListForPeriod returns the expenses of a billing month.
func (s *Stores) ListForPeriod(ctx context.Context, associationID string, period billing.Period) ([]billing.Expense, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expenses []billing.Expense
	for _, expense := range s.expenses[associationID] {
		if expense.Period == period {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

// PutReading records a meter reading for an association.
func (s *Stores) PutReading(associationID string, reading billing.MeterReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := associationID + "|" + reading.Period.String()
	if s.readings[key] == nil {
		s.readings[key] = make(map[string]billing.MeterReading)
	}
	s.readings[key][reading.MeterID] = reading
}

// ReadingsForPeriod returns readings keyed by meter id.
func (s *Stores) ReadingsForPeriod(ctx context.Context, associationID string, period billing.Period) (map[string]billing.MeterReading, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := associationID + "|" + period.String()
	result := make(map[string]billing.MeterReading, len(s.readings[key]))
	for id, reading := range s.readings[key] {
		result[id] = reading
	}
	return result, nil
}

// PutBill stores a historical bill directly, for test setup.
func (s *Stores) PutBill(bill billing.Bill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := bill
	s.bills[bill.ID] = &copy
}

// Create persists a newly assembled bill.
func (s *Stores) Create(ctx context.Context, bill *billing.Bill) error {
	_ = ctx
	if bill == nil {
		return billing.ErrNilBill
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *bill
	s.bills[bill.ID] = &copy
	return nil
}

// ListOpenByUnit returns a unit's bills still carrying a balance.
func (s *Stores) ListOpenByUnit(ctx context.Context, unitID string) ([]billing.Bill, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var bills []billing.Bill
	for _, bill := range s.bills {
		if bill.UnitID == unitID && bill.Open() {
			bills = append(bills, *bill)
		}
	}
	return bills, nil
}

// ListOpenByAssociation returns all open bills of an association.
func (s *Stores) ListOpenByAssociation(ctx context.Context, associationID string) ([]billing.Bill, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var bills []billing.Bill
	for _, bill := range s.bills {
		if bill.AssociationID == associationID && bill.Open() {
			bills = append(bills, *bill)
		}
	}
	return bills, nil
}

// PutPayment records a payment against a bill.
func (s *Stores) PutPayment(payment billing.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.BillID] = append(s.payments[payment.BillID], payment)
}

// ListConfirmedByBill returns the confirmed payments for one bill.
func (s *Stores) ListConfirmedByBill(ctx context.Context, billID string) ([]billing.Payment, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var payments []billing.Payment
	for _, payment := range s.payments[billID] {
		if payment.Confirmed {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

// PutFund records a recurring fund.
func (s *Stores) PutFund(fund billing.Fund) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[fund.AssociationID] = append(s.funds[fund.AssociationID], fund)
}

// ListByAssociation returns the association's recurring funds.
func (s *Stores) ListByAssociation(ctx context.Context, associationID string) ([]billing.Fund, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]billing.Fund(nil), s.funds[associationID]...), nil
}

// WasSentToday reports whether a reminder already went out today.
func (s *Stores) WasSentToday(ctx context.Context, billID string, day time.Time) (bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reminderLog[reminderKey(billID, day)]
	return ok, nil
}

// RecordSent stores a reminder emission.
func (s *Stores) RecordSent(ctx context.Context, billID string, day time.Time, tier string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminderLog[reminderKey(billID, day)] = tier
	return nil
}

func reminderKey(billID string, day time.Time) string {
	return billID + "|" + day.UTC().Format("2006-01-02")
}
