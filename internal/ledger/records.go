package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Split is the part of one expense owed by one person.
type Split struct {
	PersonID string
	Amount   decimal.Decimal
}

// ExpenseRecord is a shared cost paid by one person and split among several.
// The splits are expected to add up to Amount; see ValidateExpense.
type ExpenseRecord struct {
	ID          string
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PaidBy      string
	Splits      []Split
	Category    string
	Date        time.Time
}

// SplitTotal returns the sum of the split amounts.
func (e ExpenseRecord) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// SettlementRecord is a repayment from one person to another.
type SettlementRecord struct {
	ID           string
	GroupID      string
	FromPersonID string
	ToPersonID   string
	Amount       decimal.Decimal
	Date         time.Time
}

// Status classifies a balance for display.
type Status int

const (
	StatusSettled Status = iota
	StatusCreditor
	StatusDebtor
)

func (s Status) String() string {
	switch s {
	case StatusCreditor:
		return "Gets back"
	case StatusDebtor:
		return "Owes"
	default:
		return "All settled"
	}
}

// Balance is the net amount a person is owed (positive) or owes (negative)
// within a group.
type Balance struct {
	PersonID string
	Amount   decimal.Decimal
}

// Status reports whether the person gets money back, owes money or is settled.
func (b Balance) Status() Status {
	switch {
	case IsNegligible(b.Amount):
		return StatusSettled
	case b.Amount.IsPositive():
		return StatusCreditor
	default:
		return StatusDebtor
	}
}

// Transfer is a suggested payment that moves money from a debtor to a creditor.
type Transfer struct {
	FromPersonID string
	ToPersonID   string
	Amount       decimal.Decimal
}
