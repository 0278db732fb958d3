package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
)

// SplitMode records how the splits of an expense were produced.
type SplitMode string

const (
	SplitEqual    SplitMode = "equal"
	SplitCustom   SplitMode = "custom"
	SplitItemized SplitMode = "itemized"
)

// Expense represents a shared cost recorded in a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Groceries").
	Description string

	// Amount is the total paid, quantized to cents.
	Amount decimal.Decimal

	// PaidBy is the member who paid the full amount.
	PaidBy string

	// Splits is what each member owes for this expense.
	// The split amounts add up to Amount.
	Splits []ExpenseSplit

	// SplitMode is how the splits were computed.
	SplitMode SplitMode

	// Category is one of the known expense categories.
	Category string

	// Date is the day the expense happened.
	Date time.Time

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// CreatedBy is the member ID who recorded this expense.
	CreatedBy string
}

// ExpenseSplit is the share of an expense owed by one member.
type ExpenseSplit struct {
	PersonID string
	Amount   decimal.Decimal
}

// ToLedger converts the expense into a ledger record.
func (e *Expense) ToLedger() ledger.ExpenseRecord {
	splits := make([]ledger.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = ledger.Split{PersonID: s.PersonID, Amount: s.Amount}
	}
	return ledger.ExpenseRecord{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		Splits:      splits,
		Category:    e.Category,
		Date:        e.Date,
	}
}

// SplitsFromLedger converts ledger splits into expense splits.
func SplitsFromLedger(splits []ledger.Split) []ExpenseSplit {
	out := make([]ExpenseSplit, len(splits))
	for i, s := range splits {
		out[i] = ExpenseSplit{PersonID: s.PersonID, Amount: s.Amount}
	}
	return out
}

// ExpensesToLedger converts a slice of expenses.
func ExpensesToLedger(expenses []*Expense) []ledger.ExpenseRecord {
	records := make([]ledger.ExpenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = e.ToLedger()
	}
	return records
}
