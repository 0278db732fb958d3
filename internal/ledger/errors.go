package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrSplitMismatch    = errors.New("split amounts do not add up to the expense total")
	ErrUnbalancedLedger = errors.New("ledger balances do not sum to zero")
	ErrInvalidRecord    = errors.New("invalid ledger record")
)

// SplitMismatchError reports an expense whose splits differ from its total by
// at least Epsilon.
type SplitMismatchError struct {
	ExpenseID  string
	Amount     decimal.Decimal
	SplitTotal decimal.Decimal
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("expense %s: splits total %s, expense amount %s",
		e.ExpenseID, e.SplitTotal.StringFixed(Places), e.Amount.StringFixed(Places))
}

func (e *SplitMismatchError) Unwrap() error { return ErrSplitMismatch }

// Difference is the amount by which the splits fall short of the total.
// It is negative when the splits exceed the total.
func (e *SplitMismatchError) Difference() decimal.Decimal {
	return e.Amount.Sub(e.SplitTotal)
}

// UnbalancedLedgerError reports balances that cannot be settled because they
// do not net to zero.
type UnbalancedLedgerError struct {
	// Total is the sum of the balances handed to the planner.
	Total decimal.Decimal
	// Residuals are the balances left unmatched after planning.
	Residuals []Balance
}

func (e *UnbalancedLedgerError) Error() string {
	if len(e.Residuals) == 0 {
		return fmt.Sprintf("balances sum to %s", e.Total.StringFixed(Places))
	}
	return fmt.Sprintf("balances sum to %s, %d unmatched after planning",
		e.Total.StringFixed(Places), len(e.Residuals))
}

func (e *UnbalancedLedgerError) Unwrap() error { return ErrUnbalancedLedger }

func invalidRecord(kind, id, reason string) error {
	return fmt.Errorf("%w: %s %s: %s", ErrInvalidRecord, kind, id, reason)
}
