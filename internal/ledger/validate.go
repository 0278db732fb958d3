package ledger

import (
	"errors"
)

// ValidateExpense checks that an expense is well formed and that its splits
// add up to its amount within Epsilon.
func ValidateExpense(e ExpenseRecord) error {
	switch {
	case !e.Amount.IsPositive():
		return invalidRecord("expense", e.ID, "amount must be positive")
	case e.PaidBy == "":
		return invalidRecord("expense", e.ID, "payer is required")
	case len(e.Splits) == 0:
		return invalidRecord("expense", e.ID, "at least one split is required")
	}
	for _, s := range e.Splits {
		if s.PersonID == "" {
			return invalidRecord("expense", e.ID, "split without person")
		}
		if s.Amount.IsNegative() {
			return invalidRecord("expense", e.ID, "split amount must not be negative")
		}
	}

	splitTotal := e.SplitTotal()
	if !IsNegligible(Quantize(e.Amount).Sub(Quantize(splitTotal))) {
		return &SplitMismatchError{
			ExpenseID:  e.ID,
			Amount:     e.Amount,
			SplitTotal: splitTotal,
		}
	}
	return nil
}

// ValidateSettlement checks that a settlement moves a positive amount between
// two different people.
func ValidateSettlement(s SettlementRecord) error {
	switch {
	case !s.Amount.IsPositive():
		return invalidRecord("settlement", s.ID, "amount must be positive")
	case s.FromPersonID == "" || s.ToPersonID == "":
		return invalidRecord("settlement", s.ID, "both parties are required")
	case s.FromPersonID == s.ToPersonID:
		return invalidRecord("settlement", s.ID, "cannot settle with oneself")
	}
	return nil
}

// ValidateGroup validates every record of groupID and joins the failures.
func ValidateGroup(expenses []ExpenseRecord, settlements []SettlementRecord, groupID string) error {
	var errs []error
	for _, e := range expenses {
		if e.GroupID != groupID {
			continue
		}
		if err := ValidateExpense(e); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range settlements {
		if s.GroupID != groupID {
			continue
		}
		if err := ValidateSettlement(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckBalanced returns an *UnbalancedLedgerError when the balances do not
// sum to zero within Epsilon.
func CheckBalanced(balances []Balance) error {
	total := Sum(balances)
	if IsNegligible(total) {
		return nil
	}
	return &UnbalancedLedgerError{Total: total}
}
