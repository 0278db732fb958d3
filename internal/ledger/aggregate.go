package ledger

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Aggregate folds the expenses and settlements of groupID into one net
// balance per participant.
//
// Records of other groups are ignored, so callers may pass either the full
// history or a pre-filtered one. Every participant appears in the result,
// including those whose activity nets to zero. The result is sorted by
// PersonID.
//
// Every amount is quantized to the cent before it is added, so sub-cent
// inputs round per record rather than on the accumulated total: two splits
// of 0.005 for one person net to -0.02, not -0.01.
//
// Splits are not checked against the expense total; run ValidateExpense
// first when malformed input must be rejected.
func Aggregate(expenses []ExpenseRecord, settlements []SettlementRecord, groupID string) []Balance {
	totals := make(map[string]decimal.Decimal)
	credit := func(personID string, amount decimal.Decimal) {
		totals[personID] = totals[personID].Add(Quantize(amount))
	}

	for _, e := range expenses {
		if e.GroupID != groupID {
			continue
		}
		credit(e.PaidBy, e.Amount)
		for _, s := range e.Splits {
			credit(s.PersonID, s.Amount.Neg())
		}
	}

	for _, s := range settlements {
		if s.GroupID != groupID {
			continue
		}
		// A repayment moves both parties toward zero: the payer owes less,
		// the receiver is owed less.
		credit(s.FromPersonID, s.Amount)
		credit(s.ToPersonID, s.Amount.Neg())
	}

	balances := make([]Balance, 0, len(totals))
	for _, personID := range slices.Sorted(maps.Keys(totals)) {
		balances = append(balances, Balance{
			PersonID: personID,
			Amount:   Quantize(totals[personID]),
		})
	}
	return balances
}
