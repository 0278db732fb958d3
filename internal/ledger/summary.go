package ledger

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// MemberTotals breaks a participant's balance into what they put in and what
// they consumed. Settlements sent count as paid, settlements received as owed.
type MemberTotals struct {
	PersonID string
	Paid     decimal.Decimal
	Owed     decimal.Decimal
}

// Net is Paid minus Owed; it equals the participant's balance.
func (m MemberTotals) Net() decimal.Decimal {
	return m.Paid.Sub(m.Owed)
}

// Summary describes the activity of one group.
type Summary struct {
	GroupID         string
	TotalSpent      decimal.Decimal
	ExpenseCount    int
	SettlementCount int
	Members         []MemberTotals // sorted by PersonID
}

// Summarize totals the expenses and settlements of groupID.
func Summarize(expenses []ExpenseRecord, settlements []SettlementRecord, groupID string) Summary {
	summary := Summary{GroupID: groupID, TotalSpent: decimal.Zero}
	members := make(map[string]*MemberTotals)
	member := func(personID string) *MemberTotals {
		m, ok := members[personID]
		if !ok {
			m = &MemberTotals{PersonID: personID, Paid: decimal.Zero, Owed: decimal.Zero}
			members[personID] = m
		}
		return m
	}

	for _, e := range expenses {
		if e.GroupID != groupID {
			continue
		}
		amount := Quantize(e.Amount)
		summary.ExpenseCount++
		summary.TotalSpent = summary.TotalSpent.Add(amount)
		payer := member(e.PaidBy)
		payer.Paid = payer.Paid.Add(amount)
		for _, s := range e.Splits {
			m := member(s.PersonID)
			m.Owed = m.Owed.Add(Quantize(s.Amount))
		}
	}

	for _, s := range settlements {
		if s.GroupID != groupID {
			continue
		}
		amount := Quantize(s.Amount)
		summary.SettlementCount++
		from := member(s.FromPersonID)
		from.Paid = from.Paid.Add(amount)
		to := member(s.ToPersonID)
		to.Owed = to.Owed.Add(amount)
	}

	for _, personID := range slices.Sorted(maps.Keys(members)) {
		summary.Members = append(summary.Members, *members[personID])
	}
	return summary
}
