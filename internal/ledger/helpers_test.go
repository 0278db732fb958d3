package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func split(personID, amount string) Split {
	return Split{PersonID: personID, Amount: dec(amount)}
}

func expense(id, groupID, amount, paidBy string, splits ...Split) ExpenseRecord {
	return ExpenseRecord{ID: id, GroupID: groupID, Amount: dec(amount), PaidBy: paidBy, Splits: splits}
}

func settlement(id, groupID, from, to, amount string) SettlementRecord {
	return SettlementRecord{ID: id, GroupID: groupID, FromPersonID: from, ToPersonID: to, Amount: dec(amount)}
}

func balance(personID, amount string) Balance {
	return Balance{PersonID: personID, Amount: dec(amount)}
}

// fixed renders balances as person -> "0.00" so decimals compare by value.
func fixed(balances []Balance) map[string]string {
	out := make(map[string]string, len(balances))
	for _, b := range balances {
		out[b.PersonID] = b.Amount.StringFixed(Places)
	}
	return out
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "amount = %s, want %s", got.StringFixed(Places), want)
}

// apply executes transfers against a copy of balances.
func apply(balances []Balance, transfers []Transfer) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		out[b.PersonID] = out[b.PersonID].Add(b.Amount)
	}
	for _, tr := range transfers {
		out[tr.FromPersonID] = out[tr.FromPersonID].Add(tr.Amount)
		out[tr.ToPersonID] = out[tr.ToPersonID].Sub(tr.Amount)
	}
	return out
}

// randomHistory builds a well-formed history: every expense's splits add up
// to its amount in cents.
func randomHistory(rng *rand.Rand, groupID string, people []string, expenses, settlements int) ([]ExpenseRecord, []SettlementRecord) {
	var es []ExpenseRecord
	for i := 0; i < expenses; i++ {
		totalCents := int64(rng.Intn(50000) + 1)
		n := rng.Intn(len(people)) + 1
		perm := rng.Perm(len(people))[:n]

		remaining := totalCents
		var splits []Split
		for k, idx := range perm {
			share := remaining
			if k < n-1 {
				share = rng.Int63n(remaining + 1)
			}
			remaining -= share
			splits = append(splits, Split{PersonID: people[idx], Amount: FromCents(share)})
		}
		es = append(es, ExpenseRecord{
			ID:      "e",
			GroupID: groupID,
			Amount:  FromCents(totalCents),
			PaidBy:  people[rng.Intn(len(people))],
			Splits:  splits,
		})
	}

	var ss []SettlementRecord
	for i := 0; i < settlements; i++ {
		from := rng.Intn(len(people))
		to := (from + 1 + rng.Intn(len(people)-1)) % len(people)
		ss = append(ss, SettlementRecord{
			ID:           "s",
			GroupID:      groupID,
			FromPersonID: people[from],
			ToPersonID:   people[to],
			Amount:       FromCents(int64(rng.Intn(20000) + 1)),
		})
	}
	return es, ss
}
