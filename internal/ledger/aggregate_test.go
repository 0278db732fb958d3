package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	dinner := expense("e1", "g1", "30", "A", split("A", "10"), split("B", "10"), split("C", "10"))

	tests := []struct {
		name        string
		expenses    []ExpenseRecord
		settlements []SettlementRecord
		want        map[string]string
	}{
		{
			name: "no activity",
			want: map[string]string{},
		},
		{
			name:     "payer shares the expense equally",
			expenses: []ExpenseRecord{dinner},
			want:     map[string]string{"A": "20.00", "B": "-10.00", "C": "-10.00"},
		},
		{
			name:        "settlement moves both parties toward zero",
			expenses:    []ExpenseRecord{dinner},
			settlements: []SettlementRecord{settlement("s1", "g1", "B", "A", "10")},
			want:        map[string]string{"A": "10.00", "B": "0.00", "C": "-10.00"},
		},
		{
			name: "three way unequal split",
			expenses: []ExpenseRecord{
				expense("e1", "g1", "100", "A", split("A", "50"), split("B", "25"), split("C", "25")),
				expense("e2", "g1", "50", "B", split("A", "25"), split("B", "0"), split("C", "25")),
			},
			// A: +100 -50 -25, B: -25 +50 -0, C: -25 -25
			want: map[string]string{"A": "25.00", "B": "25.00", "C": "-50.00"},
		},
		{
			name: "payer outside the splits",
			expenses: []ExpenseRecord{
				expense("e1", "g1", "12.50", "D", split("A", "6.25"), split("B", "6.25")),
			},
			want: map[string]string{"A": "-6.25", "B": "-6.25", "D": "12.50"},
		},
		{
			name: "other groups are ignored",
			expenses: []ExpenseRecord{
				dinner,
				expense("e2", "g2", "99", "Z", split("Z", "33"), split("A", "66")),
			},
			settlements: []SettlementRecord{settlement("s1", "g2", "A", "Z", "66")},
			want:        map[string]string{"A": "20.00", "B": "-10.00", "C": "-10.00"},
		},
		{
			name: "settlement only participants still appear",
			settlements: []SettlementRecord{
				settlement("s1", "g1", "B", "A", "5"),
				settlement("s2", "g1", "A", "B", "5"),
			},
			want: map[string]string{"A": "0.00", "B": "0.00"},
		},
		{
			name: "sub cent inputs are quantized on the way in",
			expenses: []ExpenseRecord{
				expense("e1", "g1", "10.004", "A", split("A", "5.002"), split("B", "5.002")),
			},
			want: map[string]string{"A": "5.00", "B": "-5.00"},
		},
		{
			name: "each sub cent split rounds on its own",
			expenses: []ExpenseRecord{
				expense("e1", "g1", "0.01", "A", split("B", "0.005"), split("B", "0.005")),
			},
			want: map[string]string{"A": "0.01", "B": "-0.02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.expenses, tt.settlements, "g1")
			assert.Equal(t, tt.want, fixed(got))
		})
	}
}

func TestAggregate_SortedByPerson(t *testing.T) {
	expenses := []ExpenseRecord{
		expense("e1", "g1", "40", "zoe", split("mia", "10"), split("bob", "10"), split("zoe", "10"), split("al", "10")),
	}

	got := Aggregate(expenses, nil, "g1")

	ids := make([]string, len(got))
	for i, b := range got {
		ids[i] = b.PersonID
	}
	assert.Equal(t, []string{"al", "bob", "mia", "zoe"}, ids)
}

func TestAggregate_PreFilteredInputGivesSameResult(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	people := []string{"A", "B", "C", "D"}
	g1Expenses, g1Settlements := randomHistory(rng, "g1", people, 20, 5)
	g2Expenses, g2Settlements := randomHistory(rng, "g2", people, 20, 5)

	mixed := Aggregate(append(g1Expenses, g2Expenses...), append(g1Settlements, g2Settlements...), "g1")
	filtered := Aggregate(g1Expenses, g1Settlements, "g1")

	assert.Equal(t, fixed(filtered), fixed(mixed))
}

func TestAggregate_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	expenses, settlements := randomHistory(rng, "g1", []string{"p1", "p2", "p3", "p4", "p5", "p6"}, 40, 10)

	first := ComputeBalances(expenses, settlements, "g1")
	for i := 0; i < 10; i++ {
		again := ComputeBalances(expenses, settlements, "g1")
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].PersonID, again[j].PersonID)
			assert.True(t, first[j].Amount.Equal(again[j].Amount))
		}
	}
}

func TestAggregate_ZeroSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	people := []string{"ana", "ben", "cy", "dee", "eli"}

	for i := 0; i < 200; i++ {
		expenses, settlements := randomHistory(rng, "g1", people, rng.Intn(15), rng.Intn(6))
		balances := ComputeBalances(expenses, settlements, "g1")
		assert.True(t, IsNegligible(Sum(balances)), "run %d: balances sum to %s", i, Sum(balances))
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	expenses := []ExpenseRecord{
		expense("e1", "g1", "10.005", "A", split("A", "5.0025"), split("B", "5.0025")),
	}

	Aggregate(expenses, nil, "g1")

	assert.Equal(t, "10.005", expenses[0].Amount.String())
	assert.Equal(t, "5.0025", expenses[0].Splits[1].Amount.String())
}
