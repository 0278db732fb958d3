package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrZeroSubtotal   = errors.New("subtotal cannot be zero")
	ErrInvalidTotal   = errors.New("total must be positive")
	ErrItemsMismatch  = errors.New("assigned items do not add up to the subtotal")
	ErrNotParticipant = errors.New("not a participant")
)

// Item represents a single item on an itemized expense.
type Item struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []string
}

// EqualSplit divides total evenly among participants.
// Leftover cents go one each to the first participants so the splits always
// add up to total exactly.
func EqualSplit(total decimal.Decimal, participants []string) ([]ledger.Split, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	cents := ledger.Cents(total)
	n := int64(len(participants))
	share, extra := cents/n, cents%n

	splits := make([]ledger.Split, len(participants))
	for i, p := range participants {
		c := share
		if int64(i) < extra {
			c++
		}
		splits[i] = ledger.Split{PersonID: p, Amount: ledger.FromCents(c)}
	}
	return splits, nil
}

// CustomSplit uses the shares entered for each participant as-is, in
// participant order, after checking that they add up to total.
// Participants without an entry owe nothing.
func CustomSplit(total decimal.Decimal, participants []string, shares map[string]decimal.Decimal) ([]ledger.Split, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	splits := make([]ledger.Split, len(participants))
	for i, p := range participants {
		splits[i] = ledger.Split{PersonID: p, Amount: ledger.Quantize(shares[p])}
	}
	for p := range shares {
		if !contains(participants, p) {
			return nil, fmt.Errorf("share for %q: %w", p, ErrNotParticipant)
		}
	}

	record := ledger.ExpenseRecord{Amount: total, PaidBy: participants[0], Splits: splits}
	if err := ledger.ValidateExpense(record); err != nil {
		return nil, err
	}
	return splits, nil
}

// ItemizedSplit computes how much each participant owes for an itemized bill,
// including a proportional share of tax and fees:
//
//	person_total = person_subtotal × (1 + (total_tax / bill_subtotal))
//
// Items assigned to several people are shared equally. Amounts are rounded to
// cents with the largest-remainder method so the splits add up to billTotal.
func ItemizedSplit(items []Item, billTotal, billSubtotal decimal.Decimal, participants []string) ([]ledger.Split, error) {
	if billSubtotal.IsZero() {
		return nil, ErrZeroSubtotal
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !billTotal.IsPositive() {
		return nil, ErrInvalidTotal
	}

	if len(items) == 0 {
		return EqualSplit(billTotal, participants)
	}

	subtotals := make(map[string]decimal.Decimal, len(participants))
	assignedTotal := decimal.Zero
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		assignedTotal = assignedTotal.Add(item.Amount)
		perPerson := item.Amount.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			if !contains(participants, person) {
				return nil, fmt.Errorf("item %q assigned to %q: %w", item.Description, person, ErrNotParticipant)
			}
			subtotals[person] = subtotals[person].Add(perPerson)
		}
	}

	if !ledger.IsNegligible(assignedTotal.Sub(billSubtotal)) {
		return nil, fmt.Errorf("%w: items %s, subtotal %s", ErrItemsMismatch,
			assignedTotal.StringFixed(ledger.Places), billSubtotal.StringFixed(ledger.Places))
	}

	// Exact totals, then distribute whole cents.
	ratio := billTotal.Div(billSubtotal)
	exact := make([]decimal.Decimal, len(participants))
	for i, p := range participants {
		exact[i] = subtotals[p].Mul(ratio)
	}
	cents := largestRemainder(exact, ledger.Cents(billTotal))

	splits := make([]ledger.Split, len(participants))
	for i, p := range participants {
		splits[i] = ledger.Split{PersonID: p, Amount: ledger.FromCents(cents[i])}
	}
	return splits, nil
}

// largestRemainder floors every amount to cents, then hands the missing cents
// to the amounts with the largest fractional parts (ties by position).
func largestRemainder(amounts []decimal.Decimal, targetCents int64) []int64 {
	cents := make([]int64, len(amounts))
	order := make([]int, len(amounts))
	fractions := make([]decimal.Decimal, len(amounts))

	var assigned int64
	for i, a := range amounts {
		shifted := a.Shift(ledger.Places)
		floor := shifted.Floor()
		cents[i] = floor.IntPart()
		fractions[i] = shifted.Sub(floor)
		assigned += cents[i]
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]].GreaterThan(fractions[order[b]])
	})
	for k := 0; assigned < targetCents && len(order) > 0; k = (k + 1) % len(order) {
		cents[order[k]]++
		assigned++
	}
	return cents
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
