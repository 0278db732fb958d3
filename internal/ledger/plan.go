package ledger

import "github.com/shopspring/decimal"

// position is the planner's working copy of one balance.
type position struct {
	personID  string
	remaining decimal.Decimal // always >= 0
}

type planResult struct {
	transfers []Transfer
	// residuals hold non-negligible amounts left once one side is exhausted.
	residuals []Balance
}

// Plan returns transfers that bring every balance below Epsilon once applied
// the way a settlement is: the payer's balance rises by the amount and the
// receiver's falls by it.
//
// Creditors are visited in input order and each one is matched against the
// debtors in input order. The result has at most C+D-1 transfers for C
// creditors and D debtors, which is not necessarily the minimum. Balances that
// do not net to zero leave residuals that Plan silently drops; use
// ComputeSettlementPlan to have them reported.
//
// A transfer of exactly one cent is emitted. Dropping it, as a strict
// "greater than one cent" cutoff would, leaves a one-cent balance on both
// sides after the plan is applied.
func Plan(balances []Balance) []Transfer {
	return plan(balances).transfers
}

func plan(balances []Balance) planResult {
	var creditors, debtors []position
	for _, b := range balances {
		if IsNegligible(b.Amount) {
			continue
		}
		amount := Quantize(b.Amount)
		if amount.IsPositive() {
			creditors = append(creditors, position{personID: b.PersonID, remaining: amount})
		} else {
			debtors = append(debtors, position{personID: b.PersonID, remaining: amount.Neg()})
		}
	}

	var result planResult
	for i := range creditors {
		c := &creditors[i]
		for j := range debtors {
			if IsNegligible(c.remaining) {
				break
			}
			d := &debtors[j]
			// Duplicate entries for one person are never netted against each other.
			if IsNegligible(d.remaining) || d.personID == c.personID {
				continue
			}

			amount := decimal.Min(c.remaining, d.remaining)
			if IsNegligible(amount) {
				continue
			}
			result.transfers = append(result.transfers, Transfer{
				FromPersonID: d.personID,
				ToPersonID:   c.personID,
				Amount:       Quantize(amount),
			})
			c.remaining = c.remaining.Sub(amount)
			d.remaining = d.remaining.Sub(amount)
		}
	}

	for _, c := range creditors {
		if !IsNegligible(c.remaining) {
			result.residuals = append(result.residuals, Balance{PersonID: c.personID, Amount: c.remaining})
		}
	}
	for _, d := range debtors {
		if !IsNegligible(d.remaining) {
			result.residuals = append(result.residuals, Balance{PersonID: d.personID, Amount: d.remaining.Neg()})
		}
	}
	return result
}
