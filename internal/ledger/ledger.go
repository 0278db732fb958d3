package ledger

// ComputeBalances returns the net balance of every participant of groupID,
// sorted by PersonID.
func ComputeBalances(expenses []ExpenseRecord, settlements []SettlementRecord, groupID string) []Balance {
	return Aggregate(expenses, settlements, groupID)
}

// ComputeSettlementPlan returns the transfers that settle balances.
//
// An empty or already settled set of balances yields an empty plan. Balances
// that do not net to zero are a data-integrity fault and produce an
// *UnbalancedLedgerError instead of a partial plan.
func ComputeSettlementPlan(balances []Balance) ([]Transfer, error) {
	if err := CheckBalanced(balances); err != nil {
		return nil, err
	}

	result := plan(balances)
	if len(result.residuals) > 0 {
		return nil, &UnbalancedLedgerError{
			Total:     Sum(balances),
			Residuals: result.residuals,
		}
	}
	return result.transfers, nil
}
