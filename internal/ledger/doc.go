// Package ledger computes group balances and settlement plans from expense
// and settlement records.
//
// The package is a pure computation: it owns no state, performs no I/O and
// never mutates its arguments, so every function is safe to call
// concurrently. Callers hand in the full history of a group and get back
// derived values:
//
//	balances := ledger.ComputeBalances(expenses, settlements, groupID)
//	transfers, err := ledger.ComputeSettlementPlan(balances)
//
// # Amounts
//
// Amounts are fixed-point decimals quantized to cents. Anything smaller than
// Epsilon (one cent) in absolute value is treated as settled.
//
// # Netting
//
// The settlement plan is produced by a greedy, order-preserving match of
// creditors against debtors. It is not guaranteed to use the fewest possible
// transfers; changing the matching order changes who is told to pay whom.
package ledger
