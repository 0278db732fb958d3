// Package models defines the persisted domain models for splitledger.
//
// # Models
//
//   - Group: a set of people who share expenses
//   - Expense: a shared cost paid by one member and split among several
//   - Settlement: a repayment between two members
//   - Member: a registered account used for authentication
//
// Group members are identified by opaque string IDs. The ledger never
// inspects them beyond equality, so they may be names, emails or account IDs.
//
// # Design Principles
//
// 1. **Fixed-point money**: every amount is a decimal quantized to cents
// 2. **Immutable records**: expenses and settlements are created and deleted, never edited
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
// 4. **Ledger conversion**: records convert to ledger records with ToLedger
package models
