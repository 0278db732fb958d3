package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
)

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromPersonID is the member who paid (debtor settling up).
	FromPersonID string

	// ToPersonID is the member who received payment (creditor being paid).
	ToPersonID string

	// Amount is the payment amount, quantized to cents.
	Amount decimal.Decimal

	// Date is the day the payment happened.
	Date time.Time

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the member ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}

// ToLedger converts the settlement into a ledger record.
func (s *Settlement) ToLedger() ledger.SettlementRecord {
	return ledger.SettlementRecord{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromPersonID: s.FromPersonID,
		ToPersonID:   s.ToPersonID,
		Amount:       s.Amount,
		Date:         s.Date,
	}
}

// SettlementsToLedger converts a slice of settlements.
func SettlementsToLedger(settlements []*Settlement) []ledger.SettlementRecord {
	records := make([]ledger.SettlementRecord, len(settlements))
	for i, s := range settlements {
		records[i] = s.ToLedger()
	}
	return records
}
