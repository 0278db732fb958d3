package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExpense(t *testing.T) {
	tests := []struct {
		name    string
		expense ExpenseRecord
		wantErr error
	}{
		{
			name:    "splits match total",
			expense: expense("e1", "g1", "30", "A", split("A", "10"), split("B", "10"), split("C", "10")),
		},
		{
			name:    "sub cent drift is tolerated",
			expense: expense("e1", "g1", "10", "A", split("A", "5.001"), split("B", "4.999")),
		},
		{
			name:    "splits fall short",
			expense: expense("e1", "g1", "100", "A", split("A", "33.33"), split("B", "33.33"), split("C", "33.33")),
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "splits exceed total",
			expense: expense("e1", "g1", "10", "A", split("A", "6"), split("B", "6")),
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "zero amount",
			expense: expense("e1", "g1", "0", "A", split("A", "0")),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "missing payer",
			expense: expense("e1", "g1", "10", "", split("A", "10")),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "no splits",
			expense: expense("e1", "g1", "10", "A"),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "negative split",
			expense: expense("e1", "g1", "10", "A", split("A", "12"), split("B", "-2")),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "split without person",
			expense: expense("e1", "g1", "10", "A", split("", "10")),
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(tt.expense)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSplitMismatchError(t *testing.T) {
	err := ValidateExpense(expense("e7", "g1", "100", "A", split("A", "50"), split("B", "49.90")))

	var mismatch *SplitMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "e7", mismatch.ExpenseID)
	requireAmount(t, "0.10", mismatch.Difference())
	assert.Equal(t, "expense e7: splits total 99.90, expense amount 100.00", err.Error())
}

func TestValidateSettlement(t *testing.T) {
	assert.NoError(t, ValidateSettlement(settlement("s1", "g1", "B", "A", "10")))
	assert.ErrorIs(t, ValidateSettlement(settlement("s1", "g1", "B", "A", "0")), ErrInvalidRecord)
	assert.ErrorIs(t, ValidateSettlement(settlement("s1", "g1", "B", "A", "-5")), ErrInvalidRecord)
	assert.ErrorIs(t, ValidateSettlement(settlement("s1", "g1", "A", "A", "5")), ErrInvalidRecord)
	assert.ErrorIs(t, ValidateSettlement(settlement("s1", "g1", "", "A", "5")), ErrInvalidRecord)
}

func TestValidateGroup(t *testing.T) {
	expenses := []ExpenseRecord{
		expense("ok", "g1", "30", "A", split("A", "15"), split("B", "15")),
		expense("short", "g1", "30", "A", split("A", "15"), split("B", "10")),
		expense("elsewhere", "g2", "30", "A", split("A", "1")),
	}
	settlements := []SettlementRecord{
		settlement("self", "g1", "A", "A", "5"),
	}

	err := ValidateGroup(expenses, settlements, "g1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSplitMismatch)
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.NotContains(t, err.Error(), "elsewhere")

	assert.NoError(t, ValidateGroup(expenses[:1], nil, "g1"))
}

func TestCheckBalanced(t *testing.T) {
	assert.NoError(t, CheckBalanced(nil))
	assert.NoError(t, CheckBalanced([]Balance{balance("A", "10"), balance("B", "-10")}))
	assert.NoError(t, CheckBalanced([]Balance{balance("A", "10.004"), balance("B", "-10")}))
	assert.ErrorIs(t, CheckBalanced([]Balance{balance("A", "10.01"), balance("B", "-10")}), ErrUnbalancedLedger)
}
