package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	errAuthRequired = errors.New("authentication required")
	errNotMember    = errors.New("you must be a member of this group")
)

// toConnectError maps domain errors onto Connect codes. Errors that already
// carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrUnbalancedLedger):
		return connect.NewError(connect.CodeDataLoss, err)
	case errors.Is(err, ledger.ErrInvalidRecord),
		errors.Is(err, ledger.ErrSplitMismatch),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrZeroSubtotal),
		errors.Is(err, calculator.ErrInvalidTotal),
		errors.Is(err, calculator.ErrItemsMismatch),
		errors.Is(err, calculator.ErrNotParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
