package solana

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDecode wraps every failure to turn a returned string or payload
	// (signature, address, hash, account data) into its structured form.
	ErrDecode = errors.New("decode error")

	ErrConfirmationTimeout  = errors.New("confirmation timed out")
	ErrAccountNotFound      = errors.New("account not found")
	ErrBlockTimeUnavailable = errors.New("block time not available")
)

func decodeErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, what, err)
}

// TransactionError is a submission rejected by the node, usually a failed
// preflight simulation. Logs holds the simulation output in order.
type TransactionError struct {
	Code    int
	Message string
	Err     json.RawMessage
	Logs    []string
}

func (e *TransactionError) Error() string {
	return e.Message
}

// TransactionFailedError reports a transaction that landed on chain with an
// execution error.
type TransactionFailedError struct {
	Signature string
	Slot      uint64
	Err       json.RawMessage
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed in slot %d: %s", e.Signature, e.Slot, string(e.Err))
}
