package database

import (
	"errors"
	"fmt"
	"strings"
)

// Set of errors reported synchronously to callers of the ledger engine.
var (
	ErrInvalidTransaction        = errors.New("invalid transaction")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrInvalidSignature          = errors.New("invalid signature")
	ErrMissingMiner              = errors.New("missing miner")
	ErrSupplyExhausted           = errors.New("max supply reached")
	ErrInsufficientFundsAtCommit = errors.New("insufficient funds at commit")
)

// TxError represents an error on a transaction.
type TxError struct {
	Tx  Tx
	Err error
}

// Error implements the error interface.
func (txe *TxError) Error() string {
	return txe.Err.Error()
}

// Unwrap provides access to the underlying error.
func (txe *TxError) Unwrap() error {
	return txe.Err
}

// TxErrors represents a set of transaction errors.
type TxErrors []TxError

// Error implements the error interface.
func (txes TxErrors) Error() string {
	var sb strings.Builder
	for i, txe := range txes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "{ID: %s, ERROR: %s}", txe.Tx.ID, txe.Err)
	}

	return sb.String()
}

// Is allows errors.Is to match against any of the underlying errors.
func (txes TxErrors) Is(target error) bool {
	for _, txe := range txes {
		if errors.Is(txe.Err, target) {
			return true
		}
	}
	return false
}
