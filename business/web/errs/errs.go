// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// ledgerStatus maps the errors reported by the ledger to the status the
// client receives.
var ledgerStatus = []struct {
	err    error
	status int
}{
	{database.ErrInvalidTransaction, http.StatusBadRequest},
	{database.ErrInsufficientFunds, http.StatusBadRequest},
	{database.ErrInvalidSignature, http.StatusBadRequest},
	{database.ErrMissingMiner, http.StatusBadRequest},
	{database.ErrSupplyExhausted, http.StatusConflict},
}

// FromLedger wraps an error returned by the ledger in a Trusted error with
// the status for its kind. Any other error is returned unchanged and is
// reported as an internal error.
func FromLedger(err error) error {
	for _, ls := range ledgerStatus {
		if errors.Is(err, ls.err) {
			return NewTrusted(err, ls.status)
		}
	}
	return err
}
