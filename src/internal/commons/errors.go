package commons

import (
	"errors"
	"fmt"
)

var ErrRecordNotFound = errors.New("Record not found")
var ErrDuplicateResource = errors.New("Resource already exists")
var ErrInsufficientFunds = errors.New("Insufficient funds")
var ErrUnsupportedOperation = errors.New("Unsupported operation")
var ErrAmbiguousClientName = errors.New("Client name matches more than one client")
var ErrAccountHasMovements = errors.New("Account has movements and cannot be deleted")
var ErrNotLatestMovement = errors.New("Only the latest movement of an account can be deleted")

// InsufficientFundsError carries the context a caller needs to render a
// user-facing rejection. It unwraps to ErrInsufficientFunds.
type InsufficientFundsError struct {
	AccountNumber string
	Balance       string
	Requested     string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: balance %s, requested %s",
		e.AccountNumber, e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
