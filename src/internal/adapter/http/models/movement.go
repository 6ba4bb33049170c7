package models

import (
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateMovementRequest struct {
	AccountID    int64           `json:"accountId"`
	MovementType string          `json:"movementType"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description,omitempty"`
}

func (r CreateMovementRequest) Validate() error {
	var errs []string

	if r.AccountID <= 0 {
		errs = append(errs, "accountId is required")
	}

	if !domain.MovementType(strings.TrimSpace(r.MovementType)).Valid() {
		errs = append(errs, "movementType must be one of DEPOSIT, WITHDRAWAL, TRANSFER, PAYMENT")
	}

	if r.Value.IsNegative() {
		errs = append(errs, "value cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// UpdateMovementRequest may change only the description of a committed
// movement. MovementType and Value are accepted so that echoing the stored
// values back is valid, but any change to them is rejected.
type UpdateMovementRequest struct {
	MovementType string           `json:"movementType,omitempty"`
	Value        *decimal.Decimal `json:"value,omitempty"`
	Description  string           `json:"description"`
}

// OperationRequest is the free-text entry point: the movement phrase carries
// both the type keyword and the magnitude. InitialBalance is accepted for
// compatibility and ignored; the engine always recomputes from the persisted
// account balance.
type OperationRequest struct {
	AccountNumber  string          `json:"accountNumber"`
	Type           string          `json:"type,omitempty"`
	InitialBalance decimal.Decimal `json:"initialBalance,omitempty"`
	Active         bool            `json:"active,omitempty"`
	Movement       string          `json:"movement"`
}

func (r OperationRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}

	if strings.TrimSpace(r.Movement) == "" {
		errs = append(errs, "movement is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type MovementResponse struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	MovementType string `json:"movementType"`
	Value        string `json:"value"`
	Balance      string `json:"balance"`
	AccountID    int64  `json:"accountId"`
	Description  string `json:"description,omitempty"`
}
