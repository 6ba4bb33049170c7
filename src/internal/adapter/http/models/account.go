package models

import (
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Client         string          `json:"client"`
	Active         bool            `json:"active"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}

	if !domain.AccountType(strings.TrimSpace(r.AccountType)).Valid() {
		errs = append(errs, "accountType must be one of SAVINGS, CHECKING, FIXED_TERM")
	}

	if r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	}

	if strings.TrimSpace(r.Client) == "" {
		errs = append(errs, "client is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// UpdateAccountRequest overwrites all mutable fields of an account; the
// client name is re-resolved against the identity cache.
type UpdateAccountRequest struct {
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Client        string          `json:"client"`
	Active        bool            `json:"active"`
}

func (r UpdateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}

	if !domain.AccountType(strings.TrimSpace(r.AccountType)).Valid() {
		errs = append(errs, "accountType must be one of SAVINGS, CHECKING, FIXED_TERM")
	}

	if strings.TrimSpace(r.Client) == "" {
		errs = append(errs, "client is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

type AccountResponse struct {
	ID            int64  `json:"id"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Balance       string `json:"balance"`
	ClientID      int64  `json:"clientId"`
	Client        string `json:"client"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}
