package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeChecking  AccountType = "CHECKING"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeFixedTerm:
		return true
	}
	return false
}

// Account is a ledger account owned by a client whose identity lives in a
// different service. ClientID is a foreign reference into the identity cache's
// domain and is not enforced referentially at write time.
type Account struct {
	ID            int64
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	ClientID      int64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
