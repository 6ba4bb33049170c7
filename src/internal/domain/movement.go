package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeDeposit    MovementType = "DEPOSIT"
	MovementTypeWithdrawal MovementType = "WITHDRAWAL"
	MovementTypeTransfer   MovementType = "TRANSFER"
	MovementTypePayment    MovementType = "PAYMENT"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeDeposit, MovementTypeWithdrawal, MovementTypeTransfer, MovementTypePayment:
		return true
	}
	return false
}

// Debit reports whether the type requires a funds check before it is applied.
// TRANSFER subtracts from the balance but is not funds-checked, matching the
// behavior of the system this one replaces.
func (t MovementType) Debit() bool {
	return t == MovementTypeWithdrawal || t == MovementTypePayment
}

// SignedEffect converts the non-negative magnitude of a movement into its
// effect on the account balance. Only DEPOSIT credits; TRANSFER is modeled as
// an outgoing leg with no counterpart credit.
func (t MovementType) SignedEffect(value decimal.Decimal) decimal.Decimal {
	if t == MovementTypeDeposit {
		return value
	}
	return value.Neg()
}

// Movement is one committed change against an account. Balance is the account
// balance immediately after this movement was applied; it is stored at commit
// time and never recomputed.
type Movement struct {
	ID           int64
	OccurredAt   time.Time
	MovementType MovementType
	Value        decimal.Decimal
	Balance      decimal.Decimal
	AccountID    int64
	Description  string
}

// SignedEffect is the movement's effect on the account balance.
func (m Movement) SignedEffect() decimal.Decimal {
	return m.MovementType.SignedEffect(m.Value)
}

// AccountMovement pairs a movement with the account it was committed against,
// as produced by the report query.
type AccountMovement struct {
	Movement Movement
	Account  Account
}
