package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

type accountFixture struct {
	accounts  *memory.AccountRepository
	movements *memory.MovementRepository
	cache     *memory.ClientCache
	service   *services.AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	accounts := memory.NewAccountRepository()
	movements := memory.NewMovementRepository(accounts)
	cache := memory.NewClientCache()
	return &accountFixture{
		accounts:  accounts,
		movements: movements,
		cache:     cache,
		service:   services.NewAccountService(accounts, movements, cache),
	}
}

func (f *accountFixture) seedClient(t *testing.T, id int64, name, identification string) {
	t.Helper()
	if err := f.cache.Upsert(context.Background(), domain.ClientRecord{
		ID:             id,
		Name:           name,
		Identification: identification,
		Active:         true,
	}); err != nil {
		t.Fatalf("seed client: %v", err)
	}
}

func TestAccountServiceCreateAccountResolvesClient(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	resp, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(2000),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if resp.Data.ClientID != 7 {
		t.Fatalf("expected client id 7, got %d", resp.Data.ClientID)
	}
	if resp.Data.Client != "Jose Lema" {
		t.Fatalf("expected client display name, got %s", resp.Data.Client)
	}
	if resp.Data.Balance != "2000" {
		t.Fatalf("expected balance 2000, got %s", resp.Data.Balance)
	}
}

func TestAccountServiceCreateAccountUnknownClient(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Nadie",
		Active:         true,
	})
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestAccountServiceCreateAccountAmbiguousClientName(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 1, "Ana", "111")
	f.seedClient(t, 2, "Ana", "222")

	_, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Ana",
		Active:         true,
	})
	if !errors.Is(err, commons.ErrAmbiguousClientName) {
		t.Fatalf("expected ambiguous client name error, got %v", err)
	}
}

func TestAccountServiceCreateAccountDuplicateNumber(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	req := models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	}
	if _, err := f.service.CreateAccount(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.service.CreateAccount(context.Background(), req)
	if !errors.Is(err, commons.ErrDuplicateResource) {
		t.Fatalf("expected duplicate resource error, got %v", err)
	}
}

func TestAccountServiceCreateAccountValidationError(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty create account request")
	}
}

func TestAccountServiceUpdateAccountKeepsNumberUniqueness(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	first, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478759",
		AccountType:    "CHECKING",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Renumbering onto another account's number must fail.
	if _, err := f.service.UpdateAccount(context.Background(), second.Data.ID, models.UpdateAccountRequest{
		AccountNumber: "478758",
		AccountType:   "CHECKING",
		Balance:       decimal.NewFromInt(100),
		Client:        "Jose Lema",
		Active:        true,
	}); !errors.Is(err, commons.ErrDuplicateResource) {
		t.Fatalf("expected duplicate resource error, got %v", err)
	}

	// Re-submitting an account's own number is not a conflict.
	updated, err := f.service.UpdateAccount(context.Background(), first.Data.ID, models.UpdateAccountRequest{
		AccountNumber: "478758",
		AccountType:   "CHECKING",
		Balance:       decimal.NewFromInt(500),
		Client:        "Jose Lema",
		Active:        false,
	})
	if err != nil {
		t.Fatalf("update with own number: %v", err)
	}
	if updated.Data.AccountType != "CHECKING" || updated.Data.Active {
		t.Fatal("expected mutable fields to be overwritten")
	}
}

func TestAccountServiceUpdateBalanceOverride(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	created, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	resp, err := f.service.UpdateBalance(context.Background(), created.Data.ID, models.UpdateBalanceRequest{
		Balance: decimal.NewFromInt(999),
	})
	if err != nil {
		t.Fatalf("update balance: %v", err)
	}
	if resp.Data.Balance != "999" {
		t.Fatalf("expected balance 999, got %s", resp.Data.Balance)
	}
}

func TestAccountServiceDeleteRefusedWhileMovementsExist(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	created, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	movementService := services.NewMovementService(f.movements, f.accounts)
	if _, err := movementService.CreateMovement(context.Background(), models.CreateMovementRequest{
		AccountID:    created.Data.ID,
		MovementType: "DEPOSIT",
		Value:        decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("create movement: %v", err)
	}

	if _, err := f.service.DeleteAccount(context.Background(), created.Data.ID); !errors.Is(err, commons.ErrAccountHasMovements) {
		t.Fatalf("expected account-has-movements error, got %v", err)
	}
}

func TestAccountServiceDeleteEmptyAccount(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	created, err := f.service.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountNumber:  "478758",
		AccountType:    "SAVINGS",
		InitialBalance: decimal.NewFromInt(100),
		Client:         "Jose Lema",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if _, err := f.service.DeleteAccount(context.Background(), created.Data.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := f.service.GetAccountByID(context.Background(), created.Data.ID); !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
}

func TestAccountServiceGetByNumberAndClientFilter(t *testing.T) {
	f := newAccountFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")
	f.seedClient(t, 8, "Marianela Montalvo", "0912345678")

	for _, req := range []models.CreateAccountRequest{
		{AccountNumber: "478758", AccountType: "SAVINGS", InitialBalance: decimal.NewFromInt(100), Client: "Jose Lema", Active: true},
		{AccountNumber: "225487", AccountType: "CHECKING", InitialBalance: decimal.NewFromInt(100), Client: "Marianela Montalvo", Active: true},
	} {
		if _, err := f.service.CreateAccount(context.Background(), req); err != nil {
			t.Fatalf("create %s: %v", req.AccountNumber, err)
		}
	}

	byNumber, err := f.service.GetAccountByNumber(context.Background(), "225487")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if byNumber.Data.Client != "Marianela Montalvo" {
		t.Fatalf("expected owner Marianela Montalvo, got %s", byNumber.Data.Client)
	}

	byClient, err := f.service.GetAccountsByClientID(context.Background(), 7)
	if err != nil {
		t.Fatalf("get by client: %v", err)
	}
	if len(*byClient.Data) != 1 || (*byClient.Data)[0].AccountNumber != "478758" {
		t.Fatalf("expected only Jose Lema's account, got %+v", byClient.Data)
	}
}
