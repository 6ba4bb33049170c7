package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

type reportFixture struct {
	accounts  *memory.AccountRepository
	movements *memory.MovementRepository
	cache     *memory.ClientCache
	service   *services.ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	accounts := memory.NewAccountRepository()
	movements := memory.NewMovementRepository(accounts)
	cache := memory.NewClientCache()
	return &reportFixture{
		accounts:  accounts,
		movements: movements,
		cache:     cache,
		service:   services.NewReportService(movements, cache),
	}
}

func TestReportServiceStatementRows(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	if err := f.cache.Upsert(ctx, domain.ClientRecord{
		ID: 7, Name: "Jose Lema", Identification: "1710034065", Active: true,
	}); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	account, err := f.accounts.Create(ctx, domain.Account{
		AccountNumber: "478758",
		AccountType:   domain.AccountTypeSavings,
		Balance:       decimal.NewFromInt(100),
		ClientID:      7,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	movementService := services.NewMovementService(f.movements, f.accounts)
	for _, step := range []struct {
		movementType string
		value        int64
	}{
		{"DEPOSIT", 600},
		{"WITHDRAWAL", 75},
	} {
		if _, err := movementService.CreateMovement(ctx, models.CreateMovementRequest{
			AccountID:    account.ID,
			MovementType: step.movementType,
			Value:        decimal.NewFromInt(step.value),
		}); err != nil {
			t.Fatalf("create %s: %v", step.movementType, err)
		}
	}

	now := time.Now()
	resp, err := f.service.AccountStatement(ctx, "1710034065", now.AddDate(0, 0, -1), now)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}

	rows := *resp.Data
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	deposit := rows[0]
	if deposit.Client != "Jose Lema" || deposit.AccountNumber != "478758" {
		t.Fatalf("unexpected join columns: %+v", deposit)
	}
	if deposit.InitialBalance != "100" || deposit.Movement != "600" || deposit.AvailableBalance != "700" {
		t.Fatalf("unexpected deposit row math: %+v", deposit)
	}

	withdrawal := rows[1]
	if withdrawal.InitialBalance != "700" || withdrawal.Movement != "-75" || withdrawal.AvailableBalance != "625" {
		t.Fatalf("unexpected withdrawal row math: %+v", withdrawal)
	}
}

func TestReportServiceStatementOutsideRangeIsEmpty(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	if err := f.cache.Upsert(ctx, domain.ClientRecord{
		ID: 7, Name: "Jose Lema", Identification: "1710034065", Active: true,
	}); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	account, err := f.accounts.Create(ctx, domain.Account{
		AccountNumber: "478758",
		AccountType:   domain.AccountTypeSavings,
		Balance:       decimal.NewFromInt(100),
		ClientID:      7,
		Active:        true,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	movementService := services.NewMovementService(f.movements, f.accounts)
	if _, err := movementService.CreateMovement(ctx, models.CreateMovementRequest{
		AccountID:    account.ID,
		MovementType: "DEPOSIT",
		Value:        decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("create movement: %v", err)
	}

	now := time.Now()
	resp, err := f.service.AccountStatement(ctx, "1710034065", now.AddDate(0, 0, -5), now.AddDate(0, 0, -3))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(*resp.Data) != 0 {
		t.Fatalf("expected no rows outside the range, got %d", len(*resp.Data))
	}
}

func TestReportServiceStatementUnknownIdentification(t *testing.T) {
	f := newReportFixture(t)

	now := time.Now()
	_, err := f.service.AccountStatement(context.Background(), "0000000000", now.AddDate(0, 0, -1), now)
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}
