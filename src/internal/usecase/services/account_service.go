package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

const unknownClientName = "unknown client"

// AccountService provisions accounts. Client identity is resolved through the
// eventually-consistent cache; a client the feed has not delivered yet is
// indistinguishable from one that never existed, so both surface as NotFound.
type AccountService struct {
	accountRepo  repo_interfaces.AccountRepository
	movementRepo repo_interfaces.MovementRepository
	clientCache  repo_interfaces.ClientCache
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	movementRepo repo_interfaces.MovementRepository,
	clientCache repo_interfaces.ClientCache,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		clientCache:  clientCache,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	clientID, err := s.resolveClient(ctx, req.Client)
	if err != nil {
		return clientErrorResponse[models.AccountResponse](err), err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	exists, err := s.accountRepo.ExistsByAccountNumber(ctx, accountNumber)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}
	if exists {
		return commons.ErrorResponse[models.AccountResponse]("Account number already exists"), commons.ErrDuplicateResource
	}

	created, err := s.accountRepo.Create(ctx, domain.Account{
		AccountNumber: accountNumber,
		AccountType:   domain.AccountType(strings.TrimSpace(req.AccountType)),
		Balance:       req.InitialBalance,
		ClientID:      clientID,
		Active:        req.Active,
	})
	if err != nil {
		if errors.Is(err, commons.ErrDuplicateResource) {
			return commons.ErrorResponse[models.AccountResponse]("Account number already exists"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	return commons.SuccessResponse("account created successfully", s.toAccountResponse(ctx, created)), nil
}

func (s *AccountService) GetAllAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}

	return commons.SuccessResponse("accounts fetched successfully", s.toAccountResponses(ctx, accounts)), nil
}

func (s *AccountService) GetAccountsByClientID(ctx context.Context, clientID int64) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}

	return commons.SuccessResponse("accounts fetched successfully", s.toAccountResponses(ctx, accounts)), nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, id int64) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", s.toAccountResponse(ctx, account)), nil
}

func (s *AccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", s.toAccountResponse(ctx, account)), nil
}

// UpdateAccount overwrites all mutable fields, re-resolving the client name
// and re-checking number uniqueness against every other account.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, req models.UpdateAccountRequest) (commons.Response[models.AccountResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	existing, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	taken, err := s.accountRepo.ExistsByAccountNumberExcluding(ctx, accountNumber, existing.ID)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}
	if taken {
		return commons.ErrorResponse[models.AccountResponse]("Account number already exists"), commons.ErrDuplicateResource
	}

	clientID, err := s.resolveClient(ctx, req.Client)
	if err != nil {
		return clientErrorResponse[models.AccountResponse](err), err
	}

	existing.AccountNumber = accountNumber
	existing.AccountType = domain.AccountType(strings.TrimSpace(req.AccountType))
	existing.Balance = req.Balance
	existing.ClientID = clientID
	existing.Active = req.Active

	updated, err := s.accountRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, commons.ErrDuplicateResource) {
			return commons.ErrorResponse[models.AccountResponse]("Account number already exists"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}

	return commons.SuccessResponse("account updated successfully", s.toAccountResponse(ctx, updated)), nil
}

// UpdateBalance is the administrative override; it bypasses the movement
// engine entirely and is logged as such.
func (s *AccountService) UpdateBalance(ctx context.Context, id int64, req models.UpdateBalanceRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service balance override", logger.Fields{
		"accountId": id,
		"balance":   req.Balance.String(),
		"audit":     "balance-override",
	})

	updated, err := s.accountRepo.UpdateBalance(ctx, id, req.Balance)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to update balance", "Unable to update balance right now"), err
	}

	return commons.SuccessResponse("balance updated successfully", s.toAccountResponse(ctx, updated)), nil
}

// DeleteAccount refuses to remove an account that still has movements
// referencing it.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (commons.Response[string], error) {
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[string]("Account not found"), err
		}
		return commons.ErrorResponse[string]("failed to delete account", "Unable to delete account right now"), err
	}

	hasMovements, err := s.movementRepo.ExistsByAccountID(ctx, id)
	if err != nil {
		return commons.ErrorResponse[string]("failed to delete account", "Unable to delete account right now"), err
	}
	if hasMovements {
		return commons.ErrorResponse[string]("account cannot be deleted", commons.ErrAccountHasMovements.Error()), commons.ErrAccountHasMovements
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[string]("Account not found"), err
		}
		return commons.ErrorResponse[string]("failed to delete account", "Unable to delete account right now"), err
	}

	return commons.SuccessResponse("account deleted successfully", "deleted"), nil
}

func (s *AccountService) resolveClient(ctx context.Context, name string) (int64, error) {
	return s.clientCache.FindIDByName(ctx, strings.TrimSpace(name))
}

func clientErrorResponse[T any](err error) commons.Response[T] {
	switch {
	case errors.Is(err, commons.ErrAmbiguousClientName):
		return commons.ErrorResponse[T]("Client name is ambiguous", err.Error())
	default:
		return commons.ErrorResponse[T]("Client not found")
	}
}

func (s *AccountService) toAccountResponses(ctx context.Context, accounts []domain.Account) []models.AccountResponse {
	out := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, s.toAccountResponse(ctx, account))
	}
	return out
}

func (s *AccountService) toAccountResponse(ctx context.Context, account domain.Account) models.AccountResponse {
	clientName := unknownClientName
	if record, err := s.clientCache.GetByID(ctx, account.ClientID); err == nil {
		clientName = record.Name
	}

	return models.AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.AccountType),
		Balance:       account.Balance.String(),
		ClientID:      account.ClientID,
		Client:        clientName,
		Active:        account.Active,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}
