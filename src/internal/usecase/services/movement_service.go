package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

// MovementService is the only writer of account balances outside the
// administrative override. Every movement commits together with the balance
// it produces.
type MovementService struct {
	movementRepo repo_interfaces.MovementRepository
	accountRepo  repo_interfaces.AccountRepository
	locks        *accountLocks
}

func NewMovementService(
	movementRepo repo_interfaces.MovementRepository,
	accountRepo repo_interfaces.AccountRepository,
) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		accountRepo:  accountRepo,
		locks:        newAccountLocks(),
	}
}

func (s *MovementService) CreateMovement(ctx context.Context, req models.CreateMovementRequest) (commons.Response[models.MovementResponse], error) {
	logger.Info("movement service create", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.MovementResponse]("validation failed", err.Error()), err
	}

	movementType := domain.MovementType(strings.TrimSpace(req.MovementType))

	unlock := s.locks.Lock(req.AccountID)
	defer unlock()

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to create movement", "Unable to create movement right now"), err
	}

	if movementType.Debit() && account.Balance.LessThan(req.Value) {
		fundsErr := &commons.InsufficientFundsError{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance.String(),
			Requested:     req.Value.String(),
		}
		return commons.ErrorResponse[models.MovementResponse]("Insufficient funds", fundsErr.Error()), fundsErr
	}

	created, err := s.movementRepo.CreateWithBalance(ctx, domain.Movement{
		MovementType: movementType,
		Value:        req.Value,
		AccountID:    account.ID,
		Description:  req.Description,
	})
	if err != nil {
		if errors.Is(err, commons.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.MovementResponse]("Insufficient funds", err.Error()), err
		}
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to create movement", "Unable to create movement right now"), err
	}

	return commons.SuccessResponse("movement created successfully", toMovementResponse(created)), nil
}

// CreateMovementFromOperation resolves the account by its external number,
// parses the free-text phrase, and hands the result to the primary creation
// path.
func (s *MovementService) CreateMovementFromOperation(ctx context.Context, req models.OperationRequest) (commons.Response[models.MovementResponse], error) {
	logger.Info("movement service create from operation", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.MovementResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.AccountNumber))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to create movement", "Unable to create movement right now"), err
	}

	movementType, value, err := ParseOperationPhrase(req.Movement)
	if err != nil {
		return commons.ErrorResponse[models.MovementResponse]("unsupported operation", err.Error()), err
	}

	return s.CreateMovement(ctx, models.CreateMovementRequest{
		AccountID:    account.ID,
		MovementType: string(movementType),
		Value:        value,
		Description:  req.Movement,
	})
}

func (s *MovementService) ListMovements(ctx context.Context, filter repo_interfaces.MovementFilter) (commons.Response[[]models.MovementResponse], error) {
	movements, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return commons.ErrorResponse[[]models.MovementResponse]("failed to list movements", "Unable to list movements right now"), err
	}

	out := make([]models.MovementResponse, 0, len(movements))
	for _, movement := range movements {
		out = append(out, toMovementResponse(movement))
	}

	return commons.SuccessResponse("movements fetched successfully", out), nil
}

func (s *MovementService) GetMovementByID(ctx context.Context, id int64) (commons.Response[models.MovementResponse], error) {
	movement, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Movement not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to get movement", "Unable to fetch movement right now"), err
	}

	return commons.SuccessResponse("movement fetched successfully", toMovementResponse(movement)), nil
}

// UpdateMovement only mutates the free-text description. A committed
// movement's financial fields are historical facts; requests that try to
// change them are rejected.
func (s *MovementService) UpdateMovement(ctx context.Context, id int64, req models.UpdateMovementRequest) (commons.Response[models.MovementResponse], error) {
	existing, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Movement not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to update movement", "Unable to update movement right now"), err
	}

	if req.MovementType != "" && domain.MovementType(strings.TrimSpace(req.MovementType)) != existing.MovementType {
		err := fmt.Errorf("movementType of a committed movement cannot be changed")
		return commons.ErrorResponse[models.MovementResponse]("validation failed", err.Error()), err
	}
	if req.Value != nil && !req.Value.Equal(existing.Value) {
		err := fmt.Errorf("value of a committed movement cannot be changed")
		return commons.ErrorResponse[models.MovementResponse]("validation failed", err.Error()), err
	}

	updated, err := s.movementRepo.UpdateDescription(ctx, id, req.Description)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.MovementResponse]("Movement not found"), err
		}
		return commons.ErrorResponse[models.MovementResponse]("failed to update movement", "Unable to update movement right now"), err
	}

	return commons.SuccessResponse("movement updated successfully", toMovementResponse(updated)), nil
}

// DeleteMovement removes the account's most recent movement and rolls its
// effect out of the balance. Older movements are immutable history.
func (s *MovementService) DeleteMovement(ctx context.Context, id int64) (commons.Response[string], error) {
	movement, err := s.movementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[string]("Movement not found"), err
		}
		return commons.ErrorResponse[string]("failed to delete movement", "Unable to delete movement right now"), err
	}

	unlock := s.locks.Lock(movement.AccountID)
	defer unlock()

	if err := s.movementRepo.DeleteWithRollback(ctx, id); err != nil {
		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			return commons.ErrorResponse[string]("Movement not found"), err
		case errors.Is(err, commons.ErrNotLatestMovement):
			return commons.ErrorResponse[string]("movement cannot be deleted", err.Error()), err
		default:
			return commons.ErrorResponse[string]("failed to delete movement", "Unable to delete movement right now"), err
		}
	}

	return commons.SuccessResponse("movement deleted successfully", "deleted"), nil
}

func toMovementResponse(movement domain.Movement) models.MovementResponse {
	return models.MovementResponse{
		ID:           movement.ID,
		Date:         movement.OccurredAt.Format(time.RFC3339),
		MovementType: string(movement.MovementType),
		Value:        movement.Value.String(),
		Balance:      movement.Balance.String(),
		AccountID:    movement.AccountID,
		Description:  movement.Description,
	}
}
