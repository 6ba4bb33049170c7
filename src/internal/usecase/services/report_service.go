package services

import (
	"context"
	"errors"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

// ReportService assembles client statements by joining the movement history
// against the identity cache.
type ReportService struct {
	movementRepo repo_interfaces.MovementRepository
	clientCache  repo_interfaces.ClientCache
}

func NewReportService(
	movementRepo repo_interfaces.MovementRepository,
	clientCache repo_interfaces.ClientCache,
) *ReportService {
	return &ReportService{
		movementRepo: movementRepo,
		clientCache:  clientCache,
	}
}

// AccountStatement lists every movement of the client's accounts whose commit
// timestamp falls on a day inside [dateFrom, dateTo], both ends inclusive.
func (s *ReportService) AccountStatement(ctx context.Context, identification string, dateFrom, dateTo time.Time) (commons.Response[[]models.ReportRow], error) {
	logger.Info("report service statement", logger.Fields{
		"identification": identification,
		"dateFrom":       dateFrom.Format("2006-01-02"),
		"dateTo":         dateTo.Format("2006-01-02"),
	})

	clientID, err := s.clientCache.FindIDByIdentification(ctx, identification)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.ReportRow]("Client not found"), err
		}
		if errors.Is(err, commons.ErrAmbiguousClientName) {
			return commons.ErrorResponse[[]models.ReportRow]("Client identification is ambiguous", err.Error()), err
		}
		return commons.ErrorResponse[[]models.ReportRow]("failed to build report", "Unable to build report right now"), err
	}

	clientName := unknownClientName
	if record, cacheErr := s.clientCache.GetByID(ctx, clientID); cacheErr == nil {
		clientName = record.Name
	}

	// The range is inclusive day-level; the store query is half-open.
	to := dateTo.AddDate(0, 0, 1)
	entries, err := s.movementRepo.ListByClientIDAndDateRange(ctx, clientID, dateFrom, to)
	if err != nil {
		return commons.ErrorResponse[[]models.ReportRow]("failed to build report", "Unable to build report right now"), err
	}

	rows := make([]models.ReportRow, 0, len(entries))
	for _, entry := range entries {
		effect := entry.Movement.SignedEffect()
		rows = append(rows, models.ReportRow{
			Date:             entry.Movement.OccurredAt.Format(time.RFC3339),
			Client:           clientName,
			AccountNumber:    entry.Account.AccountNumber,
			AccountType:      string(entry.Account.AccountType),
			InitialBalance:   entry.Movement.Balance.Sub(effect).String(),
			Active:           entry.Account.Active,
			Movement:         effect.String(),
			AvailableBalance: entry.Movement.Balance.String(),
		})
	}

	return commons.SuccessResponse("report generated successfully", rows), nil
}
