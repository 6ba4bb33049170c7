package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

type MovementService interface {
	CreateMovement(ctx context.Context, req models.CreateMovementRequest) (commons.Response[models.MovementResponse], error)
	CreateMovementFromOperation(ctx context.Context, req models.OperationRequest) (commons.Response[models.MovementResponse], error)
	ListMovements(ctx context.Context, filter repo_interfaces.MovementFilter) (commons.Response[[]models.MovementResponse], error)
	GetMovementByID(ctx context.Context, id int64) (commons.Response[models.MovementResponse], error)
	UpdateMovement(ctx context.Context, id int64, req models.UpdateMovementRequest) (commons.Response[models.MovementResponse], error)
	DeleteMovement(ctx context.Context, id int64) (commons.Response[string], error)
}

type MovementController struct {
	service MovementService
}

func NewMovementController(service MovementService) *MovementController {
	return &MovementController{service: service}
}

func (c *MovementController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /movements", wrap(c.createMovement))
	mux.Handle("POST /movements/operation", wrap(c.createFromOperation))
	mux.Handle("GET /movements", wrap(c.listMovements))
	mux.Handle("GET /movements/{id}", wrap(c.getMovement))
	mux.Handle("PUT /movements/{id}", wrap(c.updateMovement))
	mux.Handle("DELETE /movements/{id}", wrap(c.deleteMovement))
}

func (c *MovementController) createMovement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.MovementResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateMovement(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *MovementController) createFromOperation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.MovementResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateMovementFromOperation(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *MovementController) listMovements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	filter, err := movementFilterFromQuery(r)
	if err != nil {
		response := commons.ErrorResponse[[]models.MovementResponse]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.ListMovements(r.Context(), filter)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *MovementController) getMovement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.GetMovementByID(r.Context(), id)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *MovementController) updateMovement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}

	var req models.UpdateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.MovementResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateMovement(r.Context(), id, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *MovementController) deleteMovement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id, ok := pathID(w, r, start)
	if !ok {
		return
	}

	response, err := c.service.DeleteMovement(r.Context(), id)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := errorStatus(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func movementFilterFromQuery(r *http.Request) (repo_interfaces.MovementFilter, error) {
	var filter repo_interfaces.MovementFilter
	query := r.URL.Query()

	if raw := query.Get("accountId"); raw != "" {
		accountID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("accountId must be a number")
		}
		filter.AccountID = &accountID
	}

	if raw := query.Get("movementType"); raw != "" {
		movementType := domain.MovementType(raw)
		if !movementType.Valid() {
			return filter, errors.New("movementType must be one of DEPOSIT, WITHDRAWAL, TRANSFER, PAYMENT")
		}
		filter.MovementType = &movementType
	}

	if raw := query.Get("dateFrom"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("dateFrom must be formatted as YYYY-MM-DD")
		}
		filter.From = &from
	}

	if raw := query.Get("dateTo"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("dateTo must be formatted as YYYY-MM-DD")
		}
		// Inclusive day boundary; the store filters half-open.
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	return filter, nil
}
