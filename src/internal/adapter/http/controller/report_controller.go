package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

type ReportService interface {
	AccountStatement(ctx context.Context, identification string, dateFrom, dateTo time.Time) (commons.Response[[]models.ReportRow], error)
}

type ReportController struct {
	service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{service: service}
}

func (c *ReportController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.statement))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}
	mux.Handle("GET /reports", handler)
}

func (c *ReportController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()

	identification := strings.TrimSpace(query.Get("identification"))
	if identification == "" {
		response := commons.ErrorResponse[[]models.ReportRow]("validation failed", "identification is required")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	dateFrom, err := time.Parse("2006-01-02", query.Get("dateFrom"))
	if err != nil {
		response := commons.ErrorResponse[[]models.ReportRow]("validation failed", "dateFrom must be formatted as YYYY-MM-DD")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	dateTo, err := time.Parse("2006-01-02", query.Get("dateTo"))
	if err != nil {
		response := commons.ErrorResponse[[]models.ReportRow]("validation failed", "dateTo must be formatted as YYYY-MM-DD")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	if dateTo.Before(dateFrom) {
		response := commons.ErrorResponse[[]models.ReportRow]("validation failed", "dateTo cannot precede dateFrom")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.AccountStatement(r.Context(), identification, dateFrom, dateTo)
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
