package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/logger"
)

func logRequest(r *http.Request, payload any) {
	logger.Info("http request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("http response", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	}
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorStatus maps a service response message to an HTTP status. Messages are
// the contract between the services and this layer.
func errorStatus(message string) int {
	switch message {
	case "validation failed", "unsupported operation":
		return http.StatusBadRequest
	case "Account not found", "Movement not found", "Client not found":
		return http.StatusNotFound
	case "Account number already exists",
		"Client name is ambiguous",
		"Client identification is ambiguous",
		"account cannot be deleted",
		"movement cannot be deleted":
		return http.StatusConflict
	case "Insufficient funds":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
