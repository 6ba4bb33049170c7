package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

func TestMain(m *testing.M) {
	logger.Replace(zap.NewNop())
	os.Exit(m.Run())
}

type fixture struct {
	mux   *http.ServeMux
	cache *memory.ClientCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	accounts := memory.NewAccountRepository()
	movements := memory.NewMovementRepository(accounts)
	cache := memory.NewClientCache()

	mux := router.New(
		controller.NewAccountController(services.NewAccountService(accounts, movements, cache)),
		controller.NewMovementController(services.NewMovementService(movements, accounts)),
		controller.NewReportController(services.NewReportService(movements, cache)),
		nil,
	)

	return &fixture{mux: mux, cache: cache}
}

func (f *fixture) seedClient(t *testing.T, id int64, name, identification string) {
	t.Helper()
	require.NoError(t, f.cache.Upsert(context.Background(), domain.ClientRecord{
		ID: id, Name: name, Identification: identification, Active: true,
	}))
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data"`
	Errors  []string `json:"errors"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAccountEndpointsRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	rec := f.do(t, http.MethodPost, "/accounts", `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 2000,
		"client": "Jose Lema",
		"active": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeEnvelope[models.AccountResponse](t, rec)
	require.True(t, created.Success)
	require.NotNil(t, created.Data)
	require.Equal(t, "Jose Lema", created.Data.Client)
	require.Equal(t, "2000", created.Data.Balance)

	rec = f.do(t, http.MethodGet, "/accounts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/accounts/by-number/478758", "")
	require.Equal(t, http.StatusOK, rec.Code)
	byNumber := decodeEnvelope[models.AccountResponse](t, rec)
	require.Equal(t, int64(1), byNumber.Data.ID)

	rec = f.do(t, http.MethodGet, "/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeEnvelope[[]models.AccountResponse](t, rec)
	require.Len(t, *list.Data, 1)
}

func TestAccountEndpointErrorStatuses(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	// Unknown client resolves to 404.
	rec := f.do(t, http.MethodPost, "/accounts", `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 100,
		"client": "Nadie",
		"active": true
	}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Validation failures are 400.
	rec = f.do(t, http.MethodPost, "/accounts", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope[models.AccountResponse](t, rec)
	require.Equal(t, "validation failed", envelope.Message)

	// Duplicate account numbers are 409.
	body := `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 100,
		"client": "Jose Lema",
		"active": true
	}`
	rec = f.do(t, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Missing accounts are 404, malformed ids are 400.
	rec = f.do(t, http.MethodGet, "/accounts/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/accounts/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovementEndpoints(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	rec := f.do(t, http.MethodPost, "/accounts", `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 100,
		"client": "Jose Lema",
		"active": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/movements", `{
		"accountId": 1,
		"movementType": "DEPOSIT",
		"value": 600
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	deposit := decodeEnvelope[models.MovementResponse](t, rec)
	require.Equal(t, "700", deposit.Data.Balance)

	// Overdrafts are rejected as unprocessable.
	rec = f.do(t, http.MethodPost, "/movements", `{
		"accountId": 1,
		"movementType": "WITHDRAWAL",
		"value": 10000
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	overdraft := decodeEnvelope[models.MovementResponse](t, rec)
	require.Equal(t, "Insufficient funds", overdraft.Message)

	// Free-text operation phrase.
	rec = f.do(t, http.MethodPost, "/movements/operation", `{
		"accountNumber": "478758",
		"movement": "Retiro de 575"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	operation := decodeEnvelope[models.MovementResponse](t, rec)
	require.Equal(t, "WITHDRAWAL", operation.Data.MovementType)
	require.Equal(t, "125", operation.Data.Balance)

	// Unparseable phrases are 400.
	rec = f.do(t, http.MethodPost, "/movements/operation", `{
		"accountNumber": "478758",
		"movement": "prestamo de 100"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Deleting an account with movements is 409.
	rec = f.do(t, http.MethodDelete, "/accounts/1", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/movements?accountId=1&movementType=WITHDRAWAL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeEnvelope[[]models.MovementResponse](t, rec)
	require.Len(t, *filtered.Data, 1)

	// Only the latest movement may be deleted.
	rec = f.do(t, http.MethodDelete, "/movements/1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = f.do(t, http.MethodDelete, "/movements/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	rec := f.do(t, http.MethodPost, "/accounts", `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 100,
		"client": "Jose Lema",
		"active": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/movements", `{
		"accountId": 1,
		"movementType": "DEPOSIT",
		"value": 600
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	rec = f.do(t, http.MethodGet, "/reports?identification=1710034065&dateFrom="+from+"&dateTo="+to, "")
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeEnvelope[[]models.ReportRow](t, rec)
	require.Len(t, *report.Data, 1)
	row := (*report.Data)[0]
	require.Equal(t, "Jose Lema", row.Client)
	require.Equal(t, "100", row.InitialBalance)
	require.Equal(t, "600", row.Movement)
	require.Equal(t, "700", row.AvailableBalance)

	// Missing parameters are 400, unknown clients 404.
	rec = f.do(t, http.MethodGet, "/reports?dateFrom="+from+"&dateTo="+to, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodGet, "/reports?identification=000&dateFrom="+from+"&dateTo="+to, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/reports?identification=1710034065&dateFrom="+to+"&dateTo="+from, "")
	if from != to {
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestUpdateBalanceEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedClient(t, 7, "Jose Lema", "1710034065")

	rec := f.do(t, http.MethodPost, "/accounts", `{
		"accountNumber": "478758",
		"accountType": "SAVINGS",
		"initialBalance": 100,
		"client": "Jose Lema",
		"active": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPatch, "/accounts/1/balance", `{"balance": 999.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeEnvelope[models.AccountResponse](t, rec)
	require.Equal(t, "999.5", updated.Data.Balance)

	rec = f.do(t, http.MethodPatch, "/accounts/42/balance", `{"balance": 1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
