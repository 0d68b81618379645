package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	"github.com/celenganapp/celengan/internal/config"
	currencydomain "github.com/celenganapp/celengan/internal/currency/domain"
	currencyrepo "github.com/celenganapp/celengan/internal/currency/repository"
	currencyservice "github.com/celenganapp/celengan/internal/currency/service"
	dashboardservice "github.com/celenganapp/celengan/internal/dashboard/service"
	"github.com/celenganapp/celengan/internal/observability/metrics"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	paymentrepo "github.com/celenganapp/celengan/internal/payment/repository"
	paymentservice "github.com/celenganapp/celengan/internal/payment/service"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	subscriptionrepo "github.com/celenganapp/celengan/internal/subscription/repository"
	subscriptionservice "github.com/celenganapp/celengan/internal/subscription/service"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	transactionrepo "github.com/celenganapp/celengan/internal/transaction/repository"
	transactionservice "github.com/celenganapp/celengan/internal/transaction/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&paymentdomain.SubscriptionPayment{},
		&transactiondomain.Transaction{},
		&currencydomain.ExchangeRate{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	cfg := config.Config{
		AuthJWTSecret:           testJWTSecret,
		ReportingCurrency:       "IDR",
		ProjectionHorizonMonths: 12,
	}
	fakeClock := clock.NewFakeClock(time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))

	currencysvc := currencyservice.NewService(currencyservice.ServiceParam{
		DB: db, Log: log, Cfg: cfg, Repo: currencyrepo.Provide(),
	})
	subscriptionsvc := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: fakeClock,
		Repo: subscriptionrepo.Provide(), PaymentRepo: paymentrepo.Provide(), Currencysvc: currencysvc,
	})
	transactionsvc := transactionservice.NewService(transactionservice.ServiceParam{
		DB: db, Log: log, GenID: node, Clock: fakeClock, Repo: transactionrepo.Provide(),
	})
	paymentsvc := paymentservice.NewService(paymentservice.ServiceParam{
		DB: db, Log: log, Cfg: cfg, GenID: node, Clock: fakeClock,
		Repo: paymentrepo.Provide(), SubscriptionRepo: subscriptionrepo.Provide(),
		TransactionRepo: transactionrepo.Provide(), Currencysvc: currencysvc,
	})
	dashboardsvc := dashboardservice.NewService(dashboardservice.ServiceParam{
		DB: db, Log: log, Clock: fakeClock,
		TransactionRepo: transactionrepo.Provide(), Currencysvc: currencysvc,
	})

	registry := metrics.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	engine := NewEngine(log, m, registry)
	return NewServer(ServerParams{
		Gin:             engine,
		Cfg:             cfg,
		DB:              db,
		GenID:           node,
		SubscriptionSvc: subscriptionsvc,
		TransactionSvc:  transactionsvc,
		PaymentSvc:      paymentsvc,
		DashboardSvc:    dashboardsvc,
		CurrencySvc:     currencysvc,
	})
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealthEndpointIsPublic(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/subscriptions", token, gin.H{
		"provider_name":       "Netflix",
		"amount":              "169000",
		"currency":            "IDR",
		"frequency":           "monthly",
		"anchor_payment_date": "2025-07-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeData(t, rec)["data"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/v1/subscriptions/"+id, token, gin.H{
		"provider_name":       "Netflix Premium",
		"amount":              "186000",
		"currency":            "IDR",
		"frequency":           "monthly",
		"anchor_payment_date": "2025-07-20",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/subscriptions/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscriptionValidationReturnsBadRequest(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/subscriptions", token, gin.H{
		"provider_name":       "Netflix",
		"amount":              "169000",
		"currency":            "IDR",
		"frequency":           "weekly",
		"anchor_payment_date": "2025-07-15",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestPayEndpointFlow(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/subscriptions", token, gin.H{
		"provider_name":       "Netflix",
		"amount":              "169000",
		"currency":            "IDR",
		"frequency":           "monthly",
		"anchor_payment_date": "2025-07-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/subscriptions/unpaid?until=2025-08-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	unpaid := decodeData(t, rec)["data"].([]any)
	require.Len(t, unpaid, 2)
	paymentID := unpaid[0].(map[string]any)["payment_id"].(string)

	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/payments/%s/pay", paymentID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)["data"].(map[string]any)
	transaction := data["transaction"].(map[string]any)
	assert.Equal(t, "Subscriptions", transaction["category"])
	assert.Equal(t, "Payment for Netflix - 2025-07-15", transaction["note"])

	// Retrying the same occurrence conflicts.
	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/payments/%s/pay", paymentID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Unknown occurrence is not found.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/payments/12345/pay", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"amount":   "50000",
		"category": "Food",
		"note":     "lunch",
		"date":     "2025-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeData(t, rec)["data"].(map[string]any)
	id := created["id"].(string)

	rec = doRequest(t, srv, http.MethodPut, "/api/v1/transactions/"+id, token, gin.H{
		"amount":   "60000",
		"category": "Food",
		"note":     "lunch and coffee",
		"date":     "2025-07-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/transactions/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"amount":   "75000",
		"category": "Food",
		"date":     "2025-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)["data"].(map[string]any)
	assert.Equal(t, "IDR", data["currency"])
	assert.Equal(t, "75000", data["spent_today"])
}

func TestRatesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "user-1")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/rates", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeData(t, rec)
	assert.Equal(t, "IDR", payload["reporting_currency"])
}
