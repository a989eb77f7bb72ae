package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/paysync/internal/assembler"
	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/gateway"
	mock_gateway "github.com/wakala/paysync/internal/gateway/mock"
	"github.com/wakala/paysync/internal/ingestion"
	"github.com/wakala/paysync/internal/poller"
	"github.com/wakala/paysync/internal/reconciliation"
	"github.com/wakala/paysync/internal/repository"
)

type fakeStores struct{}

func (fakeStores) BaseURL(string) string       { return "https://shop.example.com" }
func (fakeStores) Locale(string) string        { return "en-US" }
func (fakeStores) SpaceViewIDFor(string) int64 { return 0 }

type testEnv struct {
	server  *httptest.Server
	handler http.Handler
	gw      *mock_gateway.MockClient
	orders  *repository.OrderRepo
	infos   *repository.TransactionInfoRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gw := mock_gateway.NewMockClient(gomock.NewController(t))
	orders := repository.NewOrderRepo(db)
	customers := repository.NewCustomerRepo(db)
	infos := repository.NewTransactionInfoRepo(db)

	logger := zerolog.Nop()
	router := NewRouter(&logger, Deps{
		Orders:      orders,
		Customers:   customers,
		Infos:       infos,
		Reconciler:  reconciliation.New(gw, assembler.New(customers, fakeStores{}, nil), orders, nil),
		Poller:      poller.New(infos, 5*time.Millisecond),
		Ingestion:   ingestion.NewService(infos),
		DefaultWait: 50 * time.Millisecond,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, handler: router, gw: gw, orders: orders, infos: infos}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

const orderJSON = `{
	"increment_id": "000000100",
	"quote_id": "q-1",
	"store_id": "default",
	"currency": "EUR",
	"customer_email": "buyer@example.com",
	"space_id": 1,
	"security_token": "tok",
	"items": [{"id": "i-1", "sku": "A", "name": "Thing", "qty": "1", "row_total_incl_tax": "10.00"}],
	"payment": {"method": "card", "configuration_id": 42}
}`

func TestPutAndGetOrder(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPut, "/api/v1/orders/100", orderJSON)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/v1/orders/100", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "000000100", body["increment_id"])
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/404", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutOrder_Invalid(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPut, "/api/v1/orders/100", `{"increment_id":"1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfirm_CreatesAndLinks(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/v1/orders/100", orderJSON)

	env.gw.EXPECT().CreateTransaction(gomock.Any(), int64(1), gomock.Any()).
		Return(&domain.Transaction{ID: 555, Version: 1, State: domain.StatePending}, nil)

	resp, body := env.do(t, http.MethodPost, "/api/v1/orders/100/transaction/confirm", `{"invoice":{"increment_id":"INV-1"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 555, body["id"])

	order, err := env.orders.GetByID(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, int64(555), order.TransactionID)
}

func TestConfirm_ErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/v1/orders/100", orderJSON)
	require.NoError(t, env.orders.SetTransaction(context.Background(), "100", 1, 555))

	pending := &domain.Transaction{ID: 555, Version: 1, State: domain.StatePending}
	env.gw.EXPECT().FetchTransaction(gomock.Any(), int64(1), int64(555)).Return(pending, nil).Times(reconciliation.MaxConfirmAttempts)
	env.gw.EXPECT().ConfirmTransaction(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, gateway.ErrVersionConflict).Times(reconciliation.MaxConfirmAttempts)

	resp, body := env.do(t, http.MethodPost, "/api/v1/orders/100/transaction/confirm", `{}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "versioning conflict")

	// Interactive flow without a token is a configuration problem.
	order, err := env.orders.GetByID(context.Background(), "100")
	require.NoError(t, err)
	order.SecurityToken = ""
	require.NoError(t, env.orders.Upsert(context.Background(), order))

	resp, _ = env.do(t, http.MethodPost, "/api/v1/orders/100/transaction/confirm", ``)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvoice_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/v1/orders/100", orderJSON)

	env.gw.EXPECT().SearchTransactionInvoices(gomock.Any(), int64(1), gomock.Any()).Return(nil, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/invoice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComplete_GatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPut, "/api/v1/orders/100", orderJSON)

	env.gw.EXPECT().CompleteTransaction(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, &gateway.HTTPError{Status: http.StatusServiceUnavailable, Path: "transaction-completion/completeOnline"})

	resp, _ := env.do(t, http.MethodPost, "/api/v1/orders/100/transaction/complete", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestWebhookThenWait(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/wait?states=authorized", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/webhooks/transaction",
		`{"eventId":"e-1","orderId":"100","spaceId":1,"transactionId":555,"version":2,"state":"AUTHORIZED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["changed"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/wait?states=AUTHORIZED,COMPLETED&timeout=1s", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["reached"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/wait?states=COMPLETED&timeout=20ms", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["reached"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/transactions?state=authorized", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])
}

func TestWebhook_Invalid(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/webhooks/transaction", `{"orderId":"100"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWait_BadRequest(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/wait", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/orders/100/transaction/wait?states=PENDING&timeout=soon", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWait_ClientGoneWritesNothing(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(30*time.Millisecond, cancel)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/100/transaction/wait?states=COMPLETED&timeout=1s", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	env.handler.ServeHTTP(rec, req)

	assert.Zero(t, rec.Body.Len())
	assert.False(t, rec.Flushed)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantBody bool
	}{
		{"cancelled", context.Canceled, http.StatusOK, false},
		{"wrapped cancel", fmt.Errorf("wait: %w", context.Canceled), http.StatusOK, false},
		{"not found", fmt.Errorf("order 1: %w", repository.ErrNotFound), http.StatusNotFound, true},
		{"conflict", reconciliation.ErrVersioningConflict, http.StatusConflict, true},
		{"gateway", &gateway.HTTPError{Status: 503, Path: "/transaction/read"}, http.StatusBadGateway, true},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.Len() > 0)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "application/json", resp.Header.Get("Content-Type"))
}
