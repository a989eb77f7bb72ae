package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/paysync/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, "secret", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestHTTPClient_FetchTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/read", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("spaceId"))
		assert.Equal(t, "345", r.URL.Query().Get("id"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":345,"version":3,"state":"PENDING","linkedSpaceId":12}`))
	})

	tx, err := c.FetchTransaction(context.Background(), 12, 345)
	require.NoError(t, err)
	assert.Equal(t, int64(345), tx.ID)
	assert.Equal(t, 3, tx.Version)
	assert.Equal(t, domain.StatePending, tx.State)
}

func TestHTTPClient_ConfirmTransaction_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/confirm", r.URL.Path)

		var body domain.TransactionPending
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(7), body.ID)
		assert.Equal(t, 2, body.Version)
		assert.Equal(t, "EUR", body.Currency)

		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"version mismatch"}`))
	})

	payload := &domain.TransactionPending{ID: 7, Version: 2}
	payload.Currency = "EUR"
	_, err := c.ConfirmTransaction(context.Background(), 1, payload)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestHTTPClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchTransaction(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_SearchTransactionInvoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction-invoice/search", r.URL.Path)

		var q domain.EntityQuery
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		if assert.NotNil(t, q.Filter) {
			assert.Equal(t, "completion.lineItemVersion.transaction.id", q.Filter.FieldName)
		}
		assert.Equal(t, 1, q.NumberOfEntities)

		_, _ = w.Write([]byte(`[{"id":99,"linkedTransaction":5,"state":"PAID"}]`))
	})

	out, err := c.SearchTransactionInvoices(context.Background(), 1,
		domain.EqualsQuery("completion.lineItemVersion.transaction.id", int64(5), 1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(99), out[0].ID)
}

func TestHTTPClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	})

	_, err := c.VoidTransaction(context.Background(), 1, 2)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrVersionConflict))
	assert.Contains(t, err.Error(), "upstream down")
}
