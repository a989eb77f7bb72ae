package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/wakala/paysync/internal/domain"
)

// HTTPError carries the status and body of a failed gateway call.
type HTTPError struct {
	Status int
	Path   string
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway %s: status %d: %s", e.Path, e.Status, e.Body)
}

// Unwrap maps well known statuses to the package sentinels.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrVersionConflict
	}
	return nil
}

type spaceParams struct {
	SpaceID int64 `url:"spaceId"`
	ID      int64 `url:"id,omitempty"`
}

// HTTPClient talks to the gateway REST API with bearer authentication.
type HTTPClient struct {
	baseURL   *url.URL
	authToken string
	client    *http.Client
}

// NewHTTPClient returns a client for serverURL with a default timeout.
func NewHTTPClient(serverURL, authToken string, timeout time.Duration) (*HTTPClient, error) {
	return NewWithHTTPClient(serverURL, authToken, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient returns a client using the provided http.Client.
func NewWithHTTPClient(serverURL, authToken string, client *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	return &HTTPClient{baseURL: u, authToken: authToken, client: client}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params spaceParams, body, out any) error {
	qs, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	resolved := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: qs.Encode()})

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, resolved.String(), buf)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Path: path, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) FetchTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := c.do(ctx, http.MethodGet, "transaction/read", spaceParams{SpaceID: spaceID, ID: transactionID}, nil, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionCreate) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, http.MethodPost, "transaction/create", spaceParams{SpaceID: spaceID}, payload, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *HTTPClient) ConfirmTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionPending) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, http.MethodPost, "transaction/confirm", spaceParams{SpaceID: spaceID}, payload, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *HTTPClient) CompleteTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.TransactionCompletion, error) {
	var out domain.TransactionCompletion
	err := c.do(ctx, http.MethodPost, "transaction-completion/completeOnline", spaceParams{SpaceID: spaceID, ID: transactionID}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VoidTransaction(ctx context.Context, spaceID, transactionID int64) (*domain.TransactionVoid, error) {
	var out domain.TransactionVoid
	err := c.do(ctx, http.MethodPost, "transaction-void/voidOnline", spaceParams{SpaceID: spaceID, ID: transactionID}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchDeliveryIndications(ctx context.Context, spaceID int64, q domain.EntityQuery) ([]domain.DeliveryIndication, error) {
	var out []domain.DeliveryIndication
	if err := c.do(ctx, http.MethodPost, "delivery-indication/search", spaceParams{SpaceID: spaceID}, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MarkDeliveryIndicationSuitable(ctx context.Context, spaceID, id int64) (*domain.DeliveryIndication, error) {
	var out domain.DeliveryIndication
	err := c.do(ctx, http.MethodPost, "delivery-indication/markAsSuitable", spaceParams{SpaceID: spaceID, ID: id}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) MarkDeliveryIndicationNotSuitable(ctx context.Context, spaceID, id int64) (*domain.DeliveryIndication, error) {
	var out domain.DeliveryIndication
	err := c.do(ctx, http.MethodPost, "delivery-indication/markAsNotSuitable", spaceParams{SpaceID: spaceID, ID: id}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchTransactionInvoices(ctx context.Context, spaceID int64, q domain.EntityQuery) ([]domain.TransactionInvoice, error) {
	var out []domain.TransactionInvoice
	if err := c.do(ctx, http.MethodPost, "transaction-invoice/search", spaceParams{SpaceID: spaceID}, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
