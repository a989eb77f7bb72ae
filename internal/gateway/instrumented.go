package gateway

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wakala/paysync/internal/domain"
)

var clientDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name:       "gateway_client_duration_seconds",
	Help:       "gateway client runtime duration and result",
	MaxAge:     time.Minute,
	Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
},
	[]string{"instance_name", "method", "result"},
)

// InstrumentedClient decorates a Client with a prometheus summary.
type InstrumentedClient struct {
	name string
	base Client
}

// NewInstrumentedClient wraps base, labelling observations with name.
func NewInstrumentedClient(base Client, name string) *InstrumentedClient {
	return &InstrumentedClient{name: name, base: base}
}

func (c *InstrumentedClient) observe(method string, since time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	clientDuration.WithLabelValues(c.name, method, result).Observe(time.Since(since).Seconds())
}

func (c *InstrumentedClient) FetchTransaction(ctx context.Context, spaceID, transactionID int64) (tx *domain.Transaction, err error) {
	defer func(since time.Time) { c.observe("FetchTransaction", since, err) }(time.Now())
	return c.base.FetchTransaction(ctx, spaceID, transactionID)
}

func (c *InstrumentedClient) CreateTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionCreate) (tx *domain.Transaction, err error) {
	defer func(since time.Time) { c.observe("CreateTransaction", since, err) }(time.Now())
	return c.base.CreateTransaction(ctx, spaceID, payload)
}

func (c *InstrumentedClient) ConfirmTransaction(ctx context.Context, spaceID int64, payload *domain.TransactionPending) (tx *domain.Transaction, err error) {
	defer func(since time.Time) { c.observe("ConfirmTransaction", since, err) }(time.Now())
	return c.base.ConfirmTransaction(ctx, spaceID, payload)
}

func (c *InstrumentedClient) CompleteTransaction(ctx context.Context, spaceID, transactionID int64) (out *domain.TransactionCompletion, err error) {
	defer func(since time.Time) { c.observe("CompleteTransaction", since, err) }(time.Now())
	return c.base.CompleteTransaction(ctx, spaceID, transactionID)
}

func (c *InstrumentedClient) VoidTransaction(ctx context.Context, spaceID, transactionID int64) (out *domain.TransactionVoid, err error) {
	defer func(since time.Time) { c.observe("VoidTransaction", since, err) }(time.Now())
	return c.base.VoidTransaction(ctx, spaceID, transactionID)
}

func (c *InstrumentedClient) SearchDeliveryIndications(ctx context.Context, spaceID int64, q domain.EntityQuery) (out []domain.DeliveryIndication, err error) {
	defer func(since time.Time) { c.observe("SearchDeliveryIndications", since, err) }(time.Now())
	return c.base.SearchDeliveryIndications(ctx, spaceID, q)
}

func (c *InstrumentedClient) MarkDeliveryIndicationSuitable(ctx context.Context, spaceID, id int64) (out *domain.DeliveryIndication, err error) {
	defer func(since time.Time) { c.observe("MarkDeliveryIndicationSuitable", since, err) }(time.Now())
	return c.base.MarkDeliveryIndicationSuitable(ctx, spaceID, id)
}

func (c *InstrumentedClient) MarkDeliveryIndicationNotSuitable(ctx context.Context, spaceID, id int64) (out *domain.DeliveryIndication, err error) {
	defer func(since time.Time) { c.observe("MarkDeliveryIndicationNotSuitable", since, err) }(time.Now())
	return c.base.MarkDeliveryIndicationNotSuitable(ctx, spaceID, id)
}

func (c *InstrumentedClient) SearchTransactionInvoices(ctx context.Context, spaceID int64, q domain.EntityQuery) (out []domain.TransactionInvoice, err error) {
	defer func(since time.Time) { c.observe("SearchTransactionInvoices", since, err) }(time.Now())
	return c.base.SearchTransactionInvoices(ctx, spaceID, q)
}
