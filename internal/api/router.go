package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/wakala/paysync/internal/ingestion"
	"github.com/wakala/paysync/internal/poller"
	"github.com/wakala/paysync/internal/reconciliation"
	"github.com/wakala/paysync/internal/repository"
)

// Deps are the services the HTTP API exposes.
type Deps struct {
	Orders       *repository.OrderRepo
	Customers    *repository.CustomerRepo
	Infos        *repository.TransactionInfoRepo
	Reconciler   *reconciliation.Reconciler
	Poller       *poller.Poller
	Ingestion    *ingestion.Service
	DefaultWait  time.Duration
	MaxWaitLimit time.Duration
}

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(logger *zerolog.Logger, deps Deps) http.Handler {
	h := &Handlers{deps: deps}
	if h.deps.DefaultWait <= 0 {
		h.deps.DefaultWait = poller.DefaultMaxWait
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(*logger))

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		// Gateway push notifications.
		r.Post("/webhooks/transaction", h.TransactionWebhook)

		r.Route("/api/v1", func(r chi.Router) {
			// Local inputs.
			r.Put("/orders/{id}", h.PutOrder)
			r.Get("/orders/{id}", h.GetOrder)
			r.Put("/customers/{id}", h.PutCustomer)

			// Transaction lifecycle.
			r.Route("/orders/{id}/transaction", func(r chi.Router) {
				r.Post("/confirm", h.ConfirmOrCreate)
				r.Post("/complete", h.Complete)
				r.Post("/void", h.Void)
				r.Post("/accept", h.Accept)
				r.Post("/deny", h.Deny)
				r.Get("/invoice", h.GetInvoice)
				r.Get("/state", h.GetState)
				r.Get("/wait", h.WaitForState)
			})

			// Projection.
			r.Get("/transactions", h.ListTransactions)
		})
	})

	return r
}
