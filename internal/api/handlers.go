package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/wakala/paysync/internal/assembler"
	"github.com/wakala/paysync/internal/domain"
	"github.com/wakala/paysync/internal/gateway"
	"github.com/wakala/paysync/internal/ingestion"
	"github.com/wakala/paysync/internal/reconciliation"
	"github.com/wakala/paysync/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	deps Deps
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error onto a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	// The client went away; nobody is left to read a response.
	if errors.Is(err, context.Canceled) {
		hlog.FromRequest(r).Debug().Err(err).Str("path", r.URL.Path).Msg("request cancelled by client")
		return
	}
	status := http.StatusInternalServerError
	var httpErr *gateway.HTTPError
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, reconciliation.ErrNotFound),
		errors.Is(err, gateway.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, assembler.ErrConfiguration):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, reconciliation.ErrVersioningConflict):
		status = http.StatusConflict
	case errors.Is(err, ingestion.ErrInvalidEvent):
		status = http.StatusBadRequest
	case errors.As(err, &httpErr):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, r, status, err.Error())
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil
		}
	}
	return &t
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// parseWait accepts a Go duration ("1500ms") or whole seconds ("5").
func parseWait(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (h *Handlers) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	order, err := h.deps.Orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return order, true
}

// --- Orders and customers ---

func (h *Handlers) PutOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order: "+err.Error())
		return
	}
	order.ID = chi.URLParam(r, "id")
	if order.Currency == "" || order.SpaceID == 0 {
		writeError(w, r, http.StatusBadRequest, "currency and space_id are required")
		return
	}

	if err := h.deps.Orders.Upsert(r.Context(), &order); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

func (h *Handlers) PutCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid customer: "+err.Error())
		return
	}
	c.ID = chi.URLParam(r, "id")
	if c.Email == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.deps.Customers.Upsert(r.Context(), &c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

// --- Transaction lifecycle ---

type confirmRequest struct {
	Invoice    *domain.Invoice `json:"invoice"`
	ChargeFlow bool            `json:"charge_flow"`
	TokenID    int64           `json:"token_id"`
}

func (h *Handlers) ConfirmOrCreate(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	var token *domain.Token
	if req.TokenID != 0 {
		token = &domain.Token{ID: req.TokenID}
	}

	tx, err := h.deps.Reconciler.ConfirmOrCreate(r.Context(), order, req.Invoice, req.ChargeFlow, token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tx)
}

func (h *Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Reconciler.Complete(r.Context(), order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) Void(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Reconciler.Void(r.Context(), order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) Accept(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Reconciler.Accept(r.Context(), order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) Deny(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Reconciler.Deny(r.Context(), order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	inv, err := h.deps.Reconciler.GetTransactionInvoice(r.Context(), order)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, inv)
}

// --- Projection ---

func (h *Handlers) GetState(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.Infos.GetByOrderID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

// WaitForState blocks until the order's transaction reaches one of the
// comma-separated states or the timeout passes. Disconnecting cancels the wait.
func (h *Handlers) WaitForState(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var states []domain.TransactionState
	for _, s := range strings.Split(q.Get("states"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			states = append(states, domain.TransactionState(strings.ToUpper(s)))
		}
	}
	if len(states) == 0 {
		writeError(w, r, http.StatusBadRequest, "states is required")
		return
	}

	wait, err := parseWait(q.Get("timeout"), h.deps.DefaultWait)
	if err != nil || wait < 0 {
		writeError(w, r, http.StatusBadRequest, "invalid timeout")
		return
	}
	if h.deps.MaxWaitLimit > 0 && wait > h.deps.MaxWaitLimit {
		wait = h.deps.MaxWaitLimit
	}

	orderID := chi.URLParam(r, "id")
	reached, err := h.deps.Poller.WaitForState(r.Context(), orderID, states, wait)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"order_id": orderID,
		"states":   states,
		"reached":  reached,
	})
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionInfoFilter{
		State: strings.ToUpper(q.Get("state")),
		From:  parseTime(q.Get("from")),
		To:    parseTime(q.Get("to")),
		Page:  parseIntDefault(q.Get("page"), 1),
		Limit: parseIntDefault(q.Get("limit"), 50),
	}
	if s := q.Get("space_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid space_id")
			return
		}
		filter.SpaceID = id
	}

	infos, total, err := h.deps.Infos.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"transactions": infos,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

// --- Webhook ---

func (h *Handlers) TransactionWebhook(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	res, err := h.deps.Ingestion.Apply(r.Context(), ingestion.SourceWebhook, data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
