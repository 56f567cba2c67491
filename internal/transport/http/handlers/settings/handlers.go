package settingshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"folha/internal/domain/audit"
	"folha/internal/domain/settings"
	"folha/internal/domain/tax"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Rates  *settings.FileStore
	Tables tax.Tables
	Audit  *audit.Service
}

func NewHandler(rates *settings.FileStore, tables tax.Tables, auditService *audit.Service) *Handler {
	return &Handler{Rates: rates, Tables: tables, Audit: auditService}
}

// ratesPayload replaces both rates; a missing field is rejected rather than
// saved as zero.
type ratesPayload struct {
	CBSRate decimal.NullDecimal `json:"cbsRate"`
	IBSRate decimal.NullDecimal `json:"ibsRate"`
}

type ratesResponse struct {
	settings.Rates
	Combined decimal.Decimal `json:"combinedRate"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/rates", h.handleGetRates)
	r.Put("/settings/rates", h.handlePutRates)
	r.Get("/settings/tax-tables", h.handleTaxTables)
}

func (h *Handler) handleGetRates(w http.ResponseWriter, r *http.Request) {
	rates := h.Rates.Rates()
	api.Success(w, ratesResponse{Rates: rates, Combined: rates.Combined()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePutRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload ratesPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Rate("cbsRate", payload.CBSRate)
	v.Rate("ibsRate", payload.IBSRate)
	if v.Reject(w, requestID) {
		return
	}
	before := h.Rates.Rates()
	rates := settings.Rates{CBS: payload.CBSRate.Decimal, IBS: payload.IBSRate.Decimal}
	if err := h.Rates.Save(rates); err != nil {
		shared.FailDomain(w, requestID, err, "rates_save_failed", "failed to save rates")
		return
	}
	saved := h.Rates.Rates()
	shared.RecordAudit(r, h.Audit, audit.ActionRatesUpdate, "settings", "rates", before, saved)
	slog.Info("consumption tax rates updated", "cbs", saved.CBS.String(), "ibs", saved.IBS.String(), "requestId", requestID)
	api.Success(w, ratesResponse{Rates: saved, Combined: saved.Combined()}, requestID)
}

func (h *Handler) handleTaxTables(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Tables, middleware.GetRequestID(r.Context()))
}
