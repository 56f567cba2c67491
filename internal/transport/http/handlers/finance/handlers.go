package financehandler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/finance"
	"folha/internal/domain/payroll"
	"folha/internal/domain/records"
	"folha/internal/domain/reports"
	"folha/internal/domain/settings"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

// RatesSource hands out the current consumption-tax rates snapshot.
type RatesSource interface {
	Rates() settings.Rates
}

type Handler struct {
	Records *records.Manager
	Rates   RatesSource
	Metrics *metrics.Collector
	now     func() time.Time
}

func NewHandler(manager *records.Manager, rates RatesSource, collector *metrics.Collector) *Handler {
	return &Handler{Records: manager, Rates: rates, Metrics: collector, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/finance/dre", h.handleDRE)
	r.Get("/finance/dre.pdf", h.handleDREPDF)
	r.Get("/finance/indicators", h.handleIndicators)
}

func (h *Handler) buildDRE(r *http.Request) (finance.DRESummary, error) {
	snapshot, err := h.Records.Snapshot(r.Context())
	if err != nil {
		return finance.DRESummary{}, err
	}
	return finance.BuildDRE(snapshot.Sales, snapshot.Costs, payroll.PayrollTotal(snapshot.Employees), h.Rates.Rates())
}

func (h *Handler) handleDRE(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	summary, err := h.buildDRE(r)
	if err != nil {
		shared.FailDomain(w, requestID, err, "dre_failed", "failed to build income statement")
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleDREPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	summary, err := h.buildDRE(r)
	if err != nil {
		shared.FailDomain(w, requestID, err, "dre_failed", "failed to build income statement")
		return
	}
	generatedAt := h.now()
	var buf bytes.Buffer
	if err := reports.WriteDRE(&buf, summary, generatedAt); err != nil {
		shared.FailDomain(w, requestID, err, "dre_pdf_failed", "failed to render income statement")
		return
	}
	h.Metrics.DRERendered()
	api.PDF(w, fmt.Sprintf("dre-%s.pdf", generatedAt.Format("20060102")), buf.Bytes())
}

func (h *Handler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	snapshot, err := h.Records.Snapshot(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "indicators_failed", "failed to load records")
		return
	}
	indicators, err := finance.ComputeIndicators(snapshot.Sales, snapshot.Costs, h.Rates.Rates())
	if err != nil {
		shared.FailDomain(w, requestID, err, "indicators_failed", "failed to compute indicators")
		return
	}
	api.Success(w, indicators, requestID)
}
