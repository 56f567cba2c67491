package payrollhandler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/payroll"
	"folha/internal/domain/reports"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Payroll *payroll.Service
	Metrics *metrics.Collector
}

func NewHandler(service *payroll.Service, collector *metrics.Collector) *Handler {
	return &Handler{Payroll: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{employeeID}/payroll", h.handleEmployeePayroll)
	r.Get("/employees/{employeeID}/payslip.pdf", h.handlePayslip)
	r.Post("/payroll/calculate", h.handleCalculate)
	r.Get("/payroll/summary", h.handleSummary)
}

func (h *Handler) handleEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	employee, result, err := h.Payroll.ForEmployee(r.Context(), id)
	if err != nil {
		shared.FailDomain(w, requestID, err, "payroll_failed", "failed to compute payroll")
		return
	}
	h.Metrics.PayrollComputed()
	api.Success(w, payroll.EmployeePayroll{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Role:       employee.Role,
		Result:     result,
	}, requestID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	employee, result, err := h.Payroll.ForEmployee(r.Context(), id)
	if err != nil {
		shared.FailDomain(w, requestID, err, "payroll_failed", "failed to compute payroll")
		return
	}
	var buf bytes.Buffer
	if err := reports.WritePayslip(&buf, employee, result); err != nil {
		shared.FailDomain(w, requestID, err, "payslip_failed", "failed to render payslip")
		return
	}
	h.Metrics.PayrollComputed()
	h.Metrics.PayslipRendered()
	api.PDF(w, fmt.Sprintf("holerite-%d.pdf", employee.ID), buf.Bytes())
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload payroll.PayrollInput
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.NonNegative("grossSalary", payload.GrossSalary)
	v.NonNegativeInt("dependentCount", payload.DependentCount)
	v.NonNegative("otherDeductions", payload.OtherDeductions)
	v.NonNegative("benefits", payload.Benefits)
	if v.Reject(w, requestID) {
		return
	}
	result, err := h.Payroll.Calculate(payload)
	if err != nil {
		shared.FailDomain(w, requestID, err, "payroll_failed", "failed to compute payroll")
		return
	}
	h.Metrics.PayrollComputed()
	api.Success(w, result, requestID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	summary, err := h.Payroll.Summary(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "payroll_summary_failed", "failed to summarize payroll")
		return
	}
	api.Success(w, summary, requestID)
}
