package shared

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/finance"
	"folha/internal/domain/payroll"
	"folha/internal/domain/records"
	"folha/internal/domain/settings"
	"folha/internal/domain/tax"
	"folha/internal/transport/http/api"
)

// FailDomain maps domain sentinels onto the response envelope. Anything
// unrecognized is logged and reported with the caller's code.
func FailDomain(w http.ResponseWriter, requestID string, err error, code, message string) {
	switch {
	case errors.Is(err, records.ErrNotFound), errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, tax.ErrConfigurationInconsistency):
		slog.Error("tax tables inconsistent", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "tax_table_inconsistent", "tax tables do not cover the computed base", requestID)
	case errors.Is(err, records.ErrInvalidRecord),
		errors.Is(err, tax.ErrInvalidInput),
		errors.Is(err, finance.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalidRates):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	default:
		slog.Error(message, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

// PathID reads a positive integer route parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
