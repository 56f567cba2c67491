package payrollhandler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"folha/internal/domain/payroll"
	"folha/internal/domain/records"
	"folha/internal/domain/tax"
	"folha/internal/platform/db"
	"folha/internal/platform/metrics"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newManager(t *testing.T) *records.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payroll.db")
	if err := db.MigrateSQLite(path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store := records.NewSQLiteStore(conn)
	t.Cleanup(func() { _ = store.Close() })
	return records.NewManager(store, nil)
}

func newRouter(t *testing.T, tables tax.Tables) (http.Handler, *records.Manager, *metrics.Collector) {
	t.Helper()
	manager := newManager(t)
	collector := metrics.New()
	r := chi.NewRouter()
	NewHandler(payroll.NewService(manager, tables), collector).RegisterRoutes(r)
	return r, manager, collector
}

func seedEmployee(t *testing.T, manager *records.Manager, gross string) records.Employee {
	t.Helper()
	employee, err := manager.CreateEmployee(context.Background(), records.EmployeeInput{
		Name:        "Ana Souza",
		CPF:         "123.456.789-00",
		Role:        "Analista",
		Admission:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		GrossSalary: decimal.RequireFromString(gross),
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}

func TestEmployeePayroll(t *testing.T) {
	h, manager, collector := newRouter(t, tax.DefaultTables())
	seedEmployee(t, manager, "3000.00")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/1/payroll", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var line payroll.EmployeePayroll
	if err := json.Unmarshal(env.Data, &line); err != nil {
		t.Fatalf("decode payroll: %v", err)
	}
	if got := line.Result.INSSTotal.StringFixed(2); got != "253.41" {
		t.Fatalf("expected INSS 253.41, got %s", got)
	}
	if got := line.Result.NetPay.StringFixed(2); got != "2722.76" {
		t.Fatalf("expected net 2722.76, got %s", got)
	}
	if collector.Snapshot().PayrollsComputed != 1 {
		t.Fatalf("expected payroll counter to advance")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/2/payroll", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPayslipPDF(t *testing.T) {
	h, manager, collector := newRouter(t, tax.DefaultTables())
	seedEmployee(t, manager, "5000.00")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/1/payslip.pdf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected pdf body")
	}
	if collector.Snapshot().PayslipsRendered != 1 {
		t.Fatalf("expected payslip counter to advance")
	}
}

func TestCalculate(t *testing.T) {
	h, _, _ := newRouter(t, tax.DefaultTables())
	tests := []struct {
		name   string
		body   string
		status int
		net    string
	}{
		{name: "high salary", body: `{"grossSalary":"10000"}`, status: http.StatusOK, net: "7468.80"},
		{name: "dependents and inputs", body: `{"grossSalary":"5000","dependentCount":2,"benefits":"400","otherDeductions":"100"}`, status: http.StatusOK, net: "4563.37"},
		{name: "negative salary", body: `{"grossSalary":"-1"}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{"grossSalary":`, status: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/calculate", strings.NewReader(tc.body)))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.net == "" {
				return
			}
			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			var result payroll.PayrollResult
			if err := json.Unmarshal(env.Data, &result); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if got := result.NetPay.StringFixed(2); got != tc.net {
				t.Fatalf("expected net %s, got %s", tc.net, got)
			}
		})
	}
}

func TestCalculateInconsistentTables(t *testing.T) {
	tables := tax.DefaultTables()
	tables.IRRF = tables.IRRF[:1]
	h, _, _ := newRouter(t, tables)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payroll/calculate", strings.NewReader(`{"grossSalary":"3000"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tax_table_inconsistent") {
		t.Fatalf("expected tax_table_inconsistent, got %s", rec.Body.String())
	}
}

func TestSummary(t *testing.T) {
	h, manager, _ := newRouter(t, tax.DefaultTables())
	seedEmployee(t, manager, "3000.00")
	seedEmployee(t, manager, "10000.00")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payroll/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var summary payroll.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Employees != 2 || summary.NetTotal.StringFixed(2) != "10191.56" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
