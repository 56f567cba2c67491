package recordshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"folha/internal/domain/audit"
	"folha/internal/domain/records"
	"folha/internal/platform/db"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(t *testing.T) (http.Handler, *audit.Service) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	if err := db.MigrateSQLite(path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store := records.NewSQLiteStore(conn)
	t.Cleanup(func() { _ = store.Close() })

	trail := audit.New(audit.NewSQLiteStore(conn))
	r := chi.NewRouter()
	NewHandler(records.NewManager(store, nil), trail).RegisterRoutes(r)
	return r, trail
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestEmployeeEndpoints(t *testing.T) {
	h, trail := newRouter(t)

	status, env := do(t, h, http.MethodPost, "/employees", `{"name":"Ana Souza","cpf":"123.456.789-00","role":"Analista","admission":"2024-03-01","grossSalary":"3000.00","dependents":1}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	var created records.Employee
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	if created.ID == 0 || created.GrossSalary.StringFixed(2) != "3000.00" {
		t.Fatalf("unexpected employee %+v", created)
	}

	status, env = do(t, h, http.MethodPatch, "/employees/1/payroll-inputs", `{"otherDeductions":"50","benefits":"200.5"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var updated records.Employee
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode employee: %v", err)
	}
	if updated.Benefits.StringFixed(2) != "200.50" || updated.OtherDeductions.StringFixed(2) != "50.00" {
		t.Fatalf("unexpected payroll inputs %+v", updated)
	}

	status, env = do(t, h, http.MethodGet, "/employees", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"total":1`) {
		t.Fatalf("unexpected list %d %s", status, env.Data)
	}

	status, env = do(t, h, http.MethodGet, "/employees/99", "")
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %d %+v", status, env.Error)
	}

	status, _ = do(t, h, http.MethodGet, "/employees/abc", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", status)
	}

	events, err := trail.List(context.Background(), audit.Filter{EntityType: "employee"}, true, 10, 0)
	if err != nil {
		t.Fatalf("audit list: %v", err)
	}
	if len(events) != 2 || events[0].Action != audit.ActionPayrollInputsUpdate {
		t.Fatalf("unexpected audit trail %+v", events)
	}
	if strings.Contains(string(events[1].After), "123.456.789-00") {
		t.Fatal("cpf must not reach the audit trail")
	}
}

func TestEmployeeValidation(t *testing.T) {
	h, _ := newRouter(t)
	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"role":"Dev","admission":"2024-01-01","grossSalary":"1000"}`},
		{name: "bad admission", body: `{"name":"A","role":"Dev","admission":"01/02/2024","grossSalary":"1000"}`},
		{name: "negative salary", body: `{"name":"A","role":"Dev","admission":"2024-01-01","grossSalary":"-1"}`},
		{name: "negative dependents", body: `{"name":"A","role":"Dev","admission":"2024-01-01","grossSalary":"1","dependents":-1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, h, http.MethodPost, "/employees", tc.body)
			if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "validation_error" {
				t.Fatalf("expected validation_error, got %d %+v", status, env.Error)
			}
		})
	}
}

func TestSalesAndCostAllocation(t *testing.T) {
	h, _ := newRouter(t)

	mustCreate := func(path, body string) {
		t.Helper()
		if status, env := do(t, h, http.MethodPost, path, body); status != http.StatusCreated {
			t.Fatalf("POST %s: expected 201, got %d %+v", path, status, env.Error)
		}
	}
	mustCreate("/products", `{"description":"Camiseta","quantity":10,"unitValue":"129.90"}`)
	mustCreate("/services", `{"description":"Consultoria","value":"800"}`)
	mustCreate("/costs", `{"description":"Aluguel","amount":"1500","kind":"Indirect"}`)

	status, env := do(t, h, http.MethodPost, "/sales", `{"kind":"product","refId":1,"qty":3}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	var sale records.Sale
	if err := json.Unmarshal(env.Data, &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if sale.Total.StringFixed(2) != "389.70" {
		t.Fatalf("expected 389.70, got %s", sale.Total)
	}

	status, env = do(t, h, http.MethodPost, "/sales", `{"kind":"service","refId":1,"qty":5}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if err := json.Unmarshal(env.Data, &sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if sale.Qty != 1 || sale.Total.StringFixed(2) != "800.00" {
		t.Fatalf("unexpected service sale %+v", sale)
	}

	if status, _ := do(t, h, http.MethodPost, "/sales", `{"kind":"rental","refId":1,"qty":1}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", status)
	}
	if status, _ := do(t, h, http.MethodPost, "/sales", `{"kind":"product","refId":42,"qty":1}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product, got %d", status)
	}

	mustCreate("/services/1/costs", `{"costId":1,"portion":"450.25"}`)
	mustCreate("/services/1/costs", `{"costId":1,"portion":"100.25"}`)
	status, env = do(t, h, http.MethodGet, "/services/1/costs", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"totalCost":"550.5"`) {
		t.Fatalf("unexpected service costs %d %s", status, env.Data)
	}
	if status, _ := do(t, h, http.MethodPost, "/services/7/costs", `{"costId":1,"portion":"1"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown service, got %d", status)
	}

	status, env = do(t, h, http.MethodGet, "/dashboard", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var counts records.Counts
	if err := json.Unmarshal(env.Data, &counts); err != nil {
		t.Fatalf("decode counts: %v", err)
	}
	if counts.Products != 1 || counts.Services != 1 || counts.Employees != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}

	status, env = do(t, h, http.MethodGet, "/sales?limit=1", "")
	if status != http.StatusOK || !strings.Contains(string(env.Data), `"total":2`) || !strings.Contains(string(env.Data), `"limit":1`) {
		t.Fatalf("unexpected paged sales %d %s", status, env.Data)
	}
}
