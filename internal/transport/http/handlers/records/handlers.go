package recordshandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"folha/internal/domain/audit"
	"folha/internal/domain/records"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type Handler struct {
	Records *records.Manager
	Audit   *audit.Service
}

func NewHandler(manager *records.Manager, auditService *audit.Service) *Handler {
	return &Handler{Records: manager, Audit: auditService}
}

type employeePayload struct {
	Name            string          `json:"name"`
	CPF             string          `json:"cpf"`
	Role            string          `json:"role"`
	Admission       string          `json:"admission"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	Dependents      int             `json:"dependents"`
	Benefits        decimal.Decimal `json:"benefits"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
}

type payrollInputsPayload struct {
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Benefits        decimal.Decimal `json:"benefits"`
}

type servicePayload struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

type productPayload struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
}

type salePayload struct {
	Kind  string `json:"kind"`
	RefID int64  `json:"refId"`
	Qty   int    `json:"qty"`
}

type costPayload struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
}

type allocationPayload struct {
	CostID  int64           `json:"costId"`
	Portion decimal.Decimal `json:"portion"`
}

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)

	r.Get("/employees", h.handleListEmployees)
	r.Post("/employees", h.handleCreateEmployee)
	r.Get("/employees/{employeeID}", h.handleGetEmployee)
	r.Patch("/employees/{employeeID}/payroll-inputs", h.handleUpdatePayrollInputs)

	r.Get("/services", h.handleListServices)
	r.Post("/services", h.handleCreateService)
	r.Get("/services/{serviceID}/costs", h.handleListServiceCosts)
	r.Post("/services/{serviceID}/costs", h.handleAllocateCost)

	r.Get("/products", h.handleListProducts)
	r.Post("/products", h.handleCreateProduct)

	r.Get("/sales", h.handleListSales)
	r.Post("/sales", h.handleRegisterSale)

	r.Get("/costs", h.handleListCosts)
	r.Post("/costs", h.handleCreateCost)
}

func entityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// employeeAudit leaves the CPF out of the trail.
func employeeAudit(e records.Employee) map[string]any {
	return map[string]any{
		"name":            e.Name,
		"role":            e.Role,
		"grossSalary":     e.GrossSalary,
		"dependents":      e.Dependents,
		"benefits":        e.Benefits,
		"otherDeductions": e.OtherDeductions,
	}
}

func page[T any](r *http.Request, items []T) listResponse[T] {
	p := shared.ParsePagination(r, defaultPageSize, maxPageSize)
	out, total := shared.Page(items, p)
	return listResponse[T]{Items: out, Total: total, Limit: p.Limit, Offset: p.Offset}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	counts, err := h.Records.Counts(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "dashboard_failed", "failed to load dashboard")
		return
	}
	api.Success(w, counts, requestID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employees, err := h.Records.ListEmployees(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "employees_failed", "failed to list employees")
		return
	}
	api.Success(w, page(r, employees), requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("role", payload.Role, "is required")
	admission, _ := v.Date("admission", payload.Admission)
	v.NonNegative("grossSalary", payload.GrossSalary)
	v.NonNegativeInt("dependents", payload.Dependents)
	v.NonNegative("benefits", payload.Benefits)
	v.NonNegative("otherDeductions", payload.OtherDeductions)
	if v.Reject(w, requestID) {
		return
	}

	employee, err := h.Records.CreateEmployee(r.Context(), records.EmployeeInput{
		Name:            payload.Name,
		CPF:             payload.CPF,
		Role:            payload.Role,
		Admission:       admission,
		GrossSalary:     payload.GrossSalary,
		Dependents:      payload.Dependents,
		Benefits:        payload.Benefits,
		OtherDeductions: payload.OtherDeductions,
	})
	if err != nil {
		shared.FailDomain(w, requestID, err, "employee_create_failed", "failed to create employee")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionEmployeeCreate, "employee", entityID(employee.ID), nil, employeeAudit(employee))
	api.Created(w, employee, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	employee, err := h.Records.GetEmployee(r.Context(), id)
	if err != nil {
		shared.FailDomain(w, requestID, err, "employee_failed", "failed to load employee")
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleUpdatePayrollInputs(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := shared.PathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid employee id", requestID)
		return
	}
	var payload payrollInputsPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.NonNegative("otherDeductions", payload.OtherDeductions)
	v.NonNegative("benefits", payload.Benefits)
	if v.Reject(w, requestID) {
		return
	}
	before, err := h.Records.GetEmployee(r.Context(), id)
	if err != nil {
		shared.FailDomain(w, requestID, err, "employee_update_failed", "failed to update payroll inputs")
		return
	}
	employee, err := h.Records.UpdatePayrollInputs(r.Context(), id, payload.OtherDeductions, payload.Benefits)
	if err != nil {
		shared.FailDomain(w, requestID, err, "employee_update_failed", "failed to update payroll inputs")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionPayrollInputsUpdate, "employee", entityID(id), employeeAudit(before), employeeAudit(employee))
	api.Success(w, employee, requestID)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	services, err := h.Records.ListServices(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "services_failed", "failed to list services")
		return
	}
	api.Success(w, page(r, services), requestID)
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload servicePayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("description", payload.Description, "is required")
	v.NonNegative("value", payload.Value)
	if v.Reject(w, requestID) {
		return
	}
	service, err := h.Records.CreateService(r.Context(), payload.Description, payload.Value)
	if err != nil {
		shared.FailDomain(w, requestID, err, "service_create_failed", "failed to create service")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionServiceCreate, "service", entityID(service.ID), nil, service)
	api.Created(w, service, requestID)
}

func (h *Handler) handleListServiceCosts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	serviceID, ok := shared.PathID(r, "serviceID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid service id", requestID)
		return
	}
	links, total, err := h.Records.ServiceCosts(r.Context(), serviceID)
	if err != nil {
		shared.FailDomain(w, requestID, err, "service_costs_failed", "failed to list service costs")
		return
	}
	api.Success(w, map[string]any{"items": links, "totalCost": total}, requestID)
}

func (h *Handler) handleAllocateCost(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	serviceID, ok := shared.PathID(r, "serviceID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid service id", requestID)
		return
	}
	var payload allocationPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Positive("costId", payload.CostID)
	v.NonNegative("portion", payload.Portion)
	if v.Reject(w, requestID) {
		return
	}
	link, err := h.Records.AllocateCost(r.Context(), serviceID, payload.CostID, payload.Portion)
	if err != nil {
		shared.FailDomain(w, requestID, err, "service_cost_create_failed", "failed to allocate cost")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionCostAllocate, "service_cost", entityID(link.ID), nil, link)
	api.Created(w, link, requestID)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	products, err := h.Records.ListProducts(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "products_failed", "failed to list products")
		return
	}
	api.Success(w, page(r, products), requestID)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload productPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("description", payload.Description, "is required")
	v.NonNegativeInt("quantity", payload.Quantity)
	v.NonNegative("unitValue", payload.UnitValue)
	if v.Reject(w, requestID) {
		return
	}
	product, err := h.Records.CreateProduct(r.Context(), payload.Description, payload.Quantity, payload.UnitValue)
	if err != nil {
		shared.FailDomain(w, requestID, err, "product_create_failed", "failed to create product")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionProductCreate, "product", entityID(product.ID), nil, product)
	api.Created(w, product, requestID)
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	sales, err := h.Records.ListSales(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "sales_failed", "failed to list sales")
		return
	}
	api.Success(w, page(r, sales), requestID)
}

func (h *Handler) handleRegisterSale(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload salePayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.Kind = strings.ToLower(strings.TrimSpace(payload.Kind))
	v := shared.NewValidator()
	v.Required("kind", payload.Kind, "is required")
	v.Enum("kind", payload.Kind, records.SaleKinds, "must be product or service")
	v.Positive("refId", payload.RefID)
	if v.Reject(w, requestID) {
		return
	}
	sale, err := h.Records.RegisterSale(r.Context(), payload.Kind, payload.RefID, payload.Qty)
	if err != nil {
		shared.FailDomain(w, requestID, err, "sale_create_failed", "failed to register sale")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionSaleRegister, "sale", entityID(sale.ID), nil, sale)
	api.Created(w, sale, requestID)
}

func (h *Handler) handleListCosts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	costs, err := h.Records.ListCosts(r.Context())
	if err != nil {
		shared.FailDomain(w, requestID, err, "costs_failed", "failed to list costs")
		return
	}
	api.Success(w, page(r, costs), requestID)
}

func (h *Handler) handleCreateCost(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload costPayload
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.Kind = strings.ToLower(strings.TrimSpace(payload.Kind))
	v := shared.NewValidator()
	v.Required("description", payload.Description, "is required")
	v.Required("kind", payload.Kind, "is required")
	v.Enum("kind", payload.Kind, records.CostKinds, "must be direct or indirect")
	v.NonNegative("amount", payload.Amount)
	if v.Reject(w, requestID) {
		return
	}
	cost, err := h.Records.CreateCost(r.Context(), payload.Description, payload.Amount, payload.Kind)
	if err != nil {
		shared.FailDomain(w, requestID, err, "cost_create_failed", "failed to create cost")
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionCostCreate, "cost", entityID(cost.ID), nil, cost)
	api.Created(w, cost, requestID)
}
