package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cryptoutil "folha/internal/platform/crypto"
)

type Manager struct {
	store  StoreAPI
	crypto *cryptoutil.Service
	now    func() time.Time
}

func NewManager(store StoreAPI, crypto *cryptoutil.Service) *Manager {
	return &Manager{store: store, crypto: crypto, now: time.Now}
}

func (m *Manager) Store() StoreAPI {
	return m.store
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}

type EmployeeInput struct {
	Name            string
	CPF             string
	Role            string
	Admission       time.Time
	GrossSalary     decimal.Decimal
	Dependents      int
	Benefits        decimal.Decimal
	OtherDeductions decimal.Decimal
}

func (m *Manager) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	employee := Employee{
		Name:            strings.TrimSpace(in.Name),
		CPF:             strings.TrimSpace(in.CPF),
		Role:            strings.TrimSpace(in.Role),
		Admission:       in.Admission,
		GrossSalary:     in.GrossSalary.Round(2),
		Dependents:      in.Dependents,
		Benefits:        in.Benefits.Round(2),
		OtherDeductions: in.OtherDeductions.Round(2),
	}
	switch {
	case employee.Name == "":
		return Employee{}, invalid("name is required")
	case employee.Role == "":
		return Employee{}, invalid("role is required")
	case employee.Admission.IsZero():
		return Employee{}, invalid("admission is required")
	case employee.GrossSalary.IsNegative():
		return Employee{}, invalid("gross salary must be non-negative")
	case employee.Dependents < 0:
		return Employee{}, invalid("dependents must be non-negative")
	case employee.Benefits.IsNegative():
		return Employee{}, invalid("benefits must be non-negative")
	case employee.OtherDeductions.IsNegative():
		return Employee{}, invalid("other deductions must be non-negative")
	}

	stored := employee
	if m.crypto != nil && m.crypto.Configured() && stored.CPF != "" {
		enc, err := m.crypto.EncryptString(stored.CPF)
		if err != nil {
			return Employee{}, err
		}
		stored.CPF = ""
		stored.CPFEnc = enc
	}
	id, err := m.store.CreateEmployee(ctx, stored)
	if err != nil {
		return Employee{}, err
	}
	employee.ID = id
	return employee, nil
}

// revealCPF opens a sealed CPF. Without a key the sealed bytes are never
// exposed; the CPF is left empty instead.
func (m *Manager) revealCPF(employee *Employee) error {
	if len(employee.CPFEnc) == 0 {
		return nil
	}
	if !m.crypto.Configured() {
		slog.Warn("sealed cpf without encryption key", "employeeId", employee.ID)
		employee.CPF = ""
		employee.CPFEnc = nil
		return nil
	}
	plain, err := m.crypto.DecryptString(employee.CPFEnc)
	if err != nil {
		return err
	}
	employee.CPF = plain
	employee.CPFEnc = nil
	return nil
}

func (m *Manager) ListEmployees(ctx context.Context) ([]Employee, error) {
	employees, err := m.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if err := m.revealCPF(&employees[i]); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

func (m *Manager) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	employee, err := m.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := m.revealCPF(&employee); err != nil {
		return Employee{}, err
	}
	return employee, nil
}

func (m *Manager) UpdatePayrollInputs(ctx context.Context, id int64, otherDeductions, benefits decimal.Decimal) (Employee, error) {
	if otherDeductions.IsNegative() || benefits.IsNegative() {
		return Employee{}, invalid("payroll inputs must be non-negative")
	}
	if err := m.store.UpdatePayrollInputs(ctx, id, otherDeductions.Round(2), benefits.Round(2)); err != nil {
		return Employee{}, err
	}
	return m.GetEmployee(ctx, id)
}

func (m *Manager) CreateService(ctx context.Context, description string, value decimal.Decimal) (Service, error) {
	service := Service{Description: strings.TrimSpace(description), Value: value.Round(2), CreatedAt: m.now()}
	if service.Description == "" {
		return Service{}, invalid("description is required")
	}
	if service.Value.IsNegative() {
		return Service{}, invalid("value must be non-negative")
	}
	id, err := m.store.CreateService(ctx, service)
	if err != nil {
		return Service{}, err
	}
	service.ID = id
	return service, nil
}

func (m *Manager) ListServices(ctx context.Context) ([]Service, error) {
	return m.store.ListServices(ctx)
}

func (m *Manager) CreateProduct(ctx context.Context, description string, quantity int, unitValue decimal.Decimal) (Product, error) {
	product := Product{Description: strings.TrimSpace(description), Quantity: quantity, UnitValue: unitValue.Round(2), CreatedAt: m.now()}
	switch {
	case product.Description == "":
		return Product{}, invalid("description is required")
	case product.Quantity < 0:
		return Product{}, invalid("quantity must be non-negative")
	case product.UnitValue.IsNegative():
		return Product{}, invalid("unit value must be non-negative")
	}
	id, err := m.store.CreateProduct(ctx, product)
	if err != nil {
		return Product{}, err
	}
	product.ID = id
	return product, nil
}

func (m *Manager) ListProducts(ctx context.Context) ([]Product, error) {
	return m.store.ListProducts(ctx)
}

// RegisterSale prices a sale from the catalog. Product sales multiply the
// unit value by qty; a service sale is always a single unit at the service
// value.
func (m *Manager) RegisterSale(ctx context.Context, kind string, refID int64, qty int) (Sale, error) {
	sale := Sale{Kind: kind, RefID: refID, Qty: qty, CreatedAt: m.now()}
	switch kind {
	case SaleKindProduct:
		if qty < 1 {
			return Sale{}, invalid("qty must be at least 1")
		}
		product, err := m.store.GetProduct(ctx, refID)
		if err != nil {
			return Sale{}, refError("product", refID, err)
		}
		sale.Total = product.UnitValue.Mul(decimal.NewFromInt(int64(qty))).Round(2)
	case SaleKindService:
		service, err := m.store.GetService(ctx, refID)
		if err != nil {
			return Sale{}, refError("service", refID, err)
		}
		sale.Qty = 1
		sale.Total = service.Value.Round(2)
	default:
		return Sale{}, invalid("unknown sale kind %q", kind)
	}
	id, err := m.store.CreateSale(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	sale.ID = id
	return sale, nil
}

func refError(what string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return invalid("%s %d does not exist", what, id)
	}
	return err
}

func (m *Manager) ListSales(ctx context.Context) ([]Sale, error) {
	return m.store.ListSales(ctx)
}

func (m *Manager) CreateCost(ctx context.Context, description string, amount decimal.Decimal, kind string) (Cost, error) {
	cost := Cost{Description: strings.TrimSpace(description), Amount: amount.Round(2), Kind: kind, CreatedAt: m.now()}
	switch {
	case cost.Description == "":
		return Cost{}, invalid("description is required")
	case cost.Amount.IsNegative():
		return Cost{}, invalid("amount must be non-negative")
	case !slices.Contains(CostKinds, kind):
		return Cost{}, invalid("unknown cost kind %q", kind)
	}
	id, err := m.store.CreateCost(ctx, cost)
	if err != nil {
		return Cost{}, err
	}
	cost.ID = id
	return cost, nil
}

func (m *Manager) ListCosts(ctx context.Context) ([]Cost, error) {
	return m.store.ListCosts(ctx)
}

func (m *Manager) AllocateCost(ctx context.Context, serviceID, costID int64, portion decimal.Decimal) (ServiceCost, error) {
	if portion.IsNegative() {
		return ServiceCost{}, invalid("portion must be non-negative")
	}
	service, err := m.store.GetService(ctx, serviceID)
	if err != nil {
		return ServiceCost{}, err
	}
	cost, err := m.store.GetCost(ctx, costID)
	if err != nil {
		return ServiceCost{}, refError("cost", costID, err)
	}
	link := ServiceCost{
		ServiceID:          serviceID,
		CostID:             costID,
		Portion:            portion.Round(2),
		CreatedAt:          m.now(),
		ServiceDescription: service.Description,
		CostDescription:    cost.Description,
	}
	id, err := m.store.CreateServiceCost(ctx, link)
	if err != nil {
		return ServiceCost{}, err
	}
	link.ID = id
	return link, nil
}

// ServiceCosts returns the allocations for a service and their sum.
func (m *Manager) ServiceCosts(ctx context.Context, serviceID int64) ([]ServiceCost, decimal.Decimal, error) {
	if _, err := m.store.GetService(ctx, serviceID); err != nil {
		return nil, decimal.Zero, err
	}
	links, err := m.store.ListServiceCosts(ctx, serviceID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, link := range links {
		total = total.Add(link.Portion)
	}
	return links, total.Round(2), nil
}

func (m *Manager) Counts(ctx context.Context) (Counts, error) {
	return m.store.Counts(ctx)
}

func (m *Manager) Snapshot(ctx context.Context) (Snapshot, error) {
	employees, err := m.ListEmployees(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	sales, err := m.store.ListSales(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	costs, err := m.store.ListCosts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Employees: employees, Sales: sales, Costs: costs}, nil
}
