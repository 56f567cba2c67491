package records

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	Ping(ctx context.Context) error
	Close() error
	CreateEmployee(ctx context.Context, employee Employee) (int64, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	UpdatePayrollInputs(ctx context.Context, id int64, otherDeductions, benefits decimal.Decimal) error
	CreateService(ctx context.Context, service Service) (int64, error)
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	CreateProduct(ctx context.Context, product Product) (int64, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateSale(ctx context.Context, sale Sale) (int64, error)
	ListSales(ctx context.Context) ([]Sale, error)
	CreateCost(ctx context.Context, cost Cost) (int64, error)
	ListCosts(ctx context.Context) ([]Cost, error)
	GetCost(ctx context.Context, id int64) (Cost, error)
	CreateServiceCost(ctx context.Context, link ServiceCost) (int64, error)
	ListServiceCosts(ctx context.Context, serviceID int64) ([]ServiceCost, error)
	Counts(ctx context.Context) (Counts, error)
}
