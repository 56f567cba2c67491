package records

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore is the pgx-backed StoreAPI.
type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.DB.Close()
	return nil
}

func (s *PostgresStore) CreateEmployee(ctx context.Context, employee Employee) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, cpf, cpf_enc, role, admission, gross_salary, dependents, benefits, other_deductions)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, employee.Name, employee.CPF, employee.CPFEnc, employee.Role, employee.Admission,
		employee.GrossSalary, employee.Dependents, employee.Benefits, employee.OtherDeductions).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

const employeeColumns = `id, name, COALESCE(cpf, ''), cpf_enc, role, admission, gross_salary, dependents, benefits, other_deductions`

func scanEmployee(row pgx.Row) (Employee, error) {
	var employee Employee
	err := row.Scan(&employee.ID, &employee.Name, &employee.CPF, &employee.CPFEnc, &employee.Role, &employee.Admission,
		&employee.GrossSalary, &employee.Dependents, &employee.Benefits, &employee.OtherDeductions)
	return employee, err
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	employee, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return employee, err
}

func (s *PostgresStore) UpdatePayrollInputs(ctx context.Context, id int64, otherDeductions, benefits decimal.Decimal) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET other_deductions = $2, benefits = $3
    WHERE id = $1
  `, id, otherDeductions, benefits)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateService(ctx context.Context, service Service) (int64, error) {
	var id int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO services (description, value, created_at)
    VALUES ($1,$2,$3)
    RETURNING id
  `, service.Description, service.Value, service.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, description, value, created_at FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var service Service
		if err := rows.Scan(&service.ID, &service.Description, &service.Value, &service.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (s *PostgresStore) GetService(ctx context.Context, id int64) (Service, error) {
	var service Service
	err := s.DB.QueryRow(ctx, `SELECT id, description, value, created_at FROM services WHERE id = $1`, id).
		Scan(&service.ID, &service.Description, &service.Value, &service.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	return service, err
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product Product) (int64, error) {
	var id int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO products (description, quantity, unit_value, created_at)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, product.Description, product.Quantity, product.UnitValue, product.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, description, quantity, unit_value, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Description, &product.Quantity, &product.UnitValue, &product.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (Product, error) {
	var product Product
	err := s.DB.QueryRow(ctx, `SELECT id, description, quantity, unit_value, created_at FROM products WHERE id = $1`, id).
		Scan(&product.ID, &product.Description, &product.Quantity, &product.UnitValue, &product.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return product, err
}

func (s *PostgresStore) CreateSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO sales (kind, ref_id, qty, total, created_at)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, sale.Kind, sale.RefID, sale.Qty, sale.Total, sale.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, kind, ref_id, qty, total, created_at FROM sales ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Kind, &sale.RefID, &sale.Qty, &sale.Total, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (s *PostgresStore) CreateCost(ctx context.Context, cost Cost) (int64, error) {
	var id int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO costs (description, amount, kind, created_at)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, cost.Description, cost.Amount, cost.Kind, cost.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListCosts(ctx context.Context) ([]Cost, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, description, amount, kind, created_at FROM costs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costs []Cost
	for rows.Next() {
		var cost Cost
		if err := rows.Scan(&cost.ID, &cost.Description, &cost.Amount, &cost.Kind, &cost.CreatedAt); err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}
	return costs, rows.Err()
}

func (s *PostgresStore) GetCost(ctx context.Context, id int64) (Cost, error) {
	var cost Cost
	err := s.DB.QueryRow(ctx, `SELECT id, description, amount, kind, created_at FROM costs WHERE id = $1`, id).
		Scan(&cost.ID, &cost.Description, &cost.Amount, &cost.Kind, &cost.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cost{}, ErrNotFound
	}
	return cost, err
}

func (s *PostgresStore) CreateServiceCost(ctx context.Context, link ServiceCost) (int64, error) {
	var id int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO service_costs (service_id, cost_id, portion, created_at)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, link.ServiceID, link.CostID, link.Portion, link.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) ListServiceCosts(ctx context.Context, serviceID int64) ([]ServiceCost, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sc.id, sc.service_id, sc.cost_id, sc.portion, sc.created_at, s.description, c.description
    FROM service_costs sc
    JOIN services s ON s.id = sc.service_id
    JOIN costs c ON c.id = sc.cost_id
    WHERE sc.service_id = $1
    ORDER BY sc.id
  `, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ServiceCost
	for rows.Next() {
		var link ServiceCost
		if err := rows.Scan(&link.ID, &link.ServiceID, &link.CostID, &link.Portion, &link.CreatedAt,
			&link.ServiceDescription, &link.CostDescription); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *PostgresStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees),
           (SELECT COUNT(1) FROM services),
           (SELECT COUNT(1) FROM products)
  `).Scan(&counts.Employees, &counts.Services, &counts.Products)
	return counts, err
}
