package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	sqliteDateLayout = "2006-01-02"
)

// SQLiteStore is the single-file StoreAPI used for local and demo
// deployments. Money columns hold decimal text.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(sqliteTimeLayout, raw)
}

func insertID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) CreateEmployee(ctx context.Context, employee Employee) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `
    INSERT INTO employees (name, cpf, cpf_enc, role, admission, gross_salary, dependents, benefits, other_deductions)
    VALUES (?,?,?,?,?,?,?,?,?)
  `, employee.Name, employee.CPF, employee.CPFEnc, employee.Role, employee.Admission.Format(sqliteDateLayout),
		employee.GrossSalary.String(), employee.Dependents, employee.Benefits.String(), employee.OtherDeductions.String()))
}

type rowScanner interface {
	Scan(dest ...any) error
}

const sqliteEmployeeColumns = `id, name, COALESCE(cpf, ''), cpf_enc, role, admission, gross_salary, dependents, benefits, other_deductions`

func scanSQLiteEmployee(row rowScanner) (Employee, error) {
	var employee Employee
	var admission string
	if err := row.Scan(&employee.ID, &employee.Name, &employee.CPF, &employee.CPFEnc, &employee.Role, &admission,
		&employee.GrossSalary, &employee.Dependents, &employee.Benefits, &employee.OtherDeductions); err != nil {
		return Employee{}, err
	}
	parsed, err := time.Parse(sqliteDateLayout, admission)
	if err != nil {
		return Employee{}, err
	}
	employee.Admission = parsed
	return employee, nil
}

func (s *SQLiteStore) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+sqliteEmployeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		employee, err := scanSQLiteEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *SQLiteStore) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	employee, err := scanSQLiteEmployee(s.DB.QueryRowContext(ctx, `SELECT `+sqliteEmployeeColumns+` FROM employees WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return employee, err
}

func (s *SQLiteStore) UpdatePayrollInputs(ctx context.Context, id int64, otherDeductions, benefits decimal.Decimal) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE employees SET other_deductions = ?, benefits = ? WHERE id = ?`,
		otherDeductions.String(), benefits.String(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateService(ctx context.Context, service Service) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `INSERT INTO services (description, value, created_at) VALUES (?,?,?)`,
		service.Description, service.Value.String(), formatTime(service.CreatedAt)))
}

func scanSQLiteService(row rowScanner) (Service, error) {
	var service Service
	var createdAt string
	if err := row.Scan(&service.ID, &service.Description, &service.Value, &createdAt); err != nil {
		return Service{}, err
	}
	parsed, err := parseTime(createdAt)
	service.CreatedAt = parsed
	return service, err
}

func (s *SQLiteStore) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, description, value, created_at FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		service, err := scanSQLiteService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

func (s *SQLiteStore) GetService(ctx context.Context, id int64) (Service, error) {
	service, err := scanSQLiteService(s.DB.QueryRowContext(ctx, `SELECT id, description, value, created_at FROM services WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	return service, err
}

func (s *SQLiteStore) CreateProduct(ctx context.Context, product Product) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `INSERT INTO products (description, quantity, unit_value, created_at) VALUES (?,?,?,?)`,
		product.Description, product.Quantity, product.UnitValue.String(), formatTime(product.CreatedAt)))
}

func scanSQLiteProduct(row rowScanner) (Product, error) {
	var product Product
	var createdAt string
	if err := row.Scan(&product.ID, &product.Description, &product.Quantity, &product.UnitValue, &createdAt); err != nil {
		return Product{}, err
	}
	parsed, err := parseTime(createdAt)
	product.CreatedAt = parsed
	return product, err
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, description, quantity, unit_value, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id int64) (Product, error) {
	product, err := scanSQLiteProduct(s.DB.QueryRowContext(ctx, `SELECT id, description, quantity, unit_value, created_at FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return product, err
}

func (s *SQLiteStore) CreateSale(ctx context.Context, sale Sale) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `INSERT INTO sales (kind, ref_id, qty, total, created_at) VALUES (?,?,?,?,?)`,
		sale.Kind, sale.RefID, sale.Qty, sale.Total.String(), formatTime(sale.CreatedAt)))
}

func (s *SQLiteStore) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, kind, ref_id, qty, total, created_at FROM sales ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		var createdAt string
		if err := rows.Scan(&sale.ID, &sale.Kind, &sale.RefID, &sale.Qty, &sale.Total, &createdAt); err != nil {
			return nil, err
		}
		if sale.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (s *SQLiteStore) CreateCost(ctx context.Context, cost Cost) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `INSERT INTO costs (description, amount, kind, created_at) VALUES (?,?,?,?)`,
		cost.Description, cost.Amount.String(), cost.Kind, formatTime(cost.CreatedAt)))
}

func scanSQLiteCost(row rowScanner) (Cost, error) {
	var cost Cost
	var createdAt string
	if err := row.Scan(&cost.ID, &cost.Description, &cost.Amount, &cost.Kind, &createdAt); err != nil {
		return Cost{}, err
	}
	parsed, err := parseTime(createdAt)
	cost.CreatedAt = parsed
	return cost, err
}

func (s *SQLiteStore) ListCosts(ctx context.Context) ([]Cost, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, description, amount, kind, created_at FROM costs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costs []Cost
	for rows.Next() {
		cost, err := scanSQLiteCost(rows)
		if err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}
	return costs, rows.Err()
}

func (s *SQLiteStore) GetCost(ctx context.Context, id int64) (Cost, error) {
	cost, err := scanSQLiteCost(s.DB.QueryRowContext(ctx, `SELECT id, description, amount, kind, created_at FROM costs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Cost{}, ErrNotFound
	}
	return cost, err
}

func (s *SQLiteStore) CreateServiceCost(ctx context.Context, link ServiceCost) (int64, error) {
	return insertID(s.DB.ExecContext(ctx, `INSERT INTO service_costs (service_id, cost_id, portion, created_at) VALUES (?,?,?,?)`,
		link.ServiceID, link.CostID, link.Portion.String(), formatTime(link.CreatedAt)))
}

func (s *SQLiteStore) ListServiceCosts(ctx context.Context, serviceID int64) ([]ServiceCost, error) {
	rows, err := s.DB.QueryContext(ctx, `
    SELECT sc.id, sc.service_id, sc.cost_id, sc.portion, sc.created_at, s.description, c.description
    FROM service_costs sc
    JOIN services s ON s.id = sc.service_id
    JOIN costs c ON c.id = sc.cost_id
    WHERE sc.service_id = ?
    ORDER BY sc.id
  `, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []ServiceCost
	for rows.Next() {
		var link ServiceCost
		var createdAt string
		if err := rows.Scan(&link.ID, &link.ServiceID, &link.CostID, &link.Portion, &createdAt,
			&link.ServiceDescription, &link.CostDescription); err != nil {
			return nil, err
		}
		if link.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	err := s.DB.QueryRowContext(ctx, `
    SELECT (SELECT COUNT(1) FROM employees),
           (SELECT COUNT(1) FROM services),
           (SELECT COUNT(1) FROM products)
  `).Scan(&counts.Employees, &counts.Services, &counts.Products)
	return counts, err
}
