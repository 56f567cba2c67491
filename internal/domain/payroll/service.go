package payroll

import (
	"context"
	"errors"
	"log/slog"

	"folha/internal/domain/records"
	"folha/internal/domain/tax"
)

type EmployeeSource interface {
	GetEmployee(ctx context.Context, id int64) (records.Employee, error)
	ListEmployees(ctx context.Context) ([]records.Employee, error)
}

type Service struct {
	employees EmployeeSource
	tables    tax.Tables
}

func NewService(employees EmployeeSource, tables tax.Tables) *Service {
	return &Service{employees: employees, tables: tables}
}

func (s *Service) Tables() tax.Tables {
	return s.tables
}

func (s *Service) Calculate(in PayrollInput) (PayrollResult, error) {
	return ComputePayroll(in, s.tables)
}

func (s *Service) ForEmployee(ctx context.Context, id int64) (records.Employee, PayrollResult, error) {
	employee, err := s.employees.GetEmployee(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return records.Employee{}, PayrollResult{}, ErrEmployeeNotFound
	}
	if err != nil {
		return records.Employee{}, PayrollResult{}, err
	}
	result, err := ComputePayroll(InputFor(employee), s.tables)
	if err != nil {
		return records.Employee{}, PayrollResult{}, err
	}
	slog.Debug("payroll computed", "employee", id, "net", result.NetPay.StringFixed(2))
	return employee, result, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(employees, s.tables)
}
