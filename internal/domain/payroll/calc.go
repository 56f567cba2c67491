package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"folha/internal/domain/records"
	"folha/internal/domain/tax"
)

// ComputePayroll runs INSS first and feeds its total into the IRRF base.
func ComputePayroll(in PayrollInput, tables tax.Tables) (PayrollResult, error) {
	switch {
	case in.GrossSalary.IsNegative():
		return PayrollResult{}, fmt.Errorf("%w: gross salary is negative", tax.ErrInvalidInput)
	case in.Benefits.IsNegative():
		return PayrollResult{}, fmt.Errorf("%w: benefits are negative", tax.ErrInvalidInput)
	case in.OtherDeductions.IsNegative():
		return PayrollResult{}, fmt.Errorf("%w: other deductions are negative", tax.ErrInvalidInput)
	case in.DependentCount < 0:
		return PayrollResult{}, fmt.Errorf("%w: dependent count is negative", tax.ErrInvalidInput)
	}

	inss, breakdown, err := tax.WithholdINSS(in.GrossSalary, tables.INSS)
	if err != nil {
		return PayrollResult{}, err
	}
	irrf, err := tax.ComputeIncomeTax(in.GrossSalary, inss, in.OtherDeductions, in.DependentCount, tables.IRRF, tables.DependentDeduction)
	if err != nil {
		return PayrollResult{}, err
	}

	earnings := in.GrossSalary.Add(in.Benefits).Round(2)
	deductions := inss.Add(irrf.Tax).Add(in.OtherDeductions)
	return PayrollResult{
		GrossSalary:         in.GrossSalary,
		Benefits:            in.Benefits,
		TotalEarnings:       earnings,
		INSSTotal:           inss,
		INSSBreakdown:       breakdown,
		IRRFBase:            irrf.Base,
		IRRFTotal:           irrf.Tax,
		IRRFRate:            irrf.Rate,
		IRRFDeductionParcel: irrf.DeductionParcel,
		OtherDeductions:     in.OtherDeductions,
		TotalDeductions:     deductions.Round(2),
		FGTS:                in.GrossSalary.Mul(FGTSRate).Round(2),
		NetPay:              earnings.Sub(deductions).Round(2),
		Dependents:          in.DependentCount,
		TableName:           tables.Name,
	}, nil
}

func InputFor(employee records.Employee) PayrollInput {
	return PayrollInput{
		GrossSalary:     employee.GrossSalary,
		DependentCount:  employee.Dependents,
		OtherDeductions: employee.OtherDeductions,
		Benefits:        employee.Benefits,
	}
}

// PayrollTotal is the employer-side payroll expense used by the DRE: gross
// salaries plus benefits.
func PayrollTotal(employees []records.Employee) decimal.Decimal {
	total := decimal.Zero
	for _, employee := range employees {
		total = total.Add(employee.GrossSalary).Add(employee.Benefits)
	}
	return total.Round(2)
}

func Summarize(employees []records.Employee, tables tax.Tables) (Summary, error) {
	summary := Summary{
		Employees:     len(employees),
		GrossSalaries: decimal.Zero,
		Benefits:      decimal.Zero,
		INSSTotal:     decimal.Zero,
		IRRFTotal:     decimal.Zero,
		FGTSTotal:     decimal.Zero,
		NetTotal:      decimal.Zero,
		Lines:         make([]EmployeePayroll, 0, len(employees)),
	}
	for _, employee := range employees {
		result, err := ComputePayroll(InputFor(employee), tables)
		if err != nil {
			return Summary{}, fmt.Errorf("employee %d: %w", employee.ID, err)
		}
		summary.GrossSalaries = summary.GrossSalaries.Add(result.GrossSalary)
		summary.Benefits = summary.Benefits.Add(result.Benefits)
		summary.INSSTotal = summary.INSSTotal.Add(result.INSSTotal)
		summary.IRRFTotal = summary.IRRFTotal.Add(result.IRRFTotal)
		summary.FGTSTotal = summary.FGTSTotal.Add(result.FGTS)
		summary.NetTotal = summary.NetTotal.Add(result.NetPay)
		summary.Lines = append(summary.Lines, EmployeePayroll{
			EmployeeID: employee.ID,
			Name:       employee.Name,
			Role:       employee.Role,
			Result:     result,
		})
	}
	summary.PayrollTotal = PayrollTotal(employees)
	return summary, nil
}
