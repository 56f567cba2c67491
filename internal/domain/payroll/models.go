package payroll

import (
	"github.com/shopspring/decimal"

	"folha/internal/domain/tax"
)

type PayrollInput struct {
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	DependentCount  int             `json:"dependentCount"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Benefits        decimal.Decimal `json:"benefits"`
}

// PayrollResult is one month of withholding for one employee. FGTS is
// reported but never deducted.
type PayrollResult struct {
	GrossSalary         decimal.Decimal           `json:"grossSalary"`
	Benefits            decimal.Decimal           `json:"benefits"`
	TotalEarnings       decimal.Decimal           `json:"totalEarnings"`
	INSSTotal           decimal.Decimal           `json:"inssTotal"`
	INSSBreakdown       []tax.BracketContribution `json:"inssBreakdown"`
	IRRFBase            decimal.Decimal           `json:"irrfBase"`
	IRRFTotal           decimal.Decimal           `json:"irrfTotal"`
	IRRFRate            decimal.Decimal           `json:"irrfRate"`
	IRRFDeductionParcel decimal.Decimal           `json:"irrfDeductionParcel"`
	OtherDeductions     decimal.Decimal           `json:"otherDeductions"`
	TotalDeductions     decimal.Decimal           `json:"totalDeductions"`
	FGTS                decimal.Decimal           `json:"fgts"`
	NetPay              decimal.Decimal           `json:"netPay"`
	Dependents          int                       `json:"dependents"`
	TableName           string                    `json:"tableName"`
}

type EmployeePayroll struct {
	EmployeeID int64         `json:"employeeId"`
	Name       string        `json:"name"`
	Role       string        `json:"role"`
	Result     PayrollResult `json:"result"`
}

type Summary struct {
	Employees     int               `json:"employees"`
	GrossSalaries decimal.Decimal   `json:"grossSalaries"`
	Benefits      decimal.Decimal   `json:"benefits"`
	PayrollTotal  decimal.Decimal   `json:"payrollTotal"`
	INSSTotal     decimal.Decimal   `json:"inssTotal"`
	IRRFTotal     decimal.Decimal   `json:"irrfTotal"`
	FGTSTotal     decimal.Decimal   `json:"fgtsTotal"`
	NetTotal      decimal.Decimal   `json:"netTotal"`
	Lines         []EmployeePayroll `json:"lines"`
}
