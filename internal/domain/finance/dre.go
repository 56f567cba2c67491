package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"folha/internal/domain/records"
	"folha/internal/domain/settings"
)

// Statement line keys, in presentation order.
const (
	LineGrossRevenue     = "gross_revenue"
	LineCBS              = "cbs"
	LineIBS              = "ibs"
	LineNetRevenue       = "net_revenue"
	LineCostOfGoods      = "cost_of_goods"
	LineGrossProfit      = "gross_profit"
	LineOperatingExpense = "operating_expense"
	LineOperatingResult  = "operating_result"
	LineNetResult        = "net_result"
)

var lineLabels = map[string]string{
	LineGrossRevenue:     "Receita Bruta",
	LineCBS:              "(-) CBS (simulado)",
	LineIBS:              "(-) IBS (simulado)",
	LineNetRevenue:       "Receita Líquida",
	LineCostOfGoods:      "(-) CPV",
	LineGrossProfit:      "Lucro Bruto",
	LineOperatingExpense: "(-) Despesas Operacionais (inclui folha)",
	LineOperatingResult:  "Resultado Operacional",
	LineNetResult:        "Lucro Líquido",
}

type DRELine struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// DRESummary keeps its lines in statement order.
type DRESummary struct {
	Lines        []DRELine       `json:"lines"`
	Rates        settings.Rates  `json:"rates"`
	PayrollTotal decimal.Decimal `json:"payrollTotal"`
}

func (s DRESummary) Value(key string) (decimal.Decimal, bool) {
	for _, line := range s.Lines {
		if line.Key == key {
			return line.Value, true
		}
	}
	return decimal.Zero, false
}

func (s *DRESummary) add(key string, value decimal.Decimal) {
	s.Lines = append(s.Lines, DRELine{Key: key, Label: lineLabels[key], Value: value})
}

// BuildDRE derives the income statement from the ledger. Income tax and
// social contribution on profit are not simulated, so the net result equals
// the operating result.
func BuildDRE(sales []records.Sale, costs []records.Cost, payrollTotal decimal.Decimal, rates settings.Rates) (DRESummary, error) {
	if err := rates.Validate(); err != nil {
		return DRESummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if payrollTotal.IsNegative() {
		return DRESummary{}, fmt.Errorf("%w: payroll total %s is negative", ErrInvalidInput, payrollTotal)
	}
	revenue, err := revenueByKind(sales)
	if err != nil {
		return DRESummary{}, err
	}
	direct, indirect, err := costsByKind(costs)
	if err != nil {
		return DRESummary{}, err
	}

	gross := revenue[records.SaleKindProduct].Add(revenue[records.SaleKindService])
	cbs := gross.Mul(rates.CBS).Round(2)
	ibs := gross.Mul(rates.IBS).Round(2)
	net := gross.Sub(cbs.Add(ibs))
	grossProfit := net.Sub(direct)
	opex := indirect.Add(payrollTotal)
	operating := grossProfit.Sub(opex)

	summary := DRESummary{Lines: make([]DRELine, 0, len(lineLabels)), Rates: rates, PayrollTotal: payrollTotal}
	summary.add(LineGrossRevenue, gross)
	summary.add(LineCBS, cbs)
	summary.add(LineIBS, ibs)
	summary.add(LineNetRevenue, net)
	summary.add(LineCostOfGoods, direct)
	summary.add(LineGrossProfit, grossProfit)
	summary.add(LineOperatingExpense, opex)
	summary.add(LineOperatingResult, operating)
	summary.add(LineNetResult, operating)
	return summary, nil
}

func revenueByKind(sales []records.Sale) (map[string]decimal.Decimal, error) {
	totals := map[string]decimal.Decimal{
		records.SaleKindProduct: decimal.Zero,
		records.SaleKindService: decimal.Zero,
	}
	for _, sale := range sales {
		current, ok := totals[sale.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: sale %d has unknown kind %q", ErrInvalidInput, sale.ID, sale.Kind)
		}
		if sale.Total.IsNegative() {
			return nil, fmt.Errorf("%w: sale %d has negative total", ErrInvalidInput, sale.ID)
		}
		totals[sale.Kind] = current.Add(sale.Total)
	}
	return totals, nil
}

func costsByKind(costs []records.Cost) (direct, indirect decimal.Decimal, err error) {
	for _, cost := range costs {
		if cost.Amount.IsNegative() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: cost %d has negative amount", ErrInvalidInput, cost.ID)
		}
		switch cost.Kind {
		case records.CostKindDirect:
			direct = direct.Add(cost.Amount)
		case records.CostKindIndirect:
			indirect = indirect.Add(cost.Amount)
		default:
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: cost %d has unknown kind %q", ErrInvalidInput, cost.ID, cost.Kind)
		}
	}
	return direct, indirect, nil
}
