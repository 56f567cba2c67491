package finance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"folha/internal/domain/records"
	"folha/internal/domain/settings"
)

var hundred = decimal.NewFromInt(100)

type DayRevenue struct {
	Day   string          `json:"day"`
	Kind  string          `json:"kind"`
	Total decimal.Decimal `json:"total"`
}

type Indicators struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Costs         decimal.Decimal `json:"costs"`
	Taxes         decimal.Decimal `json:"taxes"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	RevenueByDay  []DayRevenue    `json:"revenueByDay"`
}

// ComputeIndicators summarizes the ledger after consumption taxes. Payroll
// is not part of these figures.
func ComputeIndicators(sales []records.Sale, costs []records.Cost, rates settings.Rates) (Indicators, error) {
	if err := rates.Validate(); err != nil {
		return Indicators{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	revenue, err := revenueByKind(sales)
	if err != nil {
		return Indicators{}, err
	}
	direct, indirect, err := costsByKind(costs)
	if err != nil {
		return Indicators{}, err
	}

	out := Indicators{
		Revenue: revenue[records.SaleKindProduct].Add(revenue[records.SaleKindService]),
		Costs:   direct.Add(indirect),
	}
	out.Taxes = out.Revenue.Mul(rates.Combined()).Round(2)
	out.Profit = out.Revenue.Sub(out.Costs).Sub(out.Taxes)
	out.MarginPercent = decimal.Zero
	if out.Revenue.IsPositive() {
		out.MarginPercent = out.Profit.Div(out.Revenue).Mul(hundred).Round(2)
	}
	out.RevenueByDay = RevenueByDay(sales)
	return out, nil
}

// RevenueByDay groups sales by calendar day (UTC) and kind, sorted by day
// then kind.
func RevenueByDay(sales []records.Sale) []DayRevenue {
	type key struct{ day, kind string }
	totals := map[key]decimal.Decimal{}
	for _, sale := range sales {
		k := key{day: sale.CreatedAt.UTC().Format("2006-01-02"), kind: sale.Kind}
		totals[k] = totals[k].Add(sale.Total)
	}
	out := make([]DayRevenue, 0, len(totals))
	for k, total := range totals {
		out = append(out, DayRevenue{Day: k.day, Kind: k.kind, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day == out[j].Day {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Day < out[j].Day
	})
	return out
}
