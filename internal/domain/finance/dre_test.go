package finance

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"folha/internal/domain/records"
	"folha/internal/domain/settings"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustLine(t *testing.T, summary DRESummary, key string) decimal.Decimal {
	t.Helper()
	value, ok := summary.Value(key)
	if !ok {
		t.Fatalf("line %s missing", key)
	}
	return value
}

func TestBuildDREEmptyLedger(t *testing.T) {
	summary, err := BuildDRE(nil, nil, dec("8400"), settings.DefaultRates())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, key := range []string{LineGrossRevenue, LineCBS, LineIBS, LineNetRevenue, LineCostOfGoods, LineGrossProfit} {
		if v := mustLine(t, summary, key); !v.IsZero() {
			t.Fatalf("%s: expected zero, got %s", key, v)
		}
	}
	if v := mustLine(t, summary, LineOperatingExpense); !v.Equal(dec("8400")) {
		t.Fatalf("expected operating expense 8400, got %s", v)
	}
	if v := mustLine(t, summary, LineNetResult); !v.Equal(dec("-8400")) {
		t.Fatalf("expected net result -8400, got %s", v)
	}
}

func TestBuildDRELineOrderAndLabels(t *testing.T) {
	summary, err := BuildDRE(nil, nil, decimal.Zero, settings.DefaultRates())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{
		"Receita Bruta",
		"(-) CBS (simulado)",
		"(-) IBS (simulado)",
		"Receita Líquida",
		"(-) CPV",
		"Lucro Bruto",
		"(-) Despesas Operacionais (inclui folha)",
		"Resultado Operacional",
		"Lucro Líquido",
	}
	if len(summary.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(summary.Lines))
	}
	for i, label := range want {
		if summary.Lines[i].Label != label {
			t.Fatalf("line %d: got %q want %q", i, summary.Lines[i].Label, label)
		}
	}
}

func ledger() ([]records.Sale, []records.Cost) {
	day := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	sales := []records.Sale{
		{ID: 1, Kind: records.SaleKindProduct, Qty: 3, Total: dec("389.70"), CreatedAt: day},
		{ID: 2, Kind: records.SaleKindService, Qty: 1, Total: dec("1500.00"), CreatedAt: day},
		{ID: 3, Kind: records.SaleKindProduct, Qty: 1, Total: dec("110.30"), CreatedAt: day.AddDate(0, 0, 1)},
	}
	costs := []records.Cost{
		{ID: 1, Kind: records.CostKindDirect, Amount: dec("300")},
		{ID: 2, Kind: records.CostKindIndirect, Amount: dec("250")},
	}
	return sales, costs
}

func TestBuildDREWithLedger(t *testing.T) {
	sales, costs := ledger()
	summary, err := BuildDRE(sales, costs, dec("1000"), settings.DefaultRates())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := map[string]string{
		LineGrossRevenue:     "2000.00",
		LineCBS:              "240.00",
		LineIBS:              "160.00",
		LineNetRevenue:       "1600.00",
		LineCostOfGoods:      "300",
		LineGrossProfit:      "1300.00",
		LineOperatingExpense: "1250",
		LineOperatingResult:  "50.00",
		LineNetResult:        "50.00",
	}
	for key, value := range want {
		if got := mustLine(t, summary, key); !got.Equal(dec(value)) {
			t.Fatalf("%s: got %s want %s", key, got, value)
		}
	}
}

func TestBuildDRERoundsTaxesPerLine(t *testing.T) {
	sales := []records.Sale{{ID: 1, Kind: records.SaleKindService, Qty: 1, Total: dec("10.05")}}
	rates := settings.Rates{CBS: dec("0.125"), IBS: dec("0.075")}
	summary, err := BuildDRE(sales, nil, decimal.Zero, rates)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// 10.05 * 0.125 = 1.25625, 10.05 * 0.075 = 0.75375
	if v := mustLine(t, summary, LineCBS); !v.Equal(dec("1.26")) {
		t.Fatalf("cbs: got %s", v)
	}
	if v := mustLine(t, summary, LineIBS); !v.Equal(dec("0.75")) {
		t.Fatalf("ibs: got %s", v)
	}
	if v := mustLine(t, summary, LineNetRevenue); !v.Equal(dec("8.04")) {
		t.Fatalf("net revenue: got %s", v)
	}
}

func TestBuildDREIndependentOfOrder(t *testing.T) {
	sales, costs := ledger()
	base, err := BuildDRE(sales, costs, dec("1000"), settings.DefaultRates())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffledSales := append([]records.Sale(nil), sales...)
		shuffledCosts := append([]records.Cost(nil), costs...)
		rng.Shuffle(len(shuffledSales), func(a, b int) { shuffledSales[a], shuffledSales[b] = shuffledSales[b], shuffledSales[a] })
		rng.Shuffle(len(shuffledCosts), func(a, b int) { shuffledCosts[a], shuffledCosts[b] = shuffledCosts[b], shuffledCosts[a] })
		got, err := BuildDRE(shuffledSales, shuffledCosts, dec("1000"), settings.DefaultRates())
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		for j := range base.Lines {
			if !got.Lines[j].Value.Equal(base.Lines[j].Value) {
				t.Fatalf("line %s changed with record order: %s vs %s", base.Lines[j].Key, got.Lines[j].Value, base.Lines[j].Value)
			}
		}
	}
}

func TestBuildDRERejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		sales   []records.Sale
		costs   []records.Cost
		payroll decimal.Decimal
		rates   settings.Rates
	}{
		{name: "unknown sale kind", sales: []records.Sale{{Kind: "rental", Total: dec("1")}}},
		{name: "negative sale", sales: []records.Sale{{Kind: records.SaleKindProduct, Total: dec("-1")}}},
		{name: "unknown cost kind", costs: []records.Cost{{Kind: "other", Amount: dec("1")}}},
		{name: "negative cost", costs: []records.Cost{{Kind: records.CostKindDirect, Amount: dec("-1")}}},
		{name: "negative payroll", payroll: dec("-1")},
		{name: "rate above one", rates: settings.Rates{CBS: dec("1.5"), IBS: decimal.Zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := tt.rates
			if rates.CBS.IsZero() && rates.IBS.IsZero() {
				rates = settings.DefaultRates()
			}
			if _, err := BuildDRE(tt.sales, tt.costs, tt.payroll, rates); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildDRERepeatable(t *testing.T) {
	sales, costs := ledger()
	first, err := BuildDRE(sales, costs, dec("1000"), settings.DefaultRates())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := BuildDRE(sales, costs, dec("1000"), settings.DefaultRates())
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if len(again.Lines) != len(first.Lines) {
			t.Fatalf("expected %d lines, got %d", len(first.Lines), len(again.Lines))
		}
		for j := range first.Lines {
			a, b := again.Lines[j], first.Lines[j]
			if a.Key != b.Key || a.Label != b.Label || a.Value.String() != b.Value.String() {
				t.Fatalf("line %d: repeated call gave %+v, first %+v", j, a, b)
			}
		}
	}
}
