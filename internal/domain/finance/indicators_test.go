package finance

import (
	"testing"

	"folha/internal/domain/records"
	"folha/internal/domain/settings"
)

func TestComputeIndicators(t *testing.T) {
	sales, costs := ledger()
	got, err := ComputeIndicators(sales, costs, settings.DefaultRates())
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}
	if !got.Revenue.Equal(dec("2000")) || !got.Costs.Equal(dec("550")) || !got.Taxes.Equal(dec("400")) {
		t.Fatalf("unexpected totals %+v", got)
	}
	if !got.Profit.Equal(dec("1050")) {
		t.Fatalf("expected profit 1050, got %s", got.Profit)
	}
	if !got.MarginPercent.Equal(dec("52.5")) {
		t.Fatalf("expected margin 52.50, got %s", got.MarginPercent)
	}
	if len(got.RevenueByDay) != 3 {
		t.Fatalf("expected 3 day buckets, got %+v", got.RevenueByDay)
	}
	first := got.RevenueByDay[0]
	if first.Day != "2025-06-10" || first.Kind != records.SaleKindProduct || !first.Total.Equal(dec("389.70")) {
		t.Fatalf("unexpected first bucket %+v", first)
	}
	last := got.RevenueByDay[2]
	if last.Day != "2025-06-11" || !last.Total.Equal(dec("110.30")) {
		t.Fatalf("unexpected last bucket %+v", last)
	}
}

func TestComputeIndicatorsNoRevenue(t *testing.T) {
	costs := []records.Cost{{Kind: records.CostKindIndirect, Amount: dec("100")}}
	got, err := ComputeIndicators(nil, costs, settings.DefaultRates())
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}
	if !got.MarginPercent.IsZero() {
		t.Fatalf("expected zero margin without revenue, got %s", got.MarginPercent)
	}
	if !got.Profit.Equal(dec("-100")) {
		t.Fatalf("expected profit -100, got %s", got.Profit)
	}
	if len(got.RevenueByDay) != 0 {
		t.Fatalf("expected no day buckets")
	}
}
