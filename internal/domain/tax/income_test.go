package tax

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeIncomeTaxExemptBand(t *testing.T) {
	tables := DefaultTables()
	got, err := ComputeIncomeTax(dec("2428.80"), decimal.Zero, decimal.Zero, 0, tables.IRRF, tables.DependentDeduction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Base.Equal(dec("2428.80")) {
		t.Fatalf("expected base 2428.80, got %s", got.Base)
	}
	if !got.Tax.IsZero() || !got.Rate.IsZero() || !got.DeductionParcel.IsZero() {
		t.Fatalf("expected exempt band, got %+v", got)
	}
}

func TestComputeIncomeTaxBands(t *testing.T) {
	tables := DefaultTables()
	cases := []struct {
		name       string
		salary     string
		withheld   string
		other      string
		dependents int
		wantBase   string
		wantTax    string
		wantRate   string
		wantParcel string
	}{
		{"second band", "3000.00", "253.41", "0", 0, "2746.59", "23.83", "0.075", "182.16"},
		{"dependents", "5000.00", "509.59", "0", 2, "4111.23", "249.54", "0.225", "675.49"},
		{"other deductions", "5000.00", "509.59", "379.18", 0, "4111.23", "249.54", "0.225", "675.49"},
		{"top band", "10000.00", "951.63", "0", 0, "9048.37", "1579.57", "0.275", "908.73"},
		{"base floored at zero", "300.00", "22.50", "0", 5, "0", "0", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeIncomeTax(dec(tc.salary), dec(tc.withheld), dec(tc.other), tc.dependents, tables.IRRF, tables.DependentDeduction)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Base.Equal(dec(tc.wantBase)) {
				t.Fatalf("base: expected %s, got %s", tc.wantBase, got.Base)
			}
			if !got.Tax.Equal(dec(tc.wantTax)) {
				t.Fatalf("tax: expected %s, got %s", tc.wantTax, got.Tax)
			}
			if !got.Rate.Equal(dec(tc.wantRate)) || !got.DeductionParcel.Equal(dec(tc.wantParcel)) {
				t.Fatalf("band: expected %s/%s, got %s/%s", tc.wantRate, tc.wantParcel, got.Rate, got.DeductionParcel)
			}
		})
	}
}

func TestComputeIncomeTaxRejectsInvalidInput(t *testing.T) {
	tables := DefaultTables()
	cases := []struct {
		name       string
		salary     string
		withheld   string
		other      string
		dependents int
	}{
		{"negative salary", "-1", "0", "0", 0},
		{"negative withheld", "1000", "-1", "0", 0},
		{"negative other", "1000", "0", "-1", 0},
		{"negative dependents", "1000", "0", "0", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeIncomeTax(dec(tc.salary), dec(tc.withheld), dec(tc.other), tc.dependents, tables.IRRF, tables.DependentDeduction)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComputeIncomeTaxNoMatchingBand(t *testing.T) {
	bands := []IncomeTaxBand{
		{Lower: dec("0"), Upper: decimal.NewNullDecimal(dec("100.00")), Rate: dec("0"), DeductionParcel: dec("0")},
		{Lower: dec("200.00"), Rate: dec("0.1"), DeductionParcel: dec("0")},
	}
	_, err := ComputeIncomeTax(dec("150.00"), decimal.Zero, decimal.Zero, 0, bands, DefaultDependentDeduction)
	if !errors.Is(err, ErrConfigurationInconsistency) {
		t.Fatalf("expected ErrConfigurationInconsistency, got %v", err)
	}
}

func TestIncomeTaxBandCoverage(t *testing.T) {
	tables := DefaultTables()
	var bases []decimal.Decimal
	for _, band := range tables.IRRF {
		bases = append(bases, band.Lower, band.Lower.Sub(cent), band.Lower.Add(cent))
		if band.Upper.Valid {
			bases = append(bases, band.Upper.Decimal, band.Upper.Decimal.Add(cent))
		}
	}
	for base := decimal.Zero; base.LessThan(dec("20000")); base = base.Add(dec("1.37")) {
		bases = append(bases, base)
	}

	for _, base := range bases {
		if base.IsNegative() {
			continue
		}
		matches := 0
		for _, band := range tables.IRRF {
			if band.Contains(base) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("base %s matched %d bands", base, matches)
		}
	}
}

func TestComputeIncomeTaxMonotonicInSalary(t *testing.T) {
	tables := DefaultTables()
	prev := decimal.Zero
	for salary := decimal.Zero; salary.LessThan(dec("15000")); salary = salary.Add(dec("23.17")) {
		inss, _ := ComputeProgressiveWithholding(salary, tables.INSS)
		got, err := ComputeIncomeTax(salary, inss, decimal.Zero, 1, tables.IRRF, tables.DependentDeduction)
		if err != nil {
			t.Fatalf("salary %s: %v", salary, err)
		}
		if got.Tax.LessThan(prev) {
			t.Fatalf("salary %s: tax %s decreased from %s", salary, got.Tax, prev)
		}
		prev = got.Tax
	}
}

func TestValidateBands(t *testing.T) {
	upper := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }
	cases := []struct {
		name  string
		bands []IncomeTaxBand
	}{
		{"empty", nil},
		{"starts above zero", []IncomeTaxBand{{Lower: dec("1"), Rate: dec("0")}}},
		{"gap", []IncomeTaxBand{{Lower: dec("0"), Upper: upper("100"), Rate: dec("0")}, {Lower: dec("100.02"), Rate: dec("0.1")}}},
		{"overlap", []IncomeTaxBand{{Lower: dec("0"), Upper: upper("100"), Rate: dec("0")}, {Lower: dec("100"), Rate: dec("0.1")}}},
		{"unbounded middle", []IncomeTaxBand{{Lower: dec("0"), Rate: dec("0")}, {Lower: dec("100"), Rate: dec("0.1")}}},
		{"bounded last", []IncomeTaxBand{{Lower: dec("0"), Upper: upper("100"), Rate: dec("0")}}},
		{"negative parcel", []IncomeTaxBand{{Lower: dec("0"), Rate: dec("0"), DeductionParcel: dec("-1")}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateBands(tc.bands); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if err := ValidateBands(DefaultTables().IRRF); err != nil {
		t.Fatalf("default bands should be valid: %v", err)
	}
}

func TestComputeIncomeTaxRepeatable(t *testing.T) {
	tables := DefaultTables()
	for _, salary := range []string{"0", "2428.80", "3000.00", "4664.68", "10000.00"} {
		first, err := ComputeIncomeTax(dec(salary), dec("100.00"), dec("50.00"), 1, tables.IRRF, tables.DependentDeduction)
		if err != nil {
			t.Fatalf("salary %s: %v", salary, err)
		}
		for i := 0; i < 3; i++ {
			again, err := ComputeIncomeTax(dec(salary), dec("100.00"), dec("50.00"), 1, tables.IRRF, tables.DependentDeduction)
			if err != nil {
				t.Fatalf("salary %s: %v", salary, err)
			}
			if again.Base.String() != first.Base.String() || again.Tax.String() != first.Tax.String() ||
				again.Rate.String() != first.Rate.String() || again.DeductionParcel.String() != first.DeductionParcel.String() {
				t.Fatalf("salary %s: repeated call gave %+v, first %+v", salary, again, first)
			}
		}
	}
}
