package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultDependentDeduction is the monthly amount subtracted from the IRRF
// base per declared dependent.
var DefaultDependentDeduction = decimal.RequireFromString("189.59")

var cent = decimal.New(1, -2)

// IncomeTaxBand is closed on both ends. An invalid Upper means the band has
// no upper bound.
type IncomeTaxBand struct {
	Lower           decimal.Decimal     `json:"lower"`
	Upper           decimal.NullDecimal `json:"upper"`
	Rate            decimal.Decimal     `json:"rate"`
	DeductionParcel decimal.Decimal     `json:"deductionParcel"`
}

func (b IncomeTaxBand) Contains(base decimal.Decimal) bool {
	if base.LessThan(b.Lower) {
		return false
	}
	return !b.Upper.Valid || base.LessThanOrEqual(b.Upper.Decimal)
}

type IncomeTax struct {
	Tax             decimal.Decimal `json:"tax"`
	Rate            decimal.Decimal `json:"rate"`
	DeductionParcel decimal.Decimal `json:"deductionParcel"`
	Base            decimal.Decimal `json:"base"`
}

// ComputeIncomeTax derives the IRRF base and applies the single matching band:
// tax = base*rate - parcel, rounded to cents and floored at zero.
func ComputeIncomeTax(salary, withheld, otherDeductions decimal.Decimal, dependents int, bands []IncomeTaxBand, dependentDeduction decimal.Decimal) (IncomeTax, error) {
	switch {
	case salary.IsNegative():
		return IncomeTax{}, fmt.Errorf("%w: salary %s is negative", ErrInvalidInput, salary)
	case withheld.IsNegative():
		return IncomeTax{}, fmt.Errorf("%w: withheld amount %s is negative", ErrInvalidInput, withheld)
	case otherDeductions.IsNegative():
		return IncomeTax{}, fmt.Errorf("%w: other deductions %s is negative", ErrInvalidInput, otherDeductions)
	case dependents < 0:
		return IncomeTax{}, fmt.Errorf("%w: dependent count %d is negative", ErrInvalidInput, dependents)
	}

	base := salary.Sub(withheld).Sub(otherDeductions).Sub(dependentDeduction.Mul(decimal.NewFromInt(int64(dependents))))
	base = decimal.Max(base, decimal.Zero).Round(2)

	band, ok := matchBand(base, bands)
	if !ok {
		return IncomeTax{}, fmt.Errorf("%w: no income tax band matches base %s", ErrConfigurationInconsistency, base.StringFixed(2))
	}
	tax := decimal.Max(base.Mul(band.Rate).Sub(band.DeductionParcel).Round(2), decimal.Zero)
	return IncomeTax{
		Tax:             tax,
		Rate:            band.Rate,
		DeductionParcel: band.DeductionParcel,
		Base:            base,
	}, nil
}

func matchBand(base decimal.Decimal, bands []IncomeTaxBand) (IncomeTaxBand, bool) {
	for _, band := range bands {
		if band.Contains(base) {
			return band, true
		}
	}
	return IncomeTaxBand{}, false
}

// ValidateBands checks that the bands cover [0, inf) in cent steps: the first
// band starts at zero, each next band starts one cent above the previous
// upper bound and only the last band is unbounded.
func ValidateBands(bands []IncomeTaxBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: income tax table is empty", ErrInvalidInput)
	}
	if !bands[0].Lower.IsZero() {
		return fmt.Errorf("%w: first income tax band must start at 0, got %s", ErrInvalidInput, bands[0].Lower)
	}
	last := len(bands) - 1
	for i, band := range bands {
		if !validRate(band.Rate) {
			return fmt.Errorf("%w: band %d rate %s outside [0,1]", ErrInvalidInput, i, band.Rate)
		}
		if band.DeductionParcel.IsNegative() {
			return fmt.Errorf("%w: band %d deduction parcel is negative", ErrInvalidInput, i)
		}
		if i > 0 {
			want := bands[i-1].Upper.Decimal.Add(cent)
			if !band.Lower.Equal(want) {
				return fmt.Errorf("%w: band %d starts at %s, expected %s", ErrInvalidInput, i, band.Lower, want.StringFixed(2))
			}
		}
		if i < last {
			if !band.Upper.Valid {
				return fmt.Errorf("%w: only the last band may be unbounded (band %d)", ErrInvalidInput, i)
			}
			if band.Upper.Decimal.LessThan(band.Lower) {
				return fmt.Errorf("%w: band %d upper %s below lower %s", ErrInvalidInput, i, band.Upper.Decimal, band.Lower)
			}
		} else if band.Upper.Valid {
			return fmt.Errorf("%w: last band must be unbounded", ErrInvalidInput)
		}
	}
	return nil
}
