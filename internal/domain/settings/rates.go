package settings

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidRates = errors.New("invalid consumption tax rates")

// Rates are the simulated consumption-tax rates applied to gross revenue,
// as fractions.
type Rates struct {
	CBS decimal.Decimal `json:"cbsRate"`
	IBS decimal.Decimal `json:"ibsRate"`
}

func DefaultRates() Rates {
	return Rates{
		CBS: decimal.RequireFromString("0.12"),
		IBS: decimal.RequireFromString("0.08"),
	}
}

func (r Rates) Combined() decimal.Decimal {
	return r.CBS.Add(r.IBS)
}

func (r Rates) Validate() error {
	one := decimal.NewFromInt(1)
	if r.CBS.IsNegative() || r.CBS.GreaterThan(one) {
		return fmt.Errorf("%w: CBS rate %s outside [0,1]", ErrInvalidRates, r.CBS)
	}
	if r.IBS.IsNegative() || r.IBS.GreaterThan(one) {
		return fmt.Errorf("%w: IBS rate %s outside [0,1]", ErrInvalidRates, r.IBS)
	}
	return nil
}
