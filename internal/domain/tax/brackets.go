package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of a progressive table. Rate applies only to the
// income between the previous bracket's UpperLimit and this one.
type TaxBracket struct {
	UpperLimit decimal.Decimal `json:"upperLimit"`
	Rate       decimal.Decimal `json:"rate"`
}

type BracketContribution struct {
	From    decimal.Decimal `json:"from"`
	To      decimal.Decimal `json:"to"`
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Amount  decimal.Decimal `json:"amount"`
}

// ComputeProgressiveWithholding walks the brackets in ascending order and
// rounds each bracket's contribution to cents before summing. Brackets above
// the salary are left out of the breakdown. Income above the last limit is
// not taxed.
func ComputeProgressiveWithholding(salary decimal.Decimal, brackets []TaxBracket) (decimal.Decimal, []BracketContribution) {
	total := decimal.Zero
	floor := decimal.Zero
	breakdown := make([]BracketContribution, 0, len(brackets))
	for _, bracket := range brackets {
		if !salary.GreaterThan(floor) {
			break
		}
		taxable := decimal.Min(bracket.UpperLimit, salary).Sub(floor)
		amount := taxable.Mul(bracket.Rate).Round(2)
		total = total.Add(amount)
		breakdown = append(breakdown, BracketContribution{
			From:    floor,
			To:      bracket.UpperLimit,
			Rate:    bracket.Rate,
			Taxable: taxable,
			Amount:  amount,
		})
		floor = bracket.UpperLimit
	}
	return total, breakdown
}

// WithholdINSS is ComputeProgressiveWithholding with the salary and the
// table checked first.
func WithholdINSS(salary decimal.Decimal, brackets []TaxBracket) (decimal.Decimal, []BracketContribution, error) {
	if salary.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("%w: salary %s is negative", ErrInvalidInput, salary.StringFixed(2))
	}
	if err := ValidateBrackets(brackets); err != nil {
		return decimal.Zero, nil, err
	}
	total, breakdown := ComputeProgressiveWithholding(salary, brackets)
	return total, breakdown, nil
}

func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: bracket table is empty", ErrInvalidInput)
	}
	prev := decimal.Zero
	for i, bracket := range brackets {
		if !bracket.UpperLimit.GreaterThan(prev) {
			return fmt.Errorf("%w: bracket %d upper limit %s must be greater than %s", ErrInvalidInput, i, bracket.UpperLimit, prev)
		}
		if !validRate(bracket.Rate) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0,1]", ErrInvalidInput, i, bracket.Rate)
		}
		prev = bracket.UpperLimit
	}
	return nil
}

func validRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}
