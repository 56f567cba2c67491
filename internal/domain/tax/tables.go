package tax

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tables_2025.yaml
var defaultTablesYAML []byte

// Tables is the full set of withholding tables the calculators run against.
type Tables struct {
	Name               string          `json:"name"`
	INSS               []TaxBracket    `json:"inss"`
	IRRF               []IncomeTaxBand `json:"irrf"`
	DependentDeduction decimal.Decimal `json:"dependentDeduction"`
}

func (t Tables) Validate() error {
	if err := ValidateBrackets(t.INSS); err != nil {
		return fmt.Errorf("inss: %w", err)
	}
	if err := ValidateBands(t.IRRF); err != nil {
		return fmt.Errorf("irrf: %w", err)
	}
	if t.DependentDeduction.IsNegative() {
		return fmt.Errorf("%w: dependent deduction is negative", ErrInvalidInput)
	}
	return nil
}

type yamlTables struct {
	Name               string        `yaml:"name"`
	DependentDeduction string        `yaml:"dependent_deduction"`
	INSS               []yamlBracket `yaml:"inss"`
	IRRF               []yamlBand    `yaml:"irrf"`
}

type yamlBracket struct {
	UpperLimit string `yaml:"upper_limit"`
	Rate       string `yaml:"rate"`
}

type yamlBand struct {
	Lower           string `yaml:"lower"`
	Upper           string `yaml:"upper"`
	Rate            string `yaml:"rate"`
	DeductionParcel string `yaml:"deduction_parcel"`
}

// DefaultTables returns the embedded tables. It panics only if the embedded
// file is broken, which the package tests guard against.
func DefaultTables() Tables {
	tables, err := ParseTables(defaultTablesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded tax tables invalid: %v", err))
	}
	return tables
}

// LoadTables reads tables from path, falling back to the embedded defaults
// when path is empty.
func LoadTables(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTables(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tax tables: %w", err)
	}
	return ParseTables(raw)
}

func ParseTables(raw []byte) (Tables, error) {
	var doc yamlTables
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Tables{}, fmt.Errorf("%w: decode tax tables: %v", ErrInvalidInput, err)
	}

	tables := Tables{Name: doc.Name, DependentDeduction: DefaultDependentDeduction}
	if doc.DependentDeduction != "" {
		value, err := parseAmount("dependent_deduction", doc.DependentDeduction)
		if err != nil {
			return Tables{}, err
		}
		tables.DependentDeduction = value
	}

	for i, b := range doc.INSS {
		limit, err := parseAmount(fmt.Sprintf("inss[%d].upper_limit", i), b.UpperLimit)
		if err != nil {
			return Tables{}, err
		}
		rate, err := parseAmount(fmt.Sprintf("inss[%d].rate", i), b.Rate)
		if err != nil {
			return Tables{}, err
		}
		tables.INSS = append(tables.INSS, TaxBracket{UpperLimit: limit, Rate: rate})
	}

	for i, b := range doc.IRRF {
		band := IncomeTaxBand{}
		var err error
		if band.Lower, err = parseAmount(fmt.Sprintf("irrf[%d].lower", i), b.Lower); err != nil {
			return Tables{}, err
		}
		if strings.TrimSpace(b.Upper) != "" {
			upper, err := parseAmount(fmt.Sprintf("irrf[%d].upper", i), b.Upper)
			if err != nil {
				return Tables{}, err
			}
			band.Upper = decimal.NewNullDecimal(upper)
		}
		if band.Rate, err = parseAmount(fmt.Sprintf("irrf[%d].rate", i), b.Rate); err != nil {
			return Tables{}, err
		}
		parcel := b.DeductionParcel
		if strings.TrimSpace(parcel) == "" {
			parcel = "0"
		}
		if band.DeductionParcel, err = parseAmount(fmt.Sprintf("irrf[%d].deduction_parcel", i), parcel); err != nil {
			return Tables{}, err
		}
		tables.IRRF = append(tables.IRRF, band)
	}

	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidInput, field, raw)
	}
	return value, nil
}
