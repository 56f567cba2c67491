package payroll

import "github.com/shopspring/decimal"

// FGTSRate is the employer deposit over gross salary.
var FGTSRate = decimal.RequireFromString("0.08")
