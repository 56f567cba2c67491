package records

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	CPF             string          `json:"cpf"`
	CPFEnc          []byte          `json:"-"`
	Role            string          `json:"role"`
	Admission       time.Time       `json:"admission"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	Dependents      int             `json:"dependents"`
	Benefits        decimal.Decimal `json:"benefits"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
}

type Service struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Product struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Sale is a revenue entry. RefID points at a product or a service depending
// on Kind.
type Sale struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	RefID     int64           `json:"refId"`
	Qty       int             `json:"qty"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Cost struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ServiceCost allocates a portion of a cost to a service.
type ServiceCost struct {
	ID                 int64           `json:"id"`
	ServiceID          int64           `json:"serviceId"`
	CostID             int64           `json:"costId"`
	Portion            decimal.Decimal `json:"portion"`
	CreatedAt          time.Time       `json:"createdAt"`
	ServiceDescription string          `json:"service,omitempty"`
	CostDescription    string          `json:"cost,omitempty"`
}

type Counts struct {
	Employees int `json:"employees"`
	Services  int `json:"services"`
	Products  int `json:"products"`
}

// Snapshot is the read-only view handed to the payroll and finance
// calculations.
type Snapshot struct {
	Employees []Employee
	Sales     []Sale
	Costs     []Cost
}
