package audit

import (
	"time"

	json "github.com/goccy/go-json"
)

// Actor recorded when the API runs without operator authentication.
const ActorAnonymous = "anonymous"

const (
	ActionEmployeeCreate      = "employee.create"
	ActionPayrollInputsUpdate = "employee.payroll_inputs.update"
	ActionServiceCreate       = "service.create"
	ActionProductCreate       = "product.create"
	ActionSaleRegister        = "sale.register"
	ActionCostCreate          = "cost.create"
	ActionCostAllocate        = "service_cost.allocate"
	ActionRatesUpdate         = "settings.rates.update"
)

type Event struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	Actor      string
}
