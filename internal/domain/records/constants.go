package records

const (
	SaleKindProduct = "product"
	SaleKindService = "service"

	CostKindDirect   = "direct"
	CostKindIndirect = "indirect"
)

var (
	SaleKinds = []string{SaleKindProduct, SaleKindService}
	CostKinds = []string{CostKindDirect, CostKindIndirect}
)
