package security

// Role of a shop user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// Action performed on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource names used in route registration.
const (
	ResourceProducts      = "products"
	ResourceClients       = "clients"
	ResourceSellers       = "sellers"
	ResourceSales         = "sales"
	ResourceCashRegisters = "cash_registers"
	ResourceReports       = "reports"
	ResourceUsers         = "users"
)

var (
	allActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	readOnly   = []Action{ActionRead}
)

// matrix maps role -> resource -> allowed actions. Admin is handled apart.
var matrix = map[Role]map[string][]Action{
	RoleOperator: {
		ResourceProducts:      readOnly,
		ResourceClients:       {ActionCreate, ActionRead, ActionUpdate},
		ResourceSellers:       readOnly,
		ResourceSales:         {ActionCreate, ActionRead, ActionUpdate},
		ResourceCashRegisters: {ActionCreate, ActionRead, ActionUpdate},
		ResourceReports:       readOnly,
	},
	RoleViewer: {
		ResourceProducts:      readOnly,
		ResourceClients:       readOnly,
		ResourceSellers:       readOnly,
		ResourceSales:         readOnly,
		ResourceCashRegisters: readOnly,
		ResourceReports:       readOnly,
	},
}

// Can reports whether role may perform action on resource.
// Unknown roles fall back to viewer.
func Can(role Role, action Action, resource string) bool {
	if role == RoleAdmin {
		return true
	}
	if !role.Valid() {
		role = RoleViewer
	}
	for _, a := range matrix[role][resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Actions lists everything role may do on resource.
func Actions(role Role, resource string) []Action {
	if role == RoleAdmin {
		return allActions
	}
	return matrix[role][resource]
}
