package access

// Capability names one core operation that is gated by role.
type Capability int

const (
	CreateOrder Capability = iota + 1
	CancelOrder
	RequestAssignment
	UpdateOrderStatus
	ReadOrderHistory
	RegisterCylinder
	ScanCylinder
	UpdateCylinderStatus
	AssignCylinder
	FlagCylinderTamper
	ReadCylinderHistory
	ManageFleet
	ChangeDriverStatus
	ReportDriverLocation
	AddTrackingLog
)

var capabilityNames = map[Capability]string{
	CreateOrder:          "create orders",
	CancelOrder:          "cancel orders",
	RequestAssignment:    "assign orders",
	UpdateOrderStatus:    "update order status",
	ReadOrderHistory:     "read order history",
	RegisterCylinder:     "register cylinders",
	ScanCylinder:         "scan cylinders",
	UpdateCylinderStatus: "update cylinder status",
	AssignCylinder:       "assign cylinders",
	FlagCylinderTamper:   "flag cylinder tampering",
	ReadCylinderHistory:  "read cylinder history",
	ManageFleet:          "manage drivers and vehicles",
	ChangeDriverStatus:   "change driver status",
	ReportDriverLocation: "report driver location",
	AddTrackingLog:       "add tracking logs",
}

func (c Capability) String() string {
	if s, ok := capabilityNames[c]; ok {
		return s
	}
	return "unknown capability"
}

// Scope says how far a granted capability reaches.
type Scope int

const (
	// ScopeNone means the role does not hold the capability.
	ScopeNone Scope = iota
	// ScopeOwn limits the capability to records the actor owns or is assigned to.
	ScopeOwn
	// ScopeAny allows the capability on every record.
	ScopeAny
)

// capabilityTable is the single source of truth for role checks.
var capabilityTable = map[Role]map[Capability]Scope{
	Customer: {
		CreateOrder:         ScopeOwn,
		CancelOrder:         ScopeOwn,
		ReadOrderHistory:    ScopeOwn,
		ScanCylinder:        ScopeAny,
		ReadCylinderHistory: ScopeOwn,
	},
	Driver: {
		UpdateOrderStatus:    ScopeOwn,
		ReadOrderHistory:     ScopeOwn,
		ScanCylinder:         ScopeAny,
		ReadCylinderHistory:  ScopeOwn,
		ChangeDriverStatus:   ScopeOwn,
		ReportDriverLocation: ScopeOwn,
		AddTrackingLog:       ScopeOwn,
	},
	Dispatcher: {
		CancelOrder:          ScopeAny,
		RequestAssignment:    ScopeAny,
		UpdateOrderStatus:    ScopeAny,
		ReadOrderHistory:     ScopeAny,
		RegisterCylinder:     ScopeAny,
		ScanCylinder:         ScopeAny,
		UpdateCylinderStatus: ScopeAny,
		AssignCylinder:       ScopeAny,
		FlagCylinderTamper:   ScopeAny,
		ReadCylinderHistory:  ScopeAny,
		ManageFleet:          ScopeAny,
		ChangeDriverStatus:   ScopeAny,
	},
	Admin: {
		CreateOrder:          ScopeAny,
		CancelOrder:          ScopeAny,
		RequestAssignment:    ScopeAny,
		UpdateOrderStatus:    ScopeAny,
		ReadOrderHistory:     ScopeAny,
		RegisterCylinder:     ScopeAny,
		ScanCylinder:         ScopeAny,
		UpdateCylinderStatus: ScopeAny,
		AssignCylinder:       ScopeAny,
		FlagCylinderTamper:   ScopeAny,
		ReadCylinderHistory:  ScopeAny,
		ManageFleet:          ScopeAny,
		ChangeDriverStatus:   ScopeAny,
		ReportDriverLocation: ScopeAny,
		AddTrackingLog:       ScopeAny,
	},
}

// ScopeOf looks up the scope a role holds for a capability.
func ScopeOf(role Role, capability Capability) Scope {
	return capabilityTable[role][capability]
}
