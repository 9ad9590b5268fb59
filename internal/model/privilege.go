package model

// Privilege codes checked by middleware.RequirePrivilege
const (
	PrivMaterialWrite    = "material:write"
	PrivProductWrite     = "product:write"
	PrivProductionCommit = "production:commit"
	PrivProductionView   = "production:view"
)

// Operator roles
const (
	RoleAdmin   = "ADMIN"
	RolePlanner = "PLANNER"
	RoleViewer  = "VIEWER"
)

// RolePrivileges defines what each role may do
var RolePrivileges = map[string][]string{
	RoleAdmin: {
		PrivMaterialWrite,
		PrivProductWrite,
		PrivProductionCommit,
		PrivProductionView,
	},
	// Planners run production but do not edit master data
	RolePlanner: {
		PrivProductionCommit,
		PrivProductionView,
	},
	RoleViewer: {
		PrivProductionView,
	},
}

// AllPrivileges is granted to the implicit system operator when auth is off
func AllPrivileges() []string {
	return append([]string(nil), RolePrivileges[RoleAdmin]...)
}
