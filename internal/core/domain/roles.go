package domain

// Roles carried in the bearer token issued by the auth service.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)
