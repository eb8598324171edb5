package model

// AdminRole distinguishes the bootstrap operator from regular staff.
// Exactly one entry holds the operator role; only the operator may add or
// remove staff, and the operator entry cannot be removed through the
// staff-removal path.
type AdminRole string

const (
	RoleOperator AdminRole = "operator"
	RoleStaff    AdminRole = "staff"
)

type AdminEntry struct {
	Principal string    `json:"principal"`
	Name      string    `json:"name"`
	Role      AdminRole `json:"role"`
	AddedAt   int64     `json:"addedAt,string"` // unix nanoseconds
}

// AuthStatus is the backend's answer to isAuthorized.
type AuthStatus string

const (
	AuthAuthorized      AuthStatus = "authorized"
	AuthOperatorMissing AuthStatus = "operatorMissing"
	AuthUnauthorized    AuthStatus = "unauthorized"
)

type AuthResult struct {
	Status  AuthStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}
