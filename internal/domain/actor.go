package domain

// Role represents the role of the user performing an operation.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// Actor identifies who is performing an operation. It is passed explicitly
// into every mutating operation instead of living in ambient request state.
type Actor struct {
	UserID   string
	Role     Role
	BranchID string
}
