package actor

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the already-authenticated caller's role, carried in the JWT issued
// by the out-of-scope auth service.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCreator  Role = "creator"
	RoleAdmin    Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleCreator, RoleAdmin:
		return Role(s), nil
	default:
		return Role(""), ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}
