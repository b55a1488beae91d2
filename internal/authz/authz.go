// Package authz maps roles to capabilities. Routes check a named
// capability instead of comparing role strings inline.
package authz

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

// ParseRole validates a role string coming from storage or a token.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleOwner:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Capability is a named permission checked by handlers.
type Capability string

const (
	CapManageCatalog Capability = "catalog:manage"
	CapViewAllOrders Capability = "orders:view-all"
	CapManageOrders  Capability = "orders:manage"
	CapManageUsers   Capability = "users:manage"
)

// policy is the full capability grant table. USER holds no administrative
// capabilities; OWNER is a superset of ADMIN.
var policy = map[Role]map[Capability]bool{
	RoleUser: {},
	RoleAdmin: {
		CapManageCatalog: true,
		CapViewAllOrders: true,
		CapManageOrders:  true,
	},
	RoleOwner: {
		CapManageCatalog: true,
		CapViewAllOrders: true,
		CapManageOrders:  true,
		CapManageUsers:   true,
	},
}

// Allowed reports whether the role holds the capability. Unknown roles
// hold nothing.
func Allowed(role Role, cap Capability) bool {
	grants, ok := policy[role]
	if !ok {
		return false
	}
	return grants[cap]
}
