// Package policy decides whether a role satisfies the capability required by
// an endpoint.  Decisions are pure functions of the role; nothing is cached,
// so a role change takes effect on the very next request.
package policy

import "github.com/iliyamo/condominio-auth/internal/model"

// Capability names an authorization requirement attached to a route.
type Capability int

const (
	// Public routes need no credentials at all.
	Public Capability = iota
	// Authenticated routes accept any valid token of an active account.
	Authenticated
	// AdminOrAbove routes require ADMIN or SUPER_ADMIN.
	AdminOrAbove
	// SuperAdminOnly routes require SUPER_ADMIN.
	SuperAdminOnly
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "PUBLIC"
	case Authenticated:
		return "AUTHENTICATED"
	case AdminOrAbove:
		return "ADMIN_OR_ABOVE"
	case SuperAdminOnly:
		return "SUPER_ADMIN_ONLY"
	}
	return "UNKNOWN"
}

// Authorize reports whether role satisfies required.  Public needs no role;
// every other capability is checked against explicit role sets, with no
// inheritance between them.  Unknown roles or capabilities are denied.
func Authorize(role model.Role, required Capability) bool {
	if required == Public {
		return true
	}
	if !role.Valid() {
		return false
	}
	switch required {
	case Authenticated:
		return true
	case AdminOrAbove:
		return adminOrAbove(role)
	case SuperAdminOnly:
		return role == model.RoleSuperAdmin
	}
	return false
}

func adminOrAbove(role model.Role) bool {
	switch role {
	case model.RoleSuperAdmin, model.RoleAdmin:
		return true
	case model.RoleContador, model.RoleGuardia, model.RoleResidente:
		return false
	}
	return false
}
