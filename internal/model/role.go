package model

import "strings"

// Role is the closed set of condominium roles a Profile can hold.  The zero
// value is not a valid role; use ParseRole to turn client input into a Role.
type Role string

const (
    RoleSuperAdmin Role = "SUPER_ADMIN"
    RoleAdmin      Role = "ADMIN"
    RoleContador   Role = "CONTADOR"
    RoleGuardia    Role = "GUARDIA"
    RoleResidente  Role = "RESIDENTE"
)

// DefaultRole is assigned to every new Profile unless another role is requested.
const DefaultRole = RoleResidente

// Roles lists every valid role in descending order of privilege.
func Roles() []Role {
    return []Role{RoleSuperAdmin, RoleAdmin, RoleContador, RoleGuardia, RoleResidente}
}

// ParseRole returns the Role named by s.  Matching is exact after trimming
// spaces; lower-case input is rejected to keep stored values canonical.
func ParseRole(s string) (Role, bool) {
    r := Role(strings.TrimSpace(s))
    return r, r.Valid()
}

// Valid reports whether r is one of the five enumerated roles.
func (r Role) Valid() bool {
    switch r {
    case RoleSuperAdmin, RoleAdmin, RoleContador, RoleGuardia, RoleResidente:
        return true
    }
    return false
}

// Label is the human readable name shown in admin tooling.
func (r Role) Label() string {
    switch r {
    case RoleSuperAdmin:
        return "Super Administrador"
    case RoleAdmin:
        return "Administrador"
    case RoleContador:
        return "Contador"
    case RoleGuardia:
        return "Guardia de Seguridad"
    case RoleResidente:
        return "Residente"
    }
    return string(r)
}

// IsStaff reports whether accounts holding r get the staff flag.
func (r Role) IsStaff() bool { return r == RoleAdmin || r == RoleSuperAdmin }

func (r Role) String() string { return string(r) }
