package auth

import "strings"

// Role is an account role. Higher roles include the rights of lower ones.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEngineer Role = "engineer"
	RoleAdmin    Role = "admin"
)

// roleLevels orders roles from least to most privileged.
var roleLevels = []Role{RoleStudent, RoleEngineer, RoleAdmin}

// legacyRoles maps role names stored by earlier deployments.
var legacyRoles = map[string]Role{
	"etudiant":  RoleStudent,
	"ingenieur": RoleEngineer,
}

// ParseRole accepts a role name in any case, with surrounding spaces, or a
// legacy name.
func ParseRole(value string) (Role, bool) {
	name := strings.ToLower(strings.TrimSpace(value))
	if role, ok := legacyRoles[name]; ok {
		return role, true
	}
	role := Role(name)
	return role, role.Valid()
}

// Valid reports whether r is a known role in canonical form.
func (r Role) Valid() bool {
	return r.level() > 0
}

// AtLeast reports whether r grants the rights of required. Unknown roles
// grant nothing.
func (r Role) AtLeast(required Role) bool {
	level := r.level()
	return level > 0 && level >= required.level()
}

func (r Role) level() int {
	for i, known := range roleLevels {
		if r == known {
			return i + 1
		}
	}
	return 0
}
