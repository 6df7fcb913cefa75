package auth

import "strings"

// Role is a rank in the fixed access hierarchy. Every authorization
// decision in the API reduces to a single Satisfies check.
type Role int

const (
	RoleGuest Role = iota
	RoleBand
	RoleEditor
	RoleManager
	RoleAdmin
)

var roleNames = []string{"guest", "band", "editor", "manager", "admin"}

func (r Role) String() string {
	if r < RoleGuest || int(r) >= len(roleNames) {
		return "guest"
	}
	return roleNames[r]
}

// ParseRole maps a group name onto a role, case-insensitive.
func ParseRole(name string) (Role, bool) {
	lower := strings.ToLower(name)
	for i, n := range roleNames {
		if n == lower {
			return Role(i), true
		}
	}
	return RoleGuest, false
}

// RoleFromGroups returns the highest role named in groups,
// defaulting to guest when none match.
func RoleFromGroups(groups []string) Role {
	best := RoleGuest
	for _, g := range groups {
		if r, ok := ParseRole(g); ok && r > best {
			best = r
		}
	}
	return best
}

// Satisfies reports whether r meets the minimum rank.
func (r Role) Satisfies(min Role) bool {
	return r >= min
}
