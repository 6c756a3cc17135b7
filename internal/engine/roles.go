package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleBottom  Role = "BOTTOM"
	RoleSupport Role = "SUPPORT"
)

// RoleOrder is the display order and the tie-break priority used by AssignRoles.
var RoleOrder = [NumRoles]Role{
	RoleTop,
	RoleJungle,
	RoleMid,
	RoleBottom,
	RoleSupport,
}

const NumRoles = 5

var roleAliases = map[string]Role{
	"top":     RoleTop,
	"jungle":  RoleJungle,
	"jgl":     RoleJungle,
	"jg":      RoleJungle,
	"jung":    RoleJungle,
	"mid":     RoleMid,
	"middle":  RoleMid,
	"bottom":  RoleBottom,
	"bot":     RoleBottom,
	"adc":     RoleBottom,
	"support": RoleSupport,
	"sup":     RoleSupport,
	"supp":    RoleSupport,
}

// ParseRole accepts the canonical names and the usual short forms (JGL, BOT, SUP, ...)
// in any letter case.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[cases.Fold().String(strings.TrimSpace(s))]
	return r, ok
}

func (r Role) Valid() bool {
	return r.index() >= 0
}

func (r Role) String() string { return string(r) }

func (r Role) index() int {
	for i, role := range RoleOrder {
		if role == r {
			return i
		}
	}
	return -1
}
