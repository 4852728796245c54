package model

import "strings"

// Role of a console user
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleBSH         Role = "bsh"
)

// IsBSH reports whether r is the BSH department role.
func (r Role) IsBSH() bool { return r == RoleBSH }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleBSH:
		return true
	}
	return false
}

// BSHSuffix marks a branch owned by the BSH department.
const BSHSuffix = "-BSH"

// BSHTag is the department-wide tag used for BSH refresh hints.
const BSHTag = "BSH"

// Branches is the fixed branch enumeration, in display order.
var Branches = []string{
	"CSE", "ECE", "EEE", "MECH", "CIVIL", "AI",
	"AIML", "DS", "CS", "IT", "MBA", "MCA",
}

// IsBranch reports whether b (without suffix) is in the enumeration.
func IsBranch(b string) bool {
	for _, v := range Branches {
		if v == b {
			return true
		}
	}
	return false
}

// HasBSHSuffix reports whether branch carries the BSH suffix.
func HasBSHSuffix(branch string) bool {
	return strings.HasSuffix(branch, BSHSuffix)
}

// IsBSHBranch reports whether a refresh hint or stored branch belongs to BSH.
func IsBSHBranch(branch string) bool {
	return branch == BSHTag || HasBSHSuffix(branch)
}
