// Package identity keeps a configuration's title, section and branch
// consistent while it is edited, and applies the BSH branch suffix.
package identity

import (
	"strings"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// EffectiveBranch is the branch as stored for role: BSH users get the
// -BSH suffix, everyone else the bare enumeration value.
func EffectiveBranch(base string, role model.Role) string {
	base = BaseBranch(base)
	if role.IsBSH() {
		return base + model.BSHSuffix
	}
	return base
}

// BaseBranch strips the BSH suffix, if any.
func BaseBranch(branch string) string {
	return strings.TrimSuffix(branch, model.BSHSuffix)
}

// branchForEdit normalizes a stored branch for an edit session by role.
func branchForEdit(branch string, role model.Role) string {
	if branch == "" {
		return branch
	}
	hasSuffix := model.HasBSHSuffix(branch)
	switch {
	case role.IsBSH() && !hasSuffix:
		return branch + model.BSHSuffix
	case !role.IsBSH() && hasSuffix:
		return BaseBranch(branch)
	}
	return branch
}

// syncSection rewrites the section segment of a four-part title. Any other
// title shape is returned unchanged.
func syncSection(title, section string) string {
	parts := strings.Split(title, "-")
	if len(parts) != 4 {
		return title
	}
	parts[1] = section
	return strings.Join(parts, "-")
}

// syncBranch swaps prev for next when title starts with prev.
func syncBranch(title, prev, next string) string {
	if prev == "" || !strings.HasPrefix(title, prev) {
		return title
	}
	return next + strings.TrimPrefix(title, prev)
}

// NormalizeTitle uppercases a title the way the form does on every keystroke.
func NormalizeTitle(title string) string {
	return strings.ToUpper(title)
}
