// Package authz holds the role-based decision logic. Every function is a
// pure predicate over the caller's global role; membership-scoped checks
// live in the memberships ledger so this package stays database-free.
package authz

import "github.com/sundial-dev/sundial/internal/models"

func IsSuperAdmin(role models.Role) bool {
	return role == models.RoleSuperAdmin
}

// IsAdmin reports whether the role carries project-management powers.
func IsAdmin(role models.Role) bool {
	return role == models.RoleSuperAdmin || role == models.RoleProjectAdmin
}

func CanManageProjects(role models.Role) bool {
	return IsAdmin(role)
}

func CanManageMembers(role models.Role) bool {
	return IsAdmin(role)
}

func CanApproveTimeLogs(role models.Role) bool {
	return IsAdmin(role)
}

// CanAssignRole reports whether the caller may change another user's
// global role at all.
func CanAssignRole(role models.Role) bool {
	return IsSuperAdmin(role)
}

// CanCreateUserWithRole decides what role a newly created user may carry.
// Anonymous self-registration and project_admin callers only ever produce
// plain users; only a super_admin can mint elevated roles.
func CanCreateUserWithRole(caller models.Role, requested models.Role) bool {
	switch requested {
	case models.RoleUser, "":
		return true
	case models.RoleSuperAdmin, models.RoleProjectAdmin:
		return IsSuperAdmin(caller)
	default:
		return false
	}
}

// ListsAllProjects reports whether the role sees every project rather than
// a membership-filtered subset.
func ListsAllProjects(role models.Role) bool {
	return IsSuperAdmin(role)
}
