package services

import "github.com/civictech-tw/casework/models"

// PermissionChecker decides whether a principal may modify a case. The
// principal is already authenticated by the application layer; this package
// only cares about what it may do.
type PermissionChecker interface {
	CanModifyCase(actor *models.User, c *models.Case) bool
}

// RolePermissionChecker grants case modification to admin and staff roles.
type RolePermissionChecker struct{}

func (RolePermissionChecker) CanModifyCase(actor *models.User, c *models.Case) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.UserRoleAdmin || actor.Role == models.UserRoleStaff
}
