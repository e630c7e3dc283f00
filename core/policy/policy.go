// Package policy decides which callers may run which operations.
package policy

import "github.com/irsalhamdi/coursehub/core/claims"

type Operation string

const (
	// ReadCatalog lists the course catalog. Only paid users may.
	ReadCatalog Operation = "read-catalog"
	// ReadContent reads a single course, its chapters or its videos.
	ReadContent Operation = "read-content"
	// ManageContent creates, changes or removes courses, chapters and videos.
	ManageContent Operation = "manage-content"
	// ManageUsers changes other accounts.
	ManageUsers Operation = "manage-users"
)

// CanPerform reports whether a caller with the given role and payment
// status may run op. Unknown roles and operations are denied.
func CanPerform(role string, isPaid bool, op Operation) bool {
	if !claims.ValidRole(role) {
		return false
	}

	switch op {
	case ReadCatalog:
		return role == claims.RoleUser && isPaid
	case ReadContent:
		return true
	case ManageContent, ManageUsers:
		return role == claims.RoleAdmin
	default:
		return false
	}
}
