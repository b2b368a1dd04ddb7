// Package policy holds the pure access-control decision table. It performs no
// I/O: callers resolve identities first, then ask the policy what the caller
// may see or mutate.
package policy

import "github.com/hazel260802/lecole-fast-track-24/internal/core/domain"

// Visibility describes how much of a target user record a caller may read.
type Visibility int

const (
	// VisibilityNone hides the record entirely.
	VisibilityNone Visibility = iota
	// VisibilityPublic exposes username and roles only.
	VisibilityPublic
	// VisibilityOwn exposes username, roles, and secret_phrase — the view a
	// user gets of their own record.
	VisibilityOwn
	// VisibilityFull exposes the complete record, id and active flag included.
	VisibilityFull
)

var knownRoles = map[string]struct{}{
	domain.RoleAdmin:     {},
	domain.RoleUser:      {},
	domain.RoleAnonymous: {},
}

// KnownRole reports whether role is within the enumerated set. Any caller
// outside it must be rejected with domain.ErrAccessDenied before consulting
// the visibility table.
func KnownRole(role string) bool {
	_, ok := knownRoles[role]
	return ok
}

// VisibilityFor returns the caller's read visibility of target:
//
//	admin             → full record of every user
//	user              → own record only; nothing of other users
//	non-authenticated → username + roles of every user
//
// Unknown roles see nothing; callers should have rejected them already via
// KnownRole.
func VisibilityFor(caller domain.AccessContext, target domain.User) Visibility {
	switch caller.Role {
	case domain.RoleAdmin:
		return VisibilityFull
	case domain.RoleUser:
		if caller.Username == target.Username {
			return VisibilityOwn
		}
		return VisibilityNone
	case domain.RoleAnonymous:
		return VisibilityPublic
	default:
		return VisibilityNone
	}
}

// CanMutate reports whether caller may change targetUsername's secret phrase:
// admins may mutate anyone, users only themselves, anonymous callers nobody.
func CanMutate(caller domain.AccessContext, targetUsername string) bool {
	if caller.Role == domain.RoleAdmin {
		return true
	}
	if caller.Role == domain.RoleUser {
		return caller.Username == targetUsername
	}
	return false
}
