// Package guard decides whether a navigation target may be rendered for the
// current session. The decision is a pure function of the session snapshot
// and the target's required role set; nothing is cached between evaluations.
package guard

import (
	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/session"
)

// Decision is the outcome of one guard evaluation.
type Decision int

const (
	// DecisionPending means the session is still rehydrating; render a
	// neutral waiting state, no routing decision yet.
	DecisionPending Decision = iota
	// DecisionLogin redirects to the login entry point.
	DecisionLogin
	// DecisionUnauthorized redirects to the access-denied destination.
	DecisionUnauthorized
	// DecisionAuthorized renders the target.
	DecisionAuthorized
)

// String names the decision for logs.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionLogin:
		return "redirect-login"
	case DecisionUnauthorized:
		return "redirect-unauthorized"
	case DecisionAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// RoleSet is a set of roles permitted to enter a destination. The empty set
// means any authenticated identity may enter.
type RoleSet map[models.Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...models.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports membership.
func (s RoleSet) Contains(role models.Role) bool {
	_, ok := s[role]
	return ok
}

// Roles returns the members in unspecified order.
func (s RoleSet) Roles() []models.Role {
	roles := make([]models.Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	return roles
}

// Evaluate maps (session snapshot, required role set) to a decision:
//
//  1. session still loading            -> pending
//  2. unauthenticated                  -> redirect-login
//  3. identity not active              -> redirect-unauthorized
//  4. non-empty set, role not a member -> redirect-unauthorized
//  5. otherwise                        -> authorized
//
// Step 3 deliberately diverges from treating inactive and pending accounts
// like active ones: a rehydrated session may be stale, and the guard is the
// last check before rendering.
func Evaluate(snap session.Snapshot, required RoleSet) Decision {
	if snap.Loading {
		return DecisionPending
	}
	if !snap.Authenticated || snap.Identity == nil {
		return DecisionLogin
	}
	if snap.Identity.Status != models.StatusActive {
		return DecisionUnauthorized
	}
	if len(required) > 0 && !required.Contains(snap.Identity.Role) {
		return DecisionUnauthorized
	}
	return DecisionAuthorized
}
