package guard

import (
	"fmt"
	"sort"

	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/session"
)

// Policy maps navigation destinations to the role set permitted to enter.
// A destination absent from the policy, or mapped to an empty set, admits
// any authenticated identity. The policy is fixed configuration, assembled
// at build time and validated once at startup.
type Policy map[string]RoleSet

// DefaultPolicy mirrors the platform's navigation tree.
func DefaultPolicy() Policy {
	return Policy{
		"dashboard":   NewRoleSet(),
		"colleges":    NewRoleSet(models.RoleSuperAdmin),
		"users":       NewRoleSet(models.RoleSuperAdmin, models.RoleAdmin),
		"courses":     NewRoleSet(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTrainer, models.RoleStudent),
		"my-courses":  NewRoleSet(models.RoleStudent),
		"assignments": NewRoleSet(models.RoleTrainer, models.RoleStudent),
		"groups":      NewRoleSet(models.RoleStaff, models.RoleStudent),
		"calendar":    NewRoleSet(),
		"schedule":    NewRoleSet(),
		"progress":    NewRoleSet(),
		"attendance":  NewRoleSet(),
		"analytics":   NewRoleSet(),
		"settings":    NewRoleSet(),
	}
}

// Validate checks every role in the policy against the closed role set.
// Call it once at startup; a failure is a build configuration bug.
func (p Policy) Validate() error {
	destinations := make([]string, 0, len(p))
	for dest := range p {
		destinations = append(destinations, dest)
	}
	sort.Strings(destinations)

	for _, dest := range destinations {
		for role := range p[dest] {
			if !role.Valid() {
				return fmt.Errorf("destination %q allows unknown role %q", dest, role)
			}
		}
	}
	return nil
}

// RolesFor returns the required role set for a destination. Unknown
// destinations return the empty set: authenticated access only.
func (p Policy) RolesFor(destination string) RoleSet {
	if set, ok := p[destination]; ok {
		return set
	}
	return RoleSet{}
}

// Evaluate runs the guard for a named destination.
func (p Policy) Evaluate(snap session.Snapshot, destination string) Decision {
	return Evaluate(snap, p.RolesFor(destination))
}
