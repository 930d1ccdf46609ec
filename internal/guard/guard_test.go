package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/session"
)

func activeSnapshot(role models.Role) session.Snapshot {
	return session.Snapshot{
		Identity:      &models.Identity{ID: "u1", Role: role, Status: models.StatusActive},
		Authenticated: true,
	}
}

func TestEvaluateLoading(t *testing.T) {
	snap := session.Snapshot{Loading: true}
	assert.Equal(t, DecisionPending, Evaluate(snap, NewRoleSet(models.RoleAdmin)))
}

func TestEvaluateUnauthenticated(t *testing.T) {
	snap := session.Snapshot{}
	assert.Equal(t, DecisionLogin, Evaluate(snap, NewRoleSet()))
	assert.Equal(t, DecisionLogin, Evaluate(snap, NewRoleSet(models.RoleAdmin)))
}

func TestEvaluateRoleMismatch(t *testing.T) {
	snap := activeSnapshot(models.RoleStudent)
	assert.Equal(t, DecisionUnauthorized, Evaluate(snap, NewRoleSet(models.RoleAdmin)))
}

func TestEvaluateUnrestricted(t *testing.T) {
	for _, role := range models.Roles() {
		assert.Equal(t, DecisionAuthorized, Evaluate(activeSnapshot(role), NewRoleSet()), "role %s", role)
	}
}

func TestEvaluateStaffScenario(t *testing.T) {
	snap := activeSnapshot(models.RoleStaff)

	assert.Equal(t, DecisionAuthorized, Evaluate(snap, NewRoleSet(models.RoleStaff, models.RoleStudent)))
	assert.Equal(t, DecisionUnauthorized, Evaluate(snap, NewRoleSet(models.RoleSuperAdmin)))
}

func TestEvaluateInactiveIdentity(t *testing.T) {
	snap := session.Snapshot{
		Identity:      &models.Identity{ID: "u1", Role: models.RoleAdmin, Status: models.StatusInactive},
		Authenticated: true,
	}
	assert.Equal(t, DecisionUnauthorized, Evaluate(snap, NewRoleSet(models.RoleAdmin)))

	snap.Identity.Status = models.StatusPending
	assert.Equal(t, DecisionUnauthorized, Evaluate(snap, NewRoleSet()))
}

func TestDefaultPolicyValidates(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
}

func TestPolicyValidateRejectsUnknownRole(t *testing.T) {
	policy := Policy{"reports": RoleSet{models.Role("manager"): {}}}
	err := policy.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager")
}

func TestPolicyEvaluate(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("colleges super admin only", func(t *testing.T) {
		assert.Equal(t, DecisionAuthorized, policy.Evaluate(activeSnapshot(models.RoleSuperAdmin), "colleges"))
		assert.Equal(t, DecisionUnauthorized, policy.Evaluate(activeSnapshot(models.RoleAdmin), "colleges"))
	})

	t.Run("groups for staff and students", func(t *testing.T) {
		assert.Equal(t, DecisionAuthorized, policy.Evaluate(activeSnapshot(models.RoleStaff), "groups"))
		assert.Equal(t, DecisionAuthorized, policy.Evaluate(activeSnapshot(models.RoleStudent), "groups"))
		assert.Equal(t, DecisionUnauthorized, policy.Evaluate(activeSnapshot(models.RoleTrainer), "groups"))
	})

	t.Run("unknown destination admits any authenticated role", func(t *testing.T) {
		assert.Equal(t, DecisionAuthorized, policy.Evaluate(activeSnapshot(models.RoleStudent), "profile"))
	})
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "pending", DecisionPending.String())
	assert.Equal(t, "redirect-login", DecisionLogin.String())
	assert.Equal(t, "redirect-unauthorized", DecisionUnauthorized.String())
	assert.Equal(t, "authorized", DecisionAuthorized.String())
}
