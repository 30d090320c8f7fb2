package authz_test

import (
	"testing"

	"go-perf/internal/authz"

	"github.com/stretchr/testify/assert"
)

func TestPermit_SelfOnlyActions(t *testing.T) {
	rc := authz.Context{EmployeeID: "emp-1", ManagerID: "mgr-1"}

	t.Run("employee submits own self assessment", func(t *testing.T) {
		actor := authz.Actor{ID: "emp-1", Role: authz.RolePeer}
		assert.True(t, authz.Permit(actor, authz.ActionSubmitSelfAssessment, rc))
	})

	t.Run("manager cannot submit on behalf", func(t *testing.T) {
		actor := authz.Actor{ID: "mgr-1", Role: authz.RoleL3Manager}
		assert.False(t, authz.Permit(actor, authz.ActionSubmitSelfAssessment, rc))
	})

	t.Run("only the reviewed employee files an appeal", func(t *testing.T) {
		assert.True(t, authz.Permit(authz.Actor{ID: "emp-1", Role: authz.RolePeer}, authz.ActionFileAppeal, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "emp-2", Role: authz.RolePeer}, authz.ActionFileAppeal, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "mgr-1", Role: authz.RoleFounder}, authz.ActionFileAppeal, rc))
	})
}

func TestPermit_RoleGatedActions(t *testing.T) {
	rc := authz.Context{EmployeeID: "emp-1", ManagerID: "mgr-1"}

	t.Run("finalize restricted to l2 and founder", func(t *testing.T) {
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL2Manager}, authz.ActionFinalizeReview, rc))
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleFounder}, authz.ActionFinalizeReview, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL3Manager}, authz.ActionFinalizeReview, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RolePeer}, authz.ActionFinalizeReview, rc))
	})

	t.Run("resolve appeal restricted to l2 and founder", func(t *testing.T) {
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RolePeer}, authz.ActionResolveAppeal, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL3Manager}, authz.ActionResolveAppeal, rc))
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL2Manager}, authz.ActionResolveAppeal, rc))
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleFounder}, authz.ActionResolveAppeal, rc))
	})

	t.Run("advance open to the manager chain", func(t *testing.T) {
		for _, role := range []authz.Role{authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager} {
			assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: role}, authz.ActionAdvanceReview, rc))
		}
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RolePeer}, authz.ActionAdvanceReview, rc))
	})

	t.Run("manager comments open to every manager level", func(t *testing.T) {
		for _, role := range []authz.Role{authz.RoleFounder, authz.RoleL1Manager, authz.RoleL2Manager, authz.RoleL3Manager} {
			assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: role}, authz.ActionSetManagerComments, rc))
		}
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RolePeer}, authz.ActionSetManagerComments, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "emp-1", Role: authz.RolePeer}, authz.ActionSetManagerComments, rc))
	})

	t.Run("cycle management is founder only", func(t *testing.T) {
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleFounder}, authz.ActionCreateCycle, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL1Manager}, authz.ActionCreateCycle, rc))
	})
}

func TestPermit_RelationshipRules(t *testing.T) {
	rc := authz.Context{EmployeeID: "emp-1", ManagerID: "mgr-1"}

	t.Run("only the direct manager schedules the meeting", func(t *testing.T) {
		assert.True(t, authz.Permit(authz.Actor{ID: "mgr-1", Role: authz.RoleL3Manager}, authz.ActionScheduleMeeting, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "mgr-2", Role: authz.RoleL3Manager}, authz.ActionScheduleMeeting, rc))
	})

	t.Run("no self feedback", func(t *testing.T) {
		assert.False(t, authz.Permit(authz.Actor{ID: "emp-1", Role: authz.RolePeer}, authz.ActionSubmitFeedback, rc))
		assert.True(t, authz.Permit(authz.Actor{ID: "emp-2", Role: authz.RolePeer}, authz.ActionSubmitFeedback, rc))
	})

	t.Run("review creation by self or any manager", func(t *testing.T) {
		assert.True(t, authz.Permit(authz.Actor{ID: "emp-1", Role: authz.RolePeer}, authz.ActionCreateReview, rc))
		assert.True(t, authz.Permit(authz.Actor{ID: "x", Role: authz.RoleL3Manager}, authz.ActionCreateReview, rc))
		assert.False(t, authz.Permit(authz.Actor{ID: "emp-2", Role: authz.RolePeer}, authz.ActionCreateReview, rc))
	})
}

func TestPermit_UnknownActionDenied(t *testing.T) {
	actor := authz.Actor{ID: "x", Role: authz.RoleFounder}
	assert.False(t, authz.Permit(actor, authz.Action("review:delete"), authz.Context{}))
}

func TestValidRole(t *testing.T) {
	assert.True(t, authz.ValidRole("founder"))
	assert.True(t, authz.ValidRole("peer"))
	assert.False(t, authz.ValidRole("admin"))
}
