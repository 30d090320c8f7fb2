package authz

// Role mirrors the employees.role enum.
type Role string

const (
	RoleFounder   Role = "founder"
	RoleL1Manager Role = "l1_manager"
	RoleL2Manager Role = "l2_manager"
	RoleL3Manager Role = "l3_manager"
	RolePeer      Role = "peer"
)

func (r Role) IsManager() bool {
	switch r {
	case RoleL1Manager, RoleL2Manager, RoleL3Manager:
		return true
	}
	return false
}

// Action enumerates every mutating operation in the review workflow.
type Action string

const (
	ActionCreateReview         Action = "review:create"
	ActionSubmitSelfAssessment Action = "review:submit_self_assessment"
	ActionAdvanceReview        Action = "review:advance"
	ActionSetManagerComments   Action = "review:set_manager_comments"
	ActionScheduleMeeting      Action = "review:schedule_meeting"
	ActionFinalizeReview       Action = "review:finalize"
	ActionSubmitFeedback       Action = "feedback:submit"
	ActionFileAppeal           Action = "appeal:file"
	ActionResolveAppeal        Action = "appeal:resolve"
	ActionCreateCycle          Action = "cycle:create"
	ActionActivateCycle        Action = "cycle:activate"
)

// Actor is the authenticated employee attempting an action.
type Actor struct {
	ID   string
	Role Role
}

// Context carries the reviewed employee's identity so "self" and
// "direct manager" rules can live in the same table as role rules.
type Context struct {
	EmployeeID string // the employee whose review is being acted on
	ManagerID  string // that employee's direct manager, if any
}

// rule describes who may perform an action. Roles listed in roles are
// permitted regardless of their relationship to the reviewed employee;
// self and directManager widen the rule to relationship matches.
type rule struct {
	roles         []Role
	self          bool
	directManager bool
}

// policy is the single source of truth for the workflow's actor rules.
// Route handlers and services must consult Permit instead of re-encoding
// role checks locally.
var policy = map[Action]rule{
	ActionCreateReview:         {roles: []Role{RoleFounder, RoleL1Manager, RoleL2Manager, RoleL3Manager}, self: true},
	ActionSubmitSelfAssessment: {self: true},
	ActionAdvanceReview:        {roles: []Role{RoleL1Manager, RoleL2Manager, RoleL3Manager}},
	ActionSetManagerComments:   {roles: []Role{RoleFounder, RoleL1Manager, RoleL2Manager, RoleL3Manager}},
	ActionScheduleMeeting:      {directManager: true},
	ActionFinalizeReview:       {roles: []Role{RoleL2Manager, RoleFounder}},
	ActionSubmitFeedback:       {roles: []Role{RoleFounder, RoleL1Manager, RoleL2Manager, RoleL3Manager, RolePeer}},
	ActionFileAppeal:           {self: true},
	ActionResolveAppeal:        {roles: []Role{RoleL2Manager, RoleFounder}},
	ActionCreateCycle:          {roles: []Role{RoleFounder}},
	ActionActivateCycle:        {roles: []Role{RoleFounder}},
}

// Permit reports whether actor may perform action in the given context.
// Unknown actions are denied.
func Permit(actor Actor, action Action, rc Context) bool {
	r, ok := policy[action]
	if !ok {
		return false
	}

	// Raters never review themselves.
	if action == ActionSubmitFeedback && actor.ID == rc.EmployeeID {
		return false
	}

	if r.self && actor.ID != "" && actor.ID == rc.EmployeeID {
		return true
	}
	if r.directManager && actor.ID != "" && actor.ID == rc.ManagerID {
		return true
	}
	for _, role := range r.roles {
		if actor.Role == role {
			return true
		}
	}
	return false
}

// ValidRole reports whether s is a known employee role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleFounder, RoleL1Manager, RoleL2Manager, RoleL3Manager, RolePeer:
		return true
	}
	return false
}
