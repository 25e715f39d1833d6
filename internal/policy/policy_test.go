package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
)

var (
	adminID   = uuid.New()
	managerID = uuid.New()
	agentID   = uuid.New()
	otherID   = uuid.New()

	admin   = auth.Principal{UserID: adminID, Role: model.RoleAdmin}
	manager = auth.Principal{UserID: managerID, Role: model.RoleManager}
	agent   = auth.Principal{UserID: agentID, Role: model.RoleAgent}
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestAuthorize_Leads(t *testing.T) {
	own := Lead{AssignedTo: ptr(agentID)}
	others := Lead{AssignedTo: ptr(otherID)}
	unassigned := Lead{}

	tests := []struct {
		name   string
		p      auth.Principal
		action Action
		res    Lead
		allow  bool
	}{
		{"admin deletes any lead", admin, ActionDelete, others, true},
		{"admin reassigns", admin, ActionReassign, others, true},
		{"manager reads others", manager, ActionRead, others, true},
		{"manager updates others", manager, ActionUpdate, others, true},
		{"manager reassigns", manager, ActionReassign, others, true},
		{"manager creates unassigned", manager, ActionCreate, unassigned, true},
		{"manager cannot delete", manager, ActionDelete, others, false},
		{"agent reads own", agent, ActionRead, own, true},
		{"agent updates own", agent, ActionUpdate, own, true},
		{"agent creates for self", agent, ActionCreate, own, true},
		{"agent cannot read others", agent, ActionRead, others, false},
		{"agent cannot update others", agent, ActionUpdate, others, false},
		{"agent cannot read unassigned", agent, ActionRead, unassigned, false},
		{"agent cannot create for others", agent, ActionCreate, others, false},
		{"agent cannot reassign own", agent, ActionReassign, own, false},
		{"agent cannot delete own", agent, ActionDelete, own, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, tt.action, tt.res)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errors.ErrForbidden)
			}
		})
	}
}

func TestAuthorize_Notes(t *testing.T) {
	own := Note{LeadAssignedTo: ptr(agentID)}
	others := Note{LeadAssignedTo: ptr(otherID)}

	assert.True(t, Allowed(admin, ActionDelete, others))
	assert.True(t, Allowed(manager, ActionCreate, others))
	assert.True(t, Allowed(manager, ActionRead, others))
	assert.False(t, Allowed(manager, ActionDelete, others))
	assert.True(t, Allowed(agent, ActionCreate, own))
	assert.True(t, Allowed(agent, ActionRead, own))
	assert.False(t, Allowed(agent, ActionCreate, others))
	assert.False(t, Allowed(agent, ActionRead, others))
	assert.False(t, Allowed(agent, ActionUpdate, own))
}

func TestAuthorize_Users(t *testing.T) {
	tests := []struct {
		name   string
		p      auth.Principal
		action Action
		res    Resource
		allow  bool
	}{
		{"admin creates manager", admin, ActionCreate, User{Role: model.RoleManager}, true},
		{"admin changes role", admin, ActionUpdate, User{ID: otherID, SetsRole: true}, true},
		{"admin deletes user", admin, ActionDelete, User{ID: otherID}, true},
		{"manager creates agent", manager, ActionCreate, User{Role: model.RoleAgent}, true},
		{"manager cannot create manager", manager, ActionCreate, User{Role: model.RoleManager}, false},
		{"manager cannot create admin", manager, ActionCreate, User{Role: model.RoleAdmin}, false},
		{"manager lists users", manager, ActionRead, UserDirectory{}, true},
		{"manager reads self", manager, ActionRead, User{ID: managerID}, true},
		{"manager cannot read other user", manager, ActionRead, User{ID: agentID}, false},
		{"manager cannot change own role", manager, ActionUpdate, User{ID: managerID, SetsRole: true}, false},
		{"agent reads self", agent, ActionRead, User{ID: agentID}, true},
		{"agent updates own name", agent, ActionUpdate, User{ID: agentID}, true},
		{"agent cannot change own status", agent, ActionUpdate, User{ID: agentID, SetsStatus: true}, false},
		{"agent cannot read others", agent, ActionRead, User{ID: otherID}, false},
		{"agent cannot list users", agent, ActionRead, UserDirectory{}, false},
		{"agent cannot create users", agent, ActionCreate, User{Role: model.RoleAgent}, false},
		{"agent cannot delete self", agent, ActionDelete, User{ID: agentID}, false},
		{"manager cannot delete", manager, ActionDelete, User{ID: agentID}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allow, Allowed(tt.p, tt.action, tt.res))
		})
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	ghost := auth.Principal{UserID: otherID, Role: model.Role("owner")}
	assert.False(t, Allowed(ghost, ActionRead, Lead{AssignedTo: ptr(otherID)}))
	assert.False(t, Allowed(ghost, ActionRead, Note{LeadAssignedTo: ptr(otherID)}))
	assert.False(t, Allowed(ghost, ActionRead, UserDirectory{}))
}

func TestLeadScope(t *testing.T) {
	assert.Nil(t, LeadScope(admin))
	assert.Nil(t, LeadScope(manager))
	scope := LeadScope(agent)
	if assert.NotNil(t, scope) {
		assert.Equal(t, agentID, *scope)
	}
}
