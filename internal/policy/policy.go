// Package policy is the single authorization table consulted before every read
// and mutation. Decisions depend only on the principal, the action and the
// resource snapshot passed in; callers fetch current state first.
package policy

import (
	"github.com/google/uuid"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
)

// Action is an operation a principal attempts on a resource.
type Action string

const (
	ActionRead     Action = "read"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionReassign Action = "reassign"
)

// Resource is one of Lead, Note, User or UserDirectory.
type Resource interface {
	resource()
}

// Lead describes a lead by its current (or, on create, intended) assignee.
type Lead struct {
	AssignedTo *uuid.UUID
}

// Note describes a note by the assignee of the lead it belongs to.
type Note struct {
	LeadAssignedTo *uuid.UUID
}

// User describes a user record. On create, Role is the requested role. On
// update, SetsRole and SetsStatus flag privileged field changes.
type User struct {
	ID         uuid.UUID
	Role       model.Role
	SetsRole   bool
	SetsStatus bool
}

// UserDirectory is the collection of all users.
type UserDirectory struct{}

func (Lead) resource()          {}
func (Note) resource()          {}
func (User) resource()          {}
func (UserDirectory) resource() {}

// LeadFor builds the Lead resource for l.
func LeadFor(l *model.Lead) Lead {
	return Lead{AssignedTo: l.AssignedToID}
}

// NoteOn builds the Note resource for a note attached to l.
func NoteOn(l *model.Lead) Note {
	return Note{LeadAssignedTo: l.AssignedToID}
}

// Authorize returns nil when p may perform action on res and
// errors.ErrForbidden otherwise.
func Authorize(p auth.Principal, action Action, res Resource) error {
	if Allowed(p, action, res) {
		return nil
	}
	return errors.ErrForbidden
}

// Allowed evaluates the decision table.
func Allowed(p auth.Principal, action Action, res Resource) bool {
	switch r := res.(type) {
	case Lead:
		return allowLead(p, action, r)
	case Note:
		return allowNote(p, action, r)
	case User:
		return allowUser(p, action, r)
	case UserDirectory:
		return action == ActionRead && (p.Role == model.RoleAdmin || p.Role == model.RoleManager)
	default:
		return false
	}
}

// LeadScope returns the assignee filter a lead listing must apply for p, or
// nil when p sees every lead.
func LeadScope(p auth.Principal) *uuid.UUID {
	switch p.Role {
	case model.RoleAdmin, model.RoleManager:
		return nil
	default:
		id := p.UserID
		return &id
	}
}

func owns(p auth.Principal, assignee *uuid.UUID) bool {
	return assignee != nil && *assignee == p.UserID
}

func allowLead(p auth.Principal, action Action, r Lead) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		switch action {
		case ActionRead, ActionCreate, ActionUpdate, ActionReassign:
			return true
		}
		return false
	case model.RoleAgent:
		switch action {
		case ActionRead, ActionCreate, ActionUpdate:
			return owns(p, r.AssignedTo)
		}
		return false
	default:
		return false
	}
}

func allowNote(p auth.Principal, action Action, r Note) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return action == ActionRead || action == ActionCreate
	case model.RoleAgent:
		return (action == ActionRead || action == ActionCreate) && owns(p, r.LeadAssignedTo)
	default:
		return false
	}
}

func allowUser(p auth.Principal, action Action, r User) bool {
	if p.Role == model.RoleAdmin {
		return true
	}
	self := r.ID != uuid.Nil && r.ID == p.UserID
	switch action {
	case ActionRead:
		return self
	case ActionUpdate:
		return self && !r.SetsRole && !r.SetsStatus
	case ActionCreate:
		return p.Role == model.RoleManager && r.Role == model.RoleAgent
	default:
		return false
	}
}
