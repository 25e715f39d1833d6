package model

import "strings"

// Role is the closed set of roles a User may hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// ParseRole normalises a role name. The boolean is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleAgent:
		return r, true
	default:
		return "", false
	}
}

// UserStatus gates whether a User may authenticate.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ParseUserStatus normalises a user status name.
func ParseUserStatus(s string) (UserStatus, bool) {
	switch st := UserStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case UserStatusActive, UserStatusInactive:
		return st, true
	default:
		return "", false
	}
}

// LeadStatus is a stage in the sales pipeline. Any status may follow any other.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusConverted   LeadStatus = "converted"
	LeadStatusLost        LeadStatus = "lost"
)

// LeadStatuses lists every pipeline stage in display order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusProposal,
	LeadStatusNegotiation,
	LeadStatusConverted,
	LeadStatusLost,
}

// ParseLeadStatus matches s case-insensitively against the pipeline stages.
func ParseLeadStatus(s string) (LeadStatus, bool) {
	want := LeadStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range LeadStatuses {
		if st == want {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether the lead has left the open pipeline.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// NotificationType classifies a Notification.
type NotificationType string

const (
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeNote       NotificationType = "note"
	NotificationTypeSystem     NotificationType = "system"
)
