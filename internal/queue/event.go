// Package queue defines message payloads exchanged over the message broker.
package queue

// AuthEventsQueue is the durable queue that carries account audit events.
const AuthEventsQueue = "auth.events"

// Auth event types.
const (
	EventUserRegistered   = "user.registered"
	EventUserLoggedIn     = "user.logged_in"
	EventUserLoggedOut    = "user.logged_out"
	EventUserRoleAssigned = "user.role_assigned"
)

// AuthEvent is published after a successful account operation. It carries
// enough information for downstream consumers to keep an audit trail without
// querying the primary database. It never carries credentials or tokens.
type AuthEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	ActorID    uint64 `json:"actor_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
