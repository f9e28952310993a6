package events

import "time"

// Event types emitted by the services.
const (
	EventTicketCreated       = "ticket.created"
	EventTicketEdited        = "ticket.edited"
	EventTicketAssigned      = "ticket.assigned"
	EventTicketStatusChanged = "ticket.status_changed"
	EventTicketDeleted       = "ticket.deleted"
	EventCommentPosted       = "comment.posted"
	EventUserRightsChanged   = "user.rights_changed"
)

// Event is the envelope delivered to subscribers.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketPayload describes ticket lifecycle events.
type TicketPayload struct {
	TicketID   string  `json:"ticket_id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// CommentPayload describes a posted comment.
type CommentPayload struct {
	CommentID string `json:"comment_id"`
	TicketID  string `json:"ticket_id"`
	Poster    string `json:"poster"`
}

// RightsPayload describes a role grant change.
type RightsPayload struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}
