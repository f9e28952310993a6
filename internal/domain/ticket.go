package domain

import "time"

// TicketStatus enumerates lifecycle states. Any status may move to any other
// status through an assigned edit; there is deliberately no forward-only
// state machine.
type TicketStatus string

const (
	TicketStatusBacklog TicketStatus = "BACKLOG"
	TicketStatusDoing   TicketStatus = "DOING"
	TicketStatusTesting TicketStatus = "TESTING"
	TicketStatusDone    TicketStatus = "DONE"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// TicketType classifies the nature of the request.
type TicketType string

const (
	TicketTypeBug    TicketType = "BUG"
	TicketTypeChange TicketType = "CHANGE"
	TicketTypeTask   TicketType = "TASK"
)

// Ticket is the aggregate for support requests. Poster and assignee are
// nullable id references; ClosedAt is non-nil exactly when Status is DONE.
type Ticket struct {
	ID          string
	Title       string
	Description string
	PostedAt    time.Time
	Priority    TicketPriority
	Type        TicketType
	Status      TicketStatus
	ClosedAt    *time.Time
	PosterID    *string
	AssigneeID  *string
	Comments    []Comment
}

// IsDone reports whether the ticket has reached its closed state.
func (t *Ticket) IsDone() bool {
	return t.Status == TicketStatusDone
}
