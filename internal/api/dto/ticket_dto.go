package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest is the submit-ticket payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
}

// EditSubmittedRequest is the submitter edit payload. No status field: a
// submitter never moves a ticket through the workflow.
type EditSubmittedRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
}

// EditAssignedRequest is the assignee edit payload.
type EditAssignedRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

// AssignTicketRequest names the employee to hand the ticket to.
type AssignTicketRequest struct {
	Assignee string `json:"assignee"`
}

// TicketSummary is the list-item projection of a ticket.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	PostedAt   time.Time             `json:"posted_at"`
	Priority   domain.TicketPriority `json:"priority"`
	Type       domain.TicketType     `json:"type"`
	Status     domain.TicketStatus   `json:"status"`
	ClosedAt   *time.Time            `json:"closed_at,omitempty"`
	PosterID   *string               `json:"poster_id,omitempty"`
	AssigneeID *string               `json:"assignee_id,omitempty"`
}

// TicketDetailResponse is the full ticket with its comments.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	Comments    []CommentResponse `json:"comments"`
}

// TicketRevisionResponse is one audit trail entry.
type TicketRevisionResponse struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	PostedAt    time.Time             `json:"posted_at"`
	Priority    domain.TicketPriority `json:"priority"`
	Type        domain.TicketType     `json:"type"`
	Status      domain.TicketStatus   `json:"status"`
	ClosedAt    *time.Time            `json:"closed_at,omitempty"`
	PosterID    *string               `json:"poster_id,omitempty"`
	AssigneeID  *string               `json:"assignee_id,omitempty"`
	Deleted     bool                  `json:"deleted"`
	RecordedAt  time.Time             `json:"recorded_at"`
}
