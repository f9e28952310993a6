package domain

import "time"

// TicketRevision is an immutable snapshot of a ticket's full field set,
// appended once at creation and once per subsequent mutation. Deletions are
// recorded as tombstones so the trail survives the ticket itself.
type TicketRevision struct {
	ID          string
	TicketID    string
	Title       string
	Description string
	PostedAt    time.Time
	Priority    TicketPriority
	Type        TicketType
	Status      TicketStatus
	ClosedAt    *time.Time
	PosterID    *string
	AssigneeID  *string
	Deleted     bool
	RecordedAt  time.Time
}

// NewTicketRevision snapshots the ticket as it stands at recordedAt.
func NewTicketRevision(ticket *Ticket, recordedAt time.Time, deleted bool) *TicketRevision {
	return &TicketRevision{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		PostedAt:    ticket.PostedAt,
		Priority:    ticket.Priority,
		Type:        ticket.Type,
		Status:      ticket.Status,
		ClosedAt:    ticket.ClosedAt,
		PosterID:    ticket.PosterID,
		AssigneeID:  ticket.AssigneeID,
		Deleted:     deleted,
		RecordedAt:  recordedAt,
	}
}
