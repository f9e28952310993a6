package domain

import "time"

// Comment is a free-text note on a ticket. The poster is kept as a
// denormalized display name, not a live user reference; deleting a ticket
// orphan-deletes its comments.
type Comment struct {
	ID          string
	TicketID    string
	PosterName  string
	Body        string
	CommentedAt time.Time
}
