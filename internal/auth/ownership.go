package auth

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/repository"
)

// TicketOwnership answers the per-ticket access questions the route layer
// asks before letting a mutation through. Every predicate is boolean: lookup
// failures, including a missing ticket, read as "no".
type TicketOwnership struct {
	tickets repository.TicketRepository
}

// NewTicketOwnership builds the predicate set.
func NewTicketOwnership(tickets repository.TicketRepository) *TicketOwnership {
	return &TicketOwnership{tickets: tickets}
}

// IsPostedByUser reports whether the named caller posted the ticket.
func (o *TicketOwnership) IsPostedByUser(ctx context.Context, name, ticketID string) bool {
	_, err := o.tickets.FindByPosterNameAndID(ctx, name, ticketID)
	return err == nil
}

// IsAssignedToUser reports whether the ticket is assigned to the named caller.
func (o *TicketOwnership) IsAssignedToUser(ctx context.Context, name, ticketID string) bool {
	_, err := o.tickets.FindByAssigneeNameAndID(ctx, name, ticketID)
	return err == nil
}

// IsAvailableToAssign reports whether the ticket is unassigned or already
// held by the named caller.
func (o *TicketOwnership) IsAvailableToAssign(ctx context.Context, name, ticketID string) bool {
	_, err := o.tickets.FindAssignable(ctx, ticketID, name)
	return err == nil
}

// CommentOwnership answers per-comment access questions.
type CommentOwnership struct {
	comments repository.CommentRepository
}

// NewCommentOwnership builds the predicate set.
func NewCommentOwnership(comments repository.CommentRepository) *CommentOwnership {
	return &CommentOwnership{comments: comments}
}

// IsCommentedByUser reports whether the named caller wrote the comment.
func (o *CommentOwnership) IsCommentedByUser(ctx context.Context, name, commentID string) bool {
	_, err := o.comments.FindByPosterNameAndID(ctx, name, commentID)
	return err == nil
}
