package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// CommentServiceDeps bundles the collaborators of CommentService.
type CommentServiceDeps struct {
	Store      repository.Store
	Clock      clock.Clock
	Logger     *zap.Logger
	Dispatcher *events.Dispatcher
}

// CommentService manages the discussion thread under a ticket. The poster
// name is denormalized onto the comment, so comments keep their byline even
// if the account later disappears.
type CommentService struct {
	store      repository.Store
	clock      clock.Clock
	logger     *zap.Logger
	dispatcher *events.Dispatcher
}

// NewCommentService wires the service.
func NewCommentService(deps CommentServiceDeps) *CommentService {
	return &CommentService{
		store:      deps.Store,
		clock:      deps.Clock,
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
	}
}

// ListForTicket returns the ticket's comments in posting order.
func (s *CommentService) ListForTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.store.Tickets().GetByID(ctx, ticketID); err != nil {
		return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	comments, err := s.store.Comments().ListByTicketID(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return comments, nil
}

// Post appends a comment under the ticket on behalf of the named caller.
func (s *CommentService) Post(ctx context.Context, actorName, ticketID, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, util.NewValidationError("comment body must not be empty", map[string]any{"field": "body"})
	}

	comment := &domain.Comment{
		TicketID:    ticketID,
		PosterName:  actorName,
		Body:        body,
		CommentedAt: s.clock.Now(),
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, ticketID); err != nil {
			return util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return tx.Comments().Create(ctx, comment)
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.dispatcher.Publish(ctx, events.EventCommentPosted, actorName, events.CommentPayload{
		CommentID: comment.ID,
		TicketID:  ticketID,
		Poster:    actorName,
	})
	return comment, nil
}

// Delete removes a single comment.
func (s *CommentService) Delete(ctx context.Context, commentID string) error {
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		if util.IsNotFound(err) {
			return util.NewNotFound("comment", map[string]any{"id": commentID})
		}
		return util.MapError(err)
	}
	return nil
}
