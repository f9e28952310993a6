package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

const (
	titleMinLen       = 10
	titleMaxLen       = 75
	descriptionMinLen = 50
	descriptionMaxLen = 250
)

// CreateTicketInput carries the submitter-editable fields.
type CreateTicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Type        domain.TicketType
}

// EditSubmittedInput carries the fields a submitter may change on their own
// ticket. Status is deliberately absent.
type EditSubmittedInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Type        domain.TicketType
}

// EditAssignedInput carries the fields an assignee may change, including
// status.
type EditAssignedInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Type        domain.TicketType
	Status      domain.TicketStatus
}

// TicketServiceDeps bundles the collaborators of TicketService.
type TicketServiceDeps struct {
	Store      repository.Store
	Clock      clock.Clock
	Logger     *zap.Logger
	Dispatcher *events.Dispatcher
}

// TicketService implements the ticket lifecycle. Every mutation runs in a
// single unit of work that also appends a full-snapshot revision.
type TicketService struct {
	store      repository.Store
	clock      clock.Clock
	logger     *zap.Logger
	dispatcher *events.Dispatcher
}

// NewTicketService wires the service.
func NewTicketService(deps TicketServiceDeps) *TicketService {
	return &TicketService{
		store:      deps.Store,
		clock:      deps.Clock,
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a new ticket in BACKLOG for the named submitter. A submitter
// name that resolves to no account still yields a ticket, just without a
// poster reference.
func (s *TicketService) Create(ctx context.Context, actorName string, input CreateTicketInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description, input.Priority, input.Type); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		PostedAt:    now,
		Priority:    input.Priority,
		Type:        input.Type,
		Status:      domain.TicketStatusBacklog,
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		poster, err := tx.Users().GetByName(ctx, actorName)
		switch {
		case err == nil:
			ticket.PosterID = &poster.ID
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return err
		}
		return tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, now, false))
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("poster", actorName))
	s.dispatcher.Publish(ctx, events.EventTicketCreated, actorName, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		Status:   string(ticket.Status),
	})
	return ticket, nil
}

// EditSubmitted rewrites the submitter-editable fields. Status and closure
// are untouched.
func (s *TicketService) EditSubmitted(ctx context.Context, actorName, ticketID string, input EditSubmittedInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description, input.Priority, input.Type); err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		ticket, err = tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		ticket.Title = input.Title
		ticket.Description = input.Description
		ticket.Priority = input.Priority
		ticket.Type = input.Type
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		return tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), false))
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.dispatcher.Publish(ctx, events.EventTicketEdited, actorName, events.TicketPayload{
		TicketID: ticket.ID,
		Title:    ticket.Title,
		Status:   string(ticket.Status),
	})
	return ticket, nil
}

// EditAssigned rewrites the assignee-editable fields including status. The
// closure timestamp tracks the status on every pass: entering DONE stamps the
// current instant, leaving DONE clears it, so ClosedAt is non-nil exactly
// when the status is DONE.
func (s *TicketService) EditAssigned(ctx context.Context, actorName, ticketID string, input EditAssignedInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description, input.Priority, input.Type); err != nil {
		return nil, err
	}
	if err := validateStatus(input.Status); err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	var statusChanged bool
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		ticket, err = tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		statusChanged = ticket.Status != input.Status

		ticket.Title = input.Title
		ticket.Description = input.Description
		ticket.Priority = input.Priority
		ticket.Type = input.Type
		ticket.Status = input.Status
		if input.Status == domain.TicketStatusDone {
			now := s.clock.Now()
			ticket.ClosedAt = &now
		} else {
			ticket.ClosedAt = nil
		}
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		return tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), false))
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	eventType := events.EventTicketEdited
	if statusChanged {
		eventType = events.EventTicketStatusChanged
	}
	s.dispatcher.Publish(ctx, eventType, actorName, events.TicketPayload{
		TicketID:   ticket.ID,
		Title:      ticket.Title,
		Status:     string(ticket.Status),
		AssigneeID: ticket.AssigneeID,
	})
	return ticket, nil
}

// Assign hands the ticket to the named employee, replacing any current
// assignee. The target must exist and hold the EMPLOYEE role.
func (s *TicketService) Assign(ctx context.Context, actorName, ticketID, assigneeName string) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		assignee, err := tx.Users().GetByName(ctx, assigneeName)
		if err != nil {
			return util.NewNotFound("user", map[string]any{"name": assigneeName})
		}
		if !assignee.CanBeAssigned() {
			return util.NewUserNotEligible(
				fmt.Sprintf("user %q cannot be assigned tickets", assigneeName),
				map[string]any{"name": assigneeName})
		}
		ticket, err = tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		ticket.AssigneeID = &assignee.ID
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		return tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), false))
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.logger.Info("ticket assigned",
		zap.String("ticket_id", ticket.ID),
		zap.String("assignee", assigneeName))
	s.dispatcher.Publish(ctx, events.EventTicketAssigned, actorName, events.TicketPayload{
		TicketID:   ticket.ID,
		Title:      ticket.Title,
		Status:     string(ticket.Status),
		AssigneeID: ticket.AssigneeID,
	})
	return ticket, nil
}

// ListByPoster returns the tickets the named user submitted, open ones only
// unless includeDone is set.
func (s *TicketService) ListByPoster(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets().ListByPosterName(ctx, name, includeDone)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// ListByAssignee returns the tickets assigned to the named employee, open
// ones only unless includeDone is set.
func (s *TicketService) ListByAssignee(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets().ListByAssigneeName(ctx, name, includeDone)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// ListUnassigned returns every ticket without an assignee.
func (s *TicketService) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets().ListUnassigned(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// GetDetail returns the ticket with its comments.
func (s *TicketService) GetDetail(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.Tickets().GetByIDWithComments(ctx, ticketID)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, util.MapError(err)
	}
	return ticket, nil
}

// History returns the ticket's revisions in occurrence order. An id no
// revision ever mentioned resolves to not found; deleted tickets still have
// their trail.
func (s *TicketService) History(ctx context.Context, ticketID string) ([]domain.TicketRevision, error) {
	revisions, err := s.store.Revisions().ListByTicketID(ctx, ticketID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if len(revisions) == 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return revisions, nil
}

// Delete removes the ticket and its comments after appending a tombstone
// revision, so the audit trail outlives the row.
func (s *TicketService) Delete(ctx context.Context, actorName, ticketID string) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		if err := tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), true)); err != nil {
			return err
		}
		if err := tx.Comments().DeleteByTicketID(ctx, ticketID); err != nil {
			return err
		}
		return tx.Tickets().Delete(ctx, ticketID)
	})
	if err != nil {
		return util.MapError(err)
	}

	s.dispatcher.Publish(ctx, events.EventTicketDeleted, actorName, events.TicketPayload{
		TicketID: ticketID,
	})
	return nil
}

func validateTicketFields(title, description string, priority domain.TicketPriority, ticketType domain.TicketType) error {
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return util.NewValidationError(
			fmt.Sprintf("title must be between %d and %d characters", titleMinLen, titleMaxLen),
			map[string]any{"field": "title", "length": n})
	}
	if n := utf8.RuneCountInString(description); n < descriptionMinLen || n > descriptionMaxLen {
		return util.NewValidationError(
			fmt.Sprintf("description must be between %d and %d characters", descriptionMinLen, descriptionMaxLen),
			map[string]any{"field": "description", "length": n})
	}
	switch priority {
	case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh:
	default:
		return util.NewValidationError("unknown priority", map[string]any{"field": "priority", "value": string(priority)})
	}
	switch ticketType {
	case domain.TicketTypeBug, domain.TicketTypeChange, domain.TicketTypeTask:
	default:
		return util.NewValidationError("unknown ticket type", map[string]any{"field": "type", "value": string(ticketType)})
	}
	return nil
}

func validateStatus(status domain.TicketStatus) error {
	switch status {
	case domain.TicketStatusBacklog, domain.TicketStatusDoing, domain.TicketStatusTesting, domain.TicketStatusDone:
		return nil
	default:
		return util.NewValidationError("unknown status", map[string]any{"field": "status", "value": string(status)})
	}
}
