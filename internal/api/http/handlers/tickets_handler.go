package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler serves the ticket lifecycle endpoints. Role guards run in
// the router; the per-ticket ownership predicates run here, before the
// service is called.
type TicketsHandler struct {
	service   *service.TicketService
	ownership *auth.TicketOwnership
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, ownership *auth.TicketOwnership) *TicketsHandler {
	return &TicketsHandler{service: ticketService, ownership: ownership}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), principal.Name(), service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		Type:        domain.TicketType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListSubmitted GET /tickets/submitted.
func (h *TicketsHandler) ListSubmitted(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	tickets, err := h.service.ListByPoster(c.UserContext(), principal.Name(), c.QueryBool("include_done"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// ListAssigned GET /tickets/assigned.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	tickets, err := h.service.ListByAssignee(c.UserContext(), principal.Name(), c.QueryBool("include_done"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// ListUnassigned GET /tickets/unassigned.
func (h *TicketsHandler) ListUnassigned(c *fiber.Ctx) error {
	tickets, err := h.service.ListUnassigned(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !h.involved(c, principal, ticketID) && !principal.User.HasAnyRole(domain.RoleManager, domain.RoleAdmin) {
		return util.NewForbidden("not involved with this ticket")
	}
	ticket, err := h.service.GetDetail(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// EditSubmitted PUT /tickets/:id/submitted.
func (h *TicketsHandler) EditSubmitted(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !h.ownership.IsPostedByUser(c.UserContext(), principal.Name(), ticketID) {
		return util.NewForbidden("only the poster may edit this ticket")
	}
	var req dto.EditSubmittedRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.EditSubmitted(c.UserContext(), principal.Name(), ticketID, service.EditSubmittedInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		Type:        domain.TicketType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// EditAssigned PUT /tickets/:id/assigned.
func (h *TicketsHandler) EditAssigned(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !h.ownership.IsAssignedToUser(c.UserContext(), principal.Name(), ticketID) {
		return util.NewForbidden("only the assignee may edit this ticket")
	}
	var req dto.EditAssignedRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.EditAssigned(c.UserContext(), principal.Name(), ticketID, service.EditAssignedInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		Type:        domain.TicketType(req.Type),
		Status:      domain.TicketStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AssignTicket POST /tickets/:id/assign. The assignable predicate gates
// every caller alike: a ticket held by someone else cannot be taken or
// handed on, manager or not.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Assignee == "" {
		req.Assignee = principal.Name()
	}
	if !h.ownership.IsAvailableToAssign(c.UserContext(), principal.Name(), ticketID) {
		return util.NewForbidden("ticket is already assigned elsewhere")
	}
	ticket, err := h.service.Assign(c.UserContext(), principal.Name(), ticketID, req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// GetHistory GET /tickets/:id/history. The assignee reads the trail of
// their own ticket; managers and admins read any trail.
func (h *TicketsHandler) GetHistory(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !principal.User.HasAnyRole(domain.RoleManager, domain.RoleAdmin) &&
		!h.ownership.IsAssignedToUser(c.UserContext(), principal.Name(), ticketID) {
		return util.NewForbidden("history is limited to the assignee")
	}
	revisions, err := h.service.History(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": revisionResponses(revisions)})
}

// DeleteTicket DELETE /tickets/:id. Admin only; the role guard runs in the
// router.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	if err := h.service.Delete(c.UserContext(), principal.Name(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TicketsHandler) involved(c *fiber.Ctx, principal *auth.Principal, ticketID string) bool {
	return h.ownership.IsPostedByUser(c.UserContext(), principal.Name(), ticketID) ||
		h.ownership.IsAssignedToUser(c.UserContext(), principal.Name(), ticketID)
}
