package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// CommentsHandler serves the discussion thread endpoints.
type CommentsHandler struct {
	service   *service.CommentService
	tickets   *auth.TicketOwnership
	ownership *auth.CommentOwnership
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, tickets *auth.TicketOwnership, ownership *auth.CommentOwnership) *CommentsHandler {
	return &CommentsHandler{service: commentService, tickets: tickets, ownership: ownership}
}

// ListComments GET /tickets/:id/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !h.involved(c, principal, ticketID) {
		return util.NewForbidden("not involved with this ticket")
	}
	comments, err := h.service.ListForTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponses(comments)})
}

// PostComment POST /tickets/:id/comments.
func (h *CommentsHandler) PostComment(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	ticketID := c.Params("id")
	if !h.involved(c, principal, ticketID) {
		return util.NewForbidden("not involved with this ticket")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.Post(c.UserContext(), principal.Name(), ticketID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// DeleteComment DELETE /comments/:id.
func (h *CommentsHandler) DeleteComment(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	commentID := c.Params("id")
	if !principal.User.HasRole(domain.RoleAdmin) &&
		!h.ownership.IsCommentedByUser(c.UserContext(), principal.Name(), commentID) {
		return util.NewForbidden("only the author may delete this comment")
	}
	if err := h.service.Delete(c.UserContext(), commentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommentsHandler) involved(c *fiber.Ctx, principal *auth.Principal, ticketID string) bool {
	return h.tickets.IsPostedByUser(c.UserContext(), principal.Name(), ticketID) ||
		h.tickets.IsAssignedToUser(c.UserContext(), principal.Name(), ticketID)
}
