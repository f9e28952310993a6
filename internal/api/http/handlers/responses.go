package handlers

import (
	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:         ticket.ID,
		Title:      ticket.Title,
		PostedAt:   ticket.PostedAt,
		Priority:   ticket.Priority,
		Type:       ticket.Type,
		Status:     ticket.Status,
		ClosedAt:   ticket.ClosedAt,
		PosterID:   ticket.PosterID,
		AssigneeID: ticket.AssigneeID,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(ticket),
		Description:   ticket.Description,
		Comments:      commentResponses(ticket.Comments),
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		TicketID:    comment.TicketID,
		PosterName:  comment.PosterName,
		Body:        comment.Body,
		CommentedAt: comment.CommentedAt,
	}
}

func commentResponses(comments []domain.Comment) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return items
}

func revisionResponses(revisions []domain.TicketRevision) []dto.TicketRevisionResponse {
	items := make([]dto.TicketRevisionResponse, 0, len(revisions))
	for _, rev := range revisions {
		items = append(items, dto.TicketRevisionResponse{
			Title:       rev.Title,
			Description: rev.Description,
			PostedAt:    rev.PostedAt,
			Priority:    rev.Priority,
			Type:        rev.Type,
			Status:      rev.Status,
			ClosedAt:    rev.ClosedAt,
			PosterID:    rev.PosterID,
			AssigneeID:  rev.AssigneeID,
			Deleted:     rev.Deleted,
			RecordedAt:  rev.RecordedAt,
		})
	}
	return items
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}

func toRoles(names []string) []domain.Role {
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, domain.Role(name))
	}
	return roles
}
