package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// UsersHandler serves account and manager-report endpoints.
type UsersHandler struct {
	users *service.UserService
	stats *service.StatsService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, statsService *service.StatsService) *UsersHandler {
	return &UsersHandler{users: userService, stats: statsService}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	profile, err := h.users.FindByName(c.UserContext(), principal.Name())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserProfileResponse{
		UserResponse: userResponse(profile.User),
		Posted:       ticketSummaries(profile.Posted),
		Assigned:     ticketSummaries(profile.Assigned),
	}})
}

// UpdateRights PUT /users/:id/rights.
func (h *UsersHandler) UpdateRights(c *fiber.Ctx) error {
	principal := auth.CurrentPrincipal(c)
	var req dto.UpdateRightsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateRights(c.UserContext(), principal.Name(), c.Params("id"), toRoles(req.Roles))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// TicketCounts GET /stats/tickets. The open query flag switches between the
// open and closed count reports; open is the default.
func (h *UsersHandler) TicketCounts(c *fiber.Ctx) error {
	if c.Query("open", "true") == "false" {
		report, err := h.stats.ClosedCountsByEmployee(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": report})
	}
	report, err := h.stats.OpenCountsByEmployee(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// AverageDays GET /stats/average.
func (h *UsersHandler) AverageDays(c *fiber.Ctx) error {
	report, err := h.stats.AverageDaysToClose(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
