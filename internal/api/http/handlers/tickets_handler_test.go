package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

var _ = Describe("TicketsHandler", func() {
	var (
		ctx     context.Context
		store   *fakeStore
		app     *fiber.App
		caller  *auth.Principal
		tickets *service.TicketService
	)

	seedUser := func(name string, roles ...domain.Role) *domain.User {
		user := &domain.User{Name: name, PasswordHash: "irrelevant", Roles: roles}
		Expect(store.users.Create(ctx, user)).To(Succeed())
		return user
	}

	seedTicket := func(assigneeID *string) *domain.Ticket {
		now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		ticket := &domain.Ticket{
			Title:       "Printer keeps jamming",
			Description: "The office printer on the third floor keeps jamming every time someone prints.",
			PostedAt:    now,
			Priority:    domain.TicketPriorityMedium,
			Type:        domain.TicketTypeBug,
			Status:      domain.TicketStatusBacklog,
			AssigneeID:  assigneeID,
		}
		Expect(store.tickets.Create(ctx, ticket)).To(Succeed())
		Expect(store.revisions.Create(ctx, domain.NewTicketRevision(ticket, now, false))).To(Succeed())
		return ticket
	}

	actAs := func(user *domain.User) {
		caller = &auth.Principal{User: user}
	}

	assign := func(ticketID, assignee string) *http.Response {
		body, err := json.Marshal(map[string]string{"assignee": assignee})
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, "/tickets/"+ticketID+"/assign", bytes.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	history := func(ticketID string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/tickets/"+ticketID+"/history", nil)
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = newFakeStore()
		logger := zap.NewNop()
		clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		tickets = service.NewTicketService(service.TicketServiceDeps{
			Store:      store,
			Clock:      clk,
			Logger:     logger,
			Dispatcher: events.NewDispatcher(logger, clk),
		})
		handler := handlers.NewTicketsHandler(tickets, auth.NewTicketOwnership(store.tickets))

		app = fiber.New()
		httptransport.RegisterMiddlewares(app, logger, nil, 0)
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("principal", caller)
			return c.Next()
		})
		group := app.Group("/tickets")
		group.Post("/:id/assign", auth.RequireRole(domain.RoleEmployee, domain.RoleManager), handler.AssignTicket)
		group.Get("/:id/history", auth.RequireRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin), handler.GetHistory)
	})

	Describe("assigning", func() {
		It("lets an employee take an unassigned ticket", func() {
			employee := seedUser("erin", domain.RoleEmployee)
			ticket := seedTicket(nil)
			actAs(employee)

			resp := assign(ticket.ID, "")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			stored, err := store.tickets.GetByID(ctx, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AssigneeID).To(HaveValue(Equal(employee.ID)))
		})

		It("lets a manager hand an unassigned ticket to an employee", func() {
			manager := seedUser("mark", domain.RoleManager)
			employee := seedUser("erin", domain.RoleEmployee)
			ticket := seedTicket(nil)
			actAs(manager)

			resp := assign(ticket.ID, "erin")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			stored, err := store.tickets.GetByID(ctx, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AssigneeID).To(HaveValue(Equal(employee.ID)))
		})

		It("refuses a manager reassigning a ticket someone else holds", func() {
			manager := seedUser("mark", domain.RoleManager)
			holder := seedUser("erin", domain.RoleEmployee)
			seedUser("frank", domain.RoleEmployee)
			ticket := seedTicket(&holder.ID)
			actAs(manager)

			resp := assign(ticket.ID, "frank")

			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
			stored, err := store.tickets.GetByID(ctx, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AssigneeID).To(HaveValue(Equal(holder.ID)))
		})

		It("refuses an employee taking a ticket someone else holds", func() {
			holder := seedUser("erin", domain.RoleEmployee)
			other := seedUser("frank", domain.RoleEmployee)
			ticket := seedTicket(&holder.ID)
			actAs(other)

			resp := assign(ticket.ID, "")

			Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("lets the holder hand their own ticket on", func() {
			holder := seedUser("erin", domain.RoleEmployee)
			next := seedUser("frank", domain.RoleEmployee)
			ticket := seedTicket(&holder.ID)
			actAs(holder)

			resp := assign(ticket.ID, "frank")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			stored, err := store.tickets.GetByID(ctx, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AssigneeID).To(HaveValue(Equal(next.ID)))
		})
	})

	Describe("history", func() {
		It("lets the assignee read their own ticket's trail", func() {
			holder := seedUser("erin", domain.RoleEmployee)
			ticket := seedTicket(&holder.ID)
			actAs(holder)

			Expect(history(ticket.ID).StatusCode).To(Equal(http.StatusOK))
		})

		It("refuses an employee who does not hold the ticket", func() {
			holder := seedUser("erin", domain.RoleEmployee)
			other := seedUser("frank", domain.RoleEmployee)
			ticket := seedTicket(&holder.ID)
			actAs(other)

			Expect(history(ticket.ID).StatusCode).To(Equal(http.StatusForbidden))
		})

		It("lets a manager read any trail", func() {
			holder := seedUser("erin", domain.RoleEmployee)
			manager := seedUser("mark", domain.RoleManager)
			ticket := seedTicket(&holder.ID)
			actAs(manager)

			Expect(history(ticket.ID).StatusCode).To(Equal(http.StatusOK))
		})
	})
})
