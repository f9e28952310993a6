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

// UserProfile is an account together with its ticket relations.
type UserProfile struct {
	User     *domain.User
	Posted   []domain.Ticket
	Assigned []domain.Ticket
}

// UserServiceDeps bundles the collaborators of UserService.
type UserServiceDeps struct {
	Store      repository.Store
	Clock      clock.Clock
	Logger     *zap.Logger
	Dispatcher *events.Dispatcher
}

// UserService manages accounts and the rights cascade.
type UserService struct {
	store      repository.Store
	clock      clock.Clock
	logger     *zap.Logger
	dispatcher *events.Dispatcher
}

// NewUserService wires the service.
func NewUserService(deps UserServiceDeps) *UserService {
	return &UserService{
		store:      deps.Store,
		clock:      deps.Clock,
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
	}
}

// FindAll lists every account.
func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return users, nil
}

// FindByName resolves an account with its posted and assigned tickets.
func (s *UserService) FindByName(ctx context.Context, name string) (*UserProfile, error) {
	user, err := s.store.Users().GetByName(ctx, name)
	if err != nil {
		return nil, util.NewNotFound("user", map[string]any{"name": name})
	}
	posted, err := s.store.Tickets().ListByPosterID(ctx, user.ID)
	if err != nil {
		return nil, util.MapError(err)
	}
	assigned, err := s.store.Tickets().ListByAssigneeID(ctx, user.ID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return &UserProfile{User: user, Posted: posted, Assigned: assigned}, nil
}

// UpdateRights replaces the user's role set verbatim and cascades the
// consequences onto tickets in the same unit of work. Losing EMPLOYEE
// releases every assignment; losing both USER and EMPLOYEE detaches every
// posted ticket. The two checks run independently, and each touched ticket
// gets a revision.
func (s *UserService) UpdateRights(ctx context.Context, actorName, userID string, roles []domain.Role) (*domain.User, error) {
	for _, role := range roles {
		switch role {
		case domain.RoleUser, domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin:
		default:
			return nil, util.NewValidationError("unknown role", map[string]any{"role": string(role)})
		}
	}

	var user *domain.User
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().GetByID(ctx, userID)
		if err != nil {
			return util.NewNotFound("user", map[string]any{"id": userID})
		}

		if !domain.HasRole(roles, domain.RoleEmployee) {
			if err := s.releaseAssignments(ctx, tx, user.ID); err != nil {
				return err
			}
		}
		if !domain.HasRole(roles, domain.RoleUser) && !domain.HasRole(roles, domain.RoleEmployee) {
			if err := s.detachPostedTickets(ctx, tx, user.ID); err != nil {
				return err
			}
		}

		if err := tx.Users().ReplaceRoles(ctx, user.ID, roles); err != nil {
			return err
		}
		user.Roles = roles
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.logger.Info("user rights updated",
		zap.String("user_id", user.ID),
		zap.Any("roles", roles))
	s.dispatcher.Publish(ctx, events.EventUserRightsChanged, actorName, events.RightsPayload{
		UserID: user.ID,
		Name:   user.Name,
		Roles:  rolesToStrings(roles),
	})
	return user, nil
}

func (s *UserService) releaseAssignments(ctx context.Context, tx repository.Store, userID string) error {
	tickets, err := tx.Tickets().ListByAssigneeID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range tickets {
		ticket := &tickets[i]
		ticket.AssigneeID = nil
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		if err := tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), false)); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) detachPostedTickets(ctx context.Context, tx repository.Store, userID string) error {
	tickets, err := tx.Tickets().ListByPosterID(ctx, userID)
	if err != nil {
		return err
	}
	for i := range tickets {
		ticket := &tickets[i]
		ticket.PosterID = nil
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		if err := tx.Revisions().Create(ctx, domain.NewTicketRevision(ticket, s.clock.Now(), false)); err != nil {
			return err
		}
	}
	return nil
}

func rolesToStrings(roles []domain.Role) []string {
	result := make([]string, len(roles))
	for i, role := range roles {
		result[i] = string(role)
	}
	return result
}
