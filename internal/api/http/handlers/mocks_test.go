package handlers_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// In-memory Store backing the handler specs, mirroring the one the service
// specs use. WithTx runs the callback against the same store.
type fakeStore struct {
	users     *fakeUserRepo
	tickets   *fakeTicketRepo
	comments  *fakeCommentRepo
	revisions *fakeRevisionRepo
}

func newFakeStore() *fakeStore {
	users := &fakeUserRepo{byID: make(map[string]*domain.User)}
	return &fakeStore{
		users:     users,
		tickets:   &fakeTicketRepo{byID: make(map[string]*domain.Ticket), users: users},
		comments:  &fakeCommentRepo{byID: make(map[string]*domain.Comment)},
		revisions: &fakeRevisionRepo{},
	}
}

func (s *fakeStore) Users() repository.UserRepository         { return s.users }
func (s *fakeStore) Tickets() repository.TicketRepository     { return s.tickets }
func (s *fakeStore) Comments() repository.CommentRepository   { return s.comments }
func (s *fakeStore) Revisions() repository.RevisionRepository { return s.revisions }

func (s *fakeStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func (m *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *fakeUserRepo) UpdatePassword(_ context.Context, user *domain.User) error {
	stored, ok := m.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = user.PasswordHash
	return nil
}

func (m *fakeUserRepo) ReplaceRoles(_ context.Context, userID string, roles []domain.Role) error {
	stored, ok := m.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Roles = append([]domain.Role(nil), roles...)
	return nil
}

func (m *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (m *fakeUserRepo) GetByName(_ context.Context, name string) (*domain.User, error) {
	for _, stored := range m.byID {
		if stored.Name == name {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(m.byID))
	for _, stored := range m.byID {
		result = append(result, *stored)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

func (m *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, stored := range m.byID {
		if domain.HasRole(stored.Roles, role) {
			result = append(result, *stored)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

type fakeTicketRepo struct {
	byID   map[string]*domain.Ticket
	order  []string
	users  *fakeUserRepo
	nextID int
}

func (m *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", m.nextID)
	m.byID[ticket.ID] = copyTicket(ticket)
	m.order = append(m.order, ticket.ID)
	return nil
}

func (m *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := m.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[ticket.ID] = copyTicket(ticket)
	return nil
}

func (m *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyTicket(stored), nil
}

func (m *fakeTicketRepo) GetByIDWithComments(ctx context.Context, id string) (*domain.Ticket, error) {
	return m.GetByID(ctx, id)
}

func (m *fakeTicketRepo) ListByPosterName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	user, err := m.users.GetByName(ctx, name)
	if err != nil {
		return nil, nil
	}
	return m.filter(func(t *domain.Ticket) bool {
		if t.PosterID == nil || *t.PosterID != user.ID {
			return false
		}
		return includeDone || !t.IsDone()
	}), nil
}

func (m *fakeTicketRepo) ListByAssigneeName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	user, err := m.users.GetByName(ctx, name)
	if err != nil {
		return nil, nil
	}
	return m.filter(func(t *domain.Ticket) bool {
		if t.AssigneeID == nil || *t.AssigneeID != user.ID {
			return false
		}
		return includeDone || !t.IsDone()
	}), nil
}

func (m *fakeTicketRepo) ListUnassigned(_ context.Context) ([]domain.Ticket, error) {
	return m.filter(func(t *domain.Ticket) bool { return t.AssigneeID == nil }), nil
}

func (m *fakeTicketRepo) ListByPosterID(_ context.Context, userID string) ([]domain.Ticket, error) {
	return m.filter(func(t *domain.Ticket) bool {
		return t.PosterID != nil && *t.PosterID == userID
	}), nil
}

func (m *fakeTicketRepo) ListByAssigneeID(_ context.Context, userID string) ([]domain.Ticket, error) {
	return m.filter(func(t *domain.Ticket) bool {
		return t.AssigneeID != nil && *t.AssigneeID == userID
	}), nil
}

func (m *fakeTicketRepo) FindByPosterNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error) {
	stored, ok := m.byID[id]
	if !ok || stored.PosterID == nil {
		return nil, pgx.ErrNoRows
	}
	user, err := m.users.GetByName(ctx, name)
	if err != nil || *stored.PosterID != user.ID {
		return nil, pgx.ErrNoRows
	}
	return copyTicket(stored), nil
}

func (m *fakeTicketRepo) FindByAssigneeNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error) {
	stored, ok := m.byID[id]
	if !ok || stored.AssigneeID == nil {
		return nil, pgx.ErrNoRows
	}
	user, err := m.users.GetByName(ctx, name)
	if err != nil || *stored.AssigneeID != user.ID {
		return nil, pgx.ErrNoRows
	}
	return copyTicket(stored), nil
}

func (m *fakeTicketRepo) FindAssignable(ctx context.Context, id, assigneeName string) (*domain.Ticket, error) {
	stored, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if stored.AssigneeID == nil {
		return copyTicket(stored), nil
	}
	user, err := m.users.GetByName(ctx, assigneeName)
	if err != nil || *stored.AssigneeID != user.ID {
		return nil, pgx.ErrNoRows
	}
	return copyTicket(stored), nil
}

func (m *fakeTicketRepo) filter(match func(*domain.Ticket) bool) []domain.Ticket {
	var result []domain.Ticket
	for _, id := range m.order {
		stored := m.byID[id]
		if match(stored) {
			result = append(result, *copyTicket(stored))
		}
	}
	return result
}

type fakeCommentRepo struct {
	byID   map[string]*domain.Comment
	order  []string
	nextID int
}

func (m *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	stored := *comment
	m.byID[comment.ID] = &stored
	m.order = append(m.order, comment.ID)
	return nil
}

func (m *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	stored, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (m *fakeCommentRepo) ListByTicketID(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, id := range m.order {
		if m.byID[id].TicketID == ticketID {
			result = append(result, *m.byID[id])
		}
	}
	return result, nil
}

func (m *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *fakeCommentRepo) DeleteByTicketID(_ context.Context, ticketID string) error {
	kept := m.order[:0]
	for _, id := range m.order {
		if m.byID[id].TicketID == ticketID {
			delete(m.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
	return nil
}

func (m *fakeCommentRepo) FindByPosterNameAndID(_ context.Context, posterName, id string) (*domain.Comment, error) {
	stored, ok := m.byID[id]
	if !ok || stored.PosterName != posterName {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

type fakeRevisionRepo struct {
	entries []domain.TicketRevision
	nextID  int
}

func (m *fakeRevisionRepo) Create(_ context.Context, revision *domain.TicketRevision) error {
	m.nextID++
	revision.ID = fmt.Sprintf("revision-%d", m.nextID)
	m.entries = append(m.entries, *revision)
	return nil
}

func (m *fakeRevisionRepo) ListByTicketID(_ context.Context, ticketID string) ([]domain.TicketRevision, error) {
	var result []domain.TicketRevision
	for _, entry := range m.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func copyTicket(t *domain.Ticket) *domain.Ticket {
	copied := *t
	if t.ClosedAt != nil {
		v := *t.ClosedAt
		copied.ClosedAt = &v
	}
	if t.PosterID != nil {
		v := *t.PosterID
		copied.PosterID = &v
	}
	if t.AssigneeID != nil {
		v := *t.AssigneeID
		copied.AssigneeID = &v
	}
	copied.Comments = append([]domain.Comment(nil), t.Comments...)
	return &copied
}
