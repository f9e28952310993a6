package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const (
	ticketColumns  = `id, title, description, posted_at, priority, ticket_type, status, closed_at, poster_id, assignee_id`
	ticketColumnsT = `t.id, t.title, t.description, t.posted_at, t.priority, t.ticket_type, t.status, t.closed_at, t.poster_id, t.assignee_id`
)

// TicketRepository encapsulates ticket persistence. The Find* lookups back
// the ownership predicates: a row means the predicate holds.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByIDWithComments(ctx context.Context, id string) (*domain.Ticket, error)
	ListByPosterName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error)
	ListByAssigneeName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error)
	ListUnassigned(ctx context.Context) ([]domain.Ticket, error)
	ListByPosterID(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListByAssigneeID(ctx context.Context, userID string) ([]domain.Ticket, error)
	FindByPosterNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error)
	FindByAssigneeNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error)
	FindAssignable(ctx context.Context, id, assigneeName string) (*domain.Ticket, error)
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, posted_at, priority, ticket_type, status, closed_at, poster_id, assignee_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.PostedAt,
		ticket.Priority,
		ticket.Type,
		ticket.Status,
		ticket.ClosedAt,
		ticket.PosterID,
		ticket.AssigneeID,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, ticket_type=$4,
            status=$5, closed_at=$6, poster_id=$7, assignee_id=$8
        WHERE id=$9`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Type,
		ticket.Status,
		ticket.ClosedAt,
		ticket.PosterID,
		ticket.AssigneeID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByIDWithComments(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const query = `
        SELECT id, ticket_id, poster_name, body, commented_at
        FROM comments WHERE ticket_id=$1 ORDER BY commented_at ASC`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.PosterName,
			&comment.Body,
			&comment.CommentedAt,
		); err != nil {
			return nil, err
		}
		ticket.Comments = append(ticket.Comments, comment)
	}
	return ticket, rows.Err()
}

func (r *ticketRepository) ListByPosterName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	query := `
        SELECT ` + ticketColumnsT + `
        FROM tickets t JOIN users u ON u.id = t.poster_id
        WHERE u.name=$1`
	if !includeDone {
		query += ` AND t.status <> 'DONE'`
	}
	return r.fetchMany(ctx, query+` ORDER BY t.posted_at ASC`, name)
}

func (r *ticketRepository) ListByAssigneeName(ctx context.Context, name string, includeDone bool) ([]domain.Ticket, error) {
	query := `
        SELECT ` + ticketColumnsT + `
        FROM tickets t JOIN users u ON u.id = t.assignee_id
        WHERE u.name=$1`
	if !includeDone {
		query += ` AND t.status <> 'DONE'`
	}
	return r.fetchMany(ctx, query+` ORDER BY t.posted_at ASC`, name)
}

func (r *ticketRepository) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	return r.fetchMany(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE assignee_id IS NULL ORDER BY posted_at ASC`)
}

func (r *ticketRepository) ListByPosterID(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return r.fetchMany(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE poster_id=$1 ORDER BY posted_at ASC`, userID)
}

func (r *ticketRepository) ListByAssigneeID(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return r.fetchMany(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE assignee_id=$1 ORDER BY posted_at ASC`, userID)
}

func (r *ticketRepository) FindByPosterNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumnsT + `
        FROM tickets t JOIN users u ON u.id = t.poster_id
        WHERE u.name=$1 AND t.id=$2`
	return r.fetchSingle(ctx, query, name, id)
}

func (r *ticketRepository) FindByAssigneeNameAndID(ctx context.Context, name, id string) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumnsT + `
        FROM tickets t JOIN users u ON u.id = t.assignee_id
        WHERE u.name=$1 AND t.id=$2`
	return r.fetchSingle(ctx, query, name, id)
}

// FindAssignable matches when the ticket is unassigned or already assigned
// to the named caller.
func (r *ticketRepository) FindAssignable(ctx context.Context, id, assigneeName string) (*domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumnsT + `
        FROM tickets t LEFT JOIN users u ON u.id = t.assignee_id
        WHERE t.id=$1 AND (t.assignee_id IS NULL OR u.name=$2)`
	return r.fetchSingle(ctx, query, id, assigneeName)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.PostedAt,
		&ticket.Priority,
		&ticket.Type,
		&ticket.Status,
		&ticket.ClosedAt,
		&ticket.PosterID,
		&ticket.AssigneeID,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.PostedAt,
			&ticket.Priority,
			&ticket.Type,
			&ticket.Status,
			&ticket.ClosedAt,
			&ticket.PosterID,
			&ticket.AssigneeID,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
