package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const commentColumns = `id, ticket_id, poster_name, body, commented_at`

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTicketID(ctx context.Context, ticketID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByTicketID(ctx context.Context, ticketID string) error
	FindByPosterNameAndID(ctx context.Context, posterName, id string) (*domain.Comment, error)
}

type commentRepository struct {
	db DB
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, poster_name, body, commented_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		comment.TicketID,
		comment.PosterName,
		comment.Body,
		comment.CommentedAt,
	).Scan(&comment.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.fetchSingle(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id)
}

func (r *commentRepository) ListByTicketID(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT ` + commentColumns + `
        FROM comments WHERE ticket_id=$1 ORDER BY commented_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
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
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByTicketID orphan-deletes every comment of a ticket. Zero rows is
// not an error: a ticket may have no comments.
func (r *commentRepository) DeleteByTicketID(ctx context.Context, ticketID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE ticket_id=$1`, ticketID)
	return err
}

func (r *commentRepository) FindByPosterNameAndID(ctx context.Context, posterName, id string) (*domain.Comment, error) {
	const query = `
        SELECT ` + commentColumns + `
        FROM comments WHERE poster_name=$1 AND id=$2`
	return r.fetchSingle(ctx, query, posterName, id)
}

func (r *commentRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.PosterName,
		&comment.Body,
		&comment.CommentedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}
