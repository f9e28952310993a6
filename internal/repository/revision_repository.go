package repository

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RevisionRepository stores the append-only audit trail. Entries are never
// updated or deleted; a sequence column fixes occurrence order even when two
// revisions share a timestamp.
type RevisionRepository interface {
	Create(ctx context.Context, revision *domain.TicketRevision) error
	ListByTicketID(ctx context.Context, ticketID string) ([]domain.TicketRevision, error)
}

type revisionRepository struct {
	db DB
}

// NewRevisionRepository builds the repository.
func NewRevisionRepository(db DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(ctx context.Context, revision *domain.TicketRevision) error {
	const query = `
        INSERT INTO ticket_revisions (ticket_id, title, description, posted_at, priority, ticket_type, status, closed_at, poster_id, assignee_id, deleted, recorded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		revision.TicketID,
		revision.Title,
		revision.Description,
		revision.PostedAt,
		revision.Priority,
		revision.Type,
		revision.Status,
		revision.ClosedAt,
		revision.PosterID,
		revision.AssigneeID,
		revision.Deleted,
		revision.RecordedAt,
	).Scan(&revision.ID)
}

func (r *revisionRepository) ListByTicketID(ctx context.Context, ticketID string) ([]domain.TicketRevision, error) {
	const query = `
        SELECT id, ticket_id, title, description, posted_at, priority, ticket_type, status, closed_at, poster_id, assignee_id, deleted, recorded_at
        FROM ticket_revisions WHERE ticket_id=$1 ORDER BY seq ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketRevision
	for rows.Next() {
		var revision domain.TicketRevision
		if err := rows.Scan(
			&revision.ID,
			&revision.TicketID,
			&revision.Title,
			&revision.Description,
			&revision.PostedAt,
			&revision.Priority,
			&revision.Type,
			&revision.Status,
			&revision.ClosedAt,
			&revision.PosterID,
			&revision.AssigneeID,
			&revision.Deleted,
			&revision.RecordedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, revision)
	}
	return result, rows.Err()
}
