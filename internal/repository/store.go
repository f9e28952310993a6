package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories behind one transactional boundary. Each
// externally triggered mutation runs as a single unit of work: WithTx hands
// the callback a store whose repositories share one transaction, and the
// callback's error rolls everything back.
type Store interface {
	Users() UserRepository
	Tickets() TicketRepository
	Comments() CommentRepository
	Revisions() RevisionRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

type pgStore struct {
	pool      *pgxpool.Pool
	users     UserRepository
	tickets   TicketRepository
	comments  CommentRepository
	revisions RevisionRepository
}

// NewStore builds a Postgres-backed store over the pool.
func NewStore(pool *pgxpool.Pool) Store {
	return newPgStore(pool, pool)
}

func newPgStore(pool *pgxpool.Pool, db DB) *pgStore {
	return &pgStore{
		pool:      pool,
		users:     NewUserRepository(db),
		tickets:   NewTicketRepository(db),
		comments:  NewCommentRepository(db),
		revisions: NewRevisionRepository(db),
	}
}

func (s *pgStore) Users() UserRepository         { return s.users }
func (s *pgStore) Tickets() TicketRepository     { return s.tickets }
func (s *pgStore) Comments() CommentRepository   { return s.comments }
func (s *pgStore) Revisions() RevisionRepository { return s.revisions }

// WithTx runs fn inside a single transaction. A store already bound to a
// transaction runs fn directly, so nested units of work share the outer one.
func (s *pgStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	txStore := newPgStore(nil, tx)
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
