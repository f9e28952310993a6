package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRepository defines persistence access for accounts and their role sets.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, user *domain.User) error
	ReplaceRoles(ctx context.Context, userID string, roles []domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	if err := r.db.QueryRow(ctx, query,
		user.Name,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return err
	}
	return r.insertRoles(ctx, user.ID, user.Roles)
}

func (r *userRepository) UpdatePassword(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, user.PasswordHash, user.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplaceRoles swaps the stored role set for the given one verbatim.
func (r *userRepository) ReplaceRoles(ctx context.Context, userID string, roles []domain.Role) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}
	return r.insertRoles(ctx, userID, roles)
}

func (r *userRepository) insertRoles(ctx context.Context, userID string, roles []domain.Role) error {
	const query = `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
	for _, role := range roles {
		if _, err := r.db.Exec(ctx, query, userID, role); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, password_hash, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	const query = `
        SELECT id, name, password_hash, created_at, updated_at
        FROM users WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, name, password_hash, created_at, updated_at
        FROM users ORDER BY name ASC`
	return r.fetchMany(ctx, query)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.password_hash, u.created_at, u.updated_at
        FROM users u
        JOIN user_roles ur ON ur.user_id = u.id
        WHERE ur.role=$1 ORDER BY u.name ASC`
	return r.fetchMany(ctx, query, role)
}

func (r *userRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		roles, err := r.loadRoles(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Roles = roles
	}
	return result, nil
}

func (r *userRepository) loadRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT role FROM user_roles WHERE user_id=$1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
