package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"careconnect/internal/models"
)

const userColumns = `id, sub, email, name, picture, role, created_at, updated_at`

// UpsertUser creates or refreshes a user record from OIDC claims. The role
// is only defaulted on first insert; role changes are an admin operation.
func (d *DB) UpsertUser(ctx context.Context, u *models.User) error {
	role := u.Role
	if role == "" {
		role = models.RoleParent
	}

	query := `
		INSERT INTO users (sub, email, name, picture, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sub) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = NOW()
		RETURNING ` + userColumns + `
	`

	return d.Pool.QueryRow(ctx, query, u.Sub, u.Email, u.Name, u.Picture, role).Scan(
		&u.ID, &u.Sub, &u.Email, &u.Name, &u.Picture, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
}

// UpdateUserRole sets a user's role, used when role mapping from identity
// provider claims is configured.
func (d *DB) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	_, err := d.Pool.Exec(ctx, query, role, id)
	return err
}

// GetUserBySub retrieves a user by OIDC subject.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sub = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, sub))
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, id))
}

// GetCoordinatorEmails returns the email addresses of all coordinators and
// admins, for submission notifications.
func (d *DB) GetCoordinatorEmails(ctx context.Context) ([]string, error) {
	query := `SELECT email FROM users WHERE role IN ($1, $2) AND email <> ''`
	rows, err := d.Pool.Query(ctx, query, models.RoleCoordinator, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Sub, &u.Email, &u.Name, &u.Picture, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
