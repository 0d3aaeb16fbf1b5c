package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

// EnsureRoles seeds the USER and ADMIN roles. Callers treat failure as fatal:
// a store without roles cannot register anyone.
func (r *Repo) EnsureRoles(ctx context.Context) error {
	for _, name := range []string{RoleUser, RoleAdmin} {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO roles(id, name) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			uuid.NewString(), name)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

func (r *Repo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, shipping_address, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.ShippingAddress, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("can't find user with email: %s", email)
	}
	if err != nil {
		return User{}, err
	}
	u.Roles, err = r.loadRoles(ctx, u.ID)
	return u, err
}

// Create persists the user and its role assignments as one unit.
func (r *Repo) Create(ctx context.Context, u User) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users(id, email, password_hash, first_name, last_name, shipping_address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.ShippingAddress, u.CreatedAt)
	if err != nil {
		return translateUserErr(err)
	}
	for _, role := range u.Roles {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_roles(user_id, role_id)
			SELECT $1, id FROM roles WHERE name=$2`, u.ID, role)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("role %s not seeded", role)
		}
	}
	return tx.Commit(ctx)
}

// translateUserErr catches a duplicate email that raced past the service's
// pre-check; the unique index is the authority.
func translateUserErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Validation("user with this email already exists",
			apperr.FieldError{Field: "email", Message: "already registered"})
	}
	return err
}

func (r *Repo) loadRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id=$1 ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
