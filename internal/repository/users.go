package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/db"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, display_name, password_hash, session_id`

// PostgresUserRepository implements the user directory on PostgreSQL.
type PostgresUserRepository struct {
	// DB executes the queries; either the pool or a transaction.
	DB db.DBTX
}

// NewPostgresUserRepository creates a PostgresUserRepository over q.
func NewPostgresUserRepository(q db.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{DB: q}
}

// Create inserts a new user. A duplicate username or e-mail is reported as
// common.ErrUserExists.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	created := *u
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, email, display_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.Email, u.DisplayName, u.PasswordHash).Scan(&created.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

// FindByID returns the user with the given id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername returns the user with the given username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByUsernameOrEmail returns the user whose username or e-mail is login.
func (r *PostgresUserRepository) FindByUsernameOrEmail(ctx context.Context, login string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1 LIMIT 1`, login)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.PasswordHash, &u.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// CurrentSessionID returns the session id stored for userID.
func (r *PostgresUserRepository) CurrentSessionID(ctx context.Context, userID int64) (string, error) {
	var sid string
	err := r.DB.QueryRowContext(ctx, `SELECT session_id FROM users WHERE id = $1`, userID).Scan(&sid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("select session: %w", err)
	}
	return sid, nil
}

// SetSessionID overwrites the stored session id.
func (r *PostgresUserRepository) SetSessionID(ctx context.Context, id int64, sessionID string) error {
	return r.updateOne(ctx, `UPDATE users SET session_id = $2 WHERE id = $1`, id, sessionID)
}

// UpdateDisplayName changes the display name.
func (r *PostgresUserRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	return r.updateOne(ctx, `UPDATE users SET display_name = $2 WHERE id = $1`, id, displayName)
}

// UpdatePassword replaces the password hash and session id in one statement.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash, sessionID string) error {
	return r.updateOne(ctx, `UPDATE users SET password_hash = $2, session_id = $3 WHERE id = $1`, id, passwordHash, sessionID)
}

func (r *PostgresUserRepository) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
