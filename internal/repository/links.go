package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/db"
)

// PostgresLinkRepository persists user/list associations on PostgreSQL.
type PostgresLinkRepository struct {
	DB db.DBTX
}

// NewPostgresLinkRepository creates a PostgresLinkRepository over q.
func NewPostgresLinkRepository(q db.DBTX) *PostgresLinkRepository {
	return &PostgresLinkRepository{DB: q}
}

// IsOwner reports whether userID is linked to listID as owner.
func (r *PostgresLinkRepository) IsOwner(ctx context.Context, listID, userID int64) (bool, error) {
	var owner bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_list_links WHERE list_id = $1 AND user_id = $2 AND is_owner = true)`,
		listID, userID,
	).Scan(&owner)
	if err != nil {
		return false, fmt.Errorf("select owner link: %w", err)
	}
	return owner, nil
}

// HasAccess reports whether any link exists between userID and listID.
func (r *PostgresLinkRepository) HasAccess(ctx context.Context, listID, userID int64) (bool, error) {
	var linked bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_list_links WHERE list_id = $1 AND user_id = $2)`,
		listID, userID,
	).Scan(&linked)
	if err != nil {
		return false, fmt.Errorf("select link: %w", err)
	}
	return linked, nil
}

// Link associates userID with listID. An existing pair is left untouched and
// reported as common.ErrAlreadyLinked.
func (r *PostgresLinkRepository) Link(ctx context.Context, listID, userID int64, isOwner bool) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_list_links (user_id, list_id, is_owner)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, list_id) DO NOTHING
	`, userID, listID, isOwner)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyLinked
	}
	return nil
}

// UnlinkAllForList removes every link of listID.
func (r *PostgresLinkRepository) UnlinkAllForList(ctx context.Context, listID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM user_list_links WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	return nil
}
