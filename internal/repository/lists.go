package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/db"
	"github.com/atinyakov/listkeeper/internal/models"
)

// PostgresListRepository persists lists on PostgreSQL.
type PostgresListRepository struct {
	DB db.DBTX
}

// NewPostgresListRepository creates a PostgresListRepository over q.
func NewPostgresListRepository(q db.DBTX) *PostgresListRepository {
	return &PostgresListRepository{DB: q}
}

// Create inserts a list; date_created defaults to the current date.
func (r *PostgresListRepository) Create(ctx context.Context, req models.ListRequest) (*models.List, error) {
	var l models.List
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO lists (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, date_created
	`, req.Name, req.Description).Scan(&l.ID, &l.Name, &l.Description, &l.DateCreated)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return &l, nil
}

// FindByID returns the list with the given id.
func (r *PostgresListRepository) FindByID(ctx context.Context, id int64) (*models.List, error) {
	var l models.List
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, date_created FROM lists WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Description, &l.DateCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrListNotFound
		}
		return nil, fmt.Errorf("select list: %w", err)
	}
	return &l, nil
}

// FindForUser returns the lists joined to userID through user_list_links.
func (r *PostgresListRepository) FindForUser(ctx context.Context, userID int64) ([]models.List, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT l.id, l.name, l.description, l.date_created
		  FROM lists l
		  JOIN user_list_links ul ON ul.list_id = l.id
		 WHERE ul.user_id = $1
		 ORDER BY l.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	defer rows.Close()

	lists := make([]models.List, 0)
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.DateCreated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	return lists, nil
}

// Delete removes the list row. Missing lists yield common.ErrListNotFound.
func (r *PostgresListRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if n == 0 {
		return common.ErrListNotFound
	}
	return nil
}
