package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/listkeeper/internal/db"
	"github.com/atinyakov/listkeeper/internal/models"
)

// PostgresItemRepository persists items on PostgreSQL.
type PostgresItemRepository struct {
	DB db.DBTX
}

// NewPostgresItemRepository creates a PostgresItemRepository over q.
func NewPostgresItemRepository(q db.DBTX) *PostgresItemRepository {
	return &PostgresItemRepository{DB: q}
}

// Create inserts an item under listID.
func (r *PostgresItemRepository) Create(ctx context.Context, listID int64, req models.ItemRequest) (*models.Item, error) {
	item := models.Item{ListID: listID, Description: req.Description, Finished: req.Finished}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO items (list_id, description, finished)
		VALUES ($1, $2, $3)
		RETURNING id
	`, listID, req.Description, req.Finished).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &item, nil
}

// FindForList returns all items of listID ordered by id.
func (r *PostgresItemRepository) FindForList(ctx context.Context, listID int64) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, list_id, description, finished FROM items WHERE list_id = $1 ORDER BY id
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Description, &it.Finished); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

// OwnedByList reports whether itemID exists under listID.
func (r *PostgresItemRepository) OwnedByList(ctx context.Context, itemID, listID int64) (bool, error) {
	var owned bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1 AND list_id = $2)`,
		itemID, listID,
	).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("select item: %w", err)
	}
	return owned, nil
}

// Update replaces the description and finished flag of itemID.
func (r *PostgresItemRepository) Update(ctx context.Context, itemID int64, req models.ItemRequest) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE items SET description = $2, finished = $3 WHERE id = $1`,
		itemID, req.Description, req.Finished,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes itemID.
func (r *PostgresItemRepository) Delete(ctx context.Context, itemID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DeleteForList removes every item of listID.
func (r *PostgresItemRepository) DeleteForList(ctx context.Context, listID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}
