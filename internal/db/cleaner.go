package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const deleteOrphanLists = `
DELETE FROM lists l
 WHERE l.date_created < $1
   AND NOT EXISTS (
       SELECT 1 FROM user_list_links ul
        WHERE ul.list_id = l.id AND ul.is_owner = true
   )`

// StartOrphanListCleaner periodically deletes lists that have no owner link
// and were created before now-retention. Items and remaining links go with
// them through the foreign key cascade.
func StartOrphanListCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, deleteOrphanLists, cutoff)
				if err != nil {
					log.Error("failed to clean orphan lists", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned orphan lists", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
