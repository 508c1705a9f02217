package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/models"
)

// SQLiteRepository stores queue items in the local client database.
// Storage errors propagate to the caller; the queue never silently drops
// an enqueue.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.QueueItem) error {
	query := `INSERT INTO queue_items (id, payload, blob_target, record_target, enqueued_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload,
			blob_target = excluded.blob_target,
			record_target = excluded.record_target,
			enqueued_at = excluded.enqueued_at
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Payload, item.BlobTarget, item.RecordTarget, item.EnqueuedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to enqueue item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.QueueItem, error) {
	query := `SELECT id, payload, blob_target, record_target, enqueued_at FROM queue_items`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue items: %w", err)
	}
	defer rows.Close()

	var result []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var enqueuedAt int64
		if err := rows.Scan(&item.ID, &item.Payload, &item.BlobTarget, &item.RecordTarget, &enqueuedAt); err != nil {
			return nil, err
		}
		item.EnqueuedAt = time.UnixMilli(enqueuedAt).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queue items: %w", err)
	}
	return n, nil
}
