package queue

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/resiembra/resiembra/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE queue_items (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  blob_target TEXT NOT NULL,
  record_target TEXT NOT NULL,
  enqueued_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func item(id string) *models.QueueItem {
	return &models.QueueItem{
		ID:           id,
		Payload:      "aGk=",
		BlobTarget:   "sowing_photos/" + id + ".jpg",
		RecordTarget: "sowing_logs/" + id,
		EnqueuedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEnqueue_IdempotentUpsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := item("q1")
	require.NoError(t, r.Enqueue(ctx, a))

	b := item("q1")
	b.Payload = "bGF0ZXI="
	require.NoError(t, r.Enqueue(ctx, b))

	items, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "q1", items[0].ID)
	assert.Equal(t, "bGF0ZXI=", items[0].Payload)
}

func TestEnqueue_SurvivesRoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := item("q2")
	require.NoError(t, r.Enqueue(ctx, want))

	items, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *want, items[0])
}

func TestRemove(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Enqueue(ctx, item("q1")))
	require.NoError(t, r.Remove(ctx, "q1"))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// removing an absent id is a no-op
	require.NoError(t, r.Remove(ctx, "q1"))
}

func TestCount(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Enqueue(ctx, item(id)))
	}

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEnqueue_StorageErrorPropagates(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	err := r.Enqueue(context.Background(), item("q1"))
	require.Error(t, err)
}
