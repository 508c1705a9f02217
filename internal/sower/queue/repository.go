// Package queue is the local durable queue of pending remote writes. Items
// survive process restarts; an item leaves the queue only when its remote
// write fully succeeded or the item turned out to be unrecoverable garbage.
package queue

import (
	"context"

	"github.com/resiembra/resiembra/internal/models"
)

type Repository interface {
	// Enqueue upserts an item keyed by its ID: enqueueing twice with the
	// same ID leaves exactly one item, the later one.
	Enqueue(ctx context.Context, item *models.QueueItem) error

	// ListAll returns all queued items. Order is unspecified; consumers
	// must not assume FIFO.
	ListAll(ctx context.Context) ([]models.QueueItem, error)

	// Remove deletes an item. Removing an absent ID is a no-op.
	Remove(ctx context.Context, id string) error

	// Count returns the number of queued items (the user-visible pending
	// indicator).
	Count(ctx context.Context) (int, error)
}
