// Package syncer drains the local durable queue against the remote stores.
// One item is one two-phase write: blob upload, then record update. Items
// only leave the queue on full success (or when they turn out to be
// unrecoverable garbage), so a crash or disconnect mid-pass never loses a
// pending write.
package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/resiembra/resiembra/internal/blob"
	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/netx"
	"github.com/resiembra/resiembra/internal/sower/connectivity"
	"github.com/resiembra/resiembra/internal/sower/queue"
)

// RecordSink is the remote-record side of the two-phase write: it sets the
// resolved blob reference and the sync marker on the target record.
type RecordSink interface {
	MarkSynced(ctx context.Context, recordID, photoURL string) error
}

type Engine struct {
	queue   queue.Repository
	blobs   blob.Store
	records RecordSink
	logger  logging.Logger

	// busy guards against concurrent drain passes. TryLock instead of Lock:
	// a trigger arriving mid-drain is ignored, not queued up.
	busy sync.Mutex
}

func New(q queue.Repository, blobs blob.Store, records RecordSink, logger logging.Logger) *Engine {
	return &Engine{queue: q, blobs: blobs, records: records, logger: logger}
}

// recordIDFromPath extracts the document ID from a record target path like
// "sowing_logs/q1".
func recordIDFromPath(target string) string {
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		return target[idx+1:]
	}
	return target
}

// DrainQueue processes a snapshot of the queue sequentially. Invalid items
// are discarded; connectivity failures abort the pass with common.ErrOffline
// leaving the remaining items untouched; other per-item failures are logged
// and the pass moves on. A drain already in progress makes this call a no-op.
func (e *Engine) DrainQueue(ctx context.Context) error {
	if !e.busy.TryLock() {
		e.logger.Debug(ctx, "drain already in progress, trigger ignored")
		return nil
	}
	defer e.busy.Unlock()

	items, err := e.queue.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	e.logger.Info(ctx, "drain pass started", "items", len(items))

	processed, failed := 0, 0
	for _, item := range items {
		err := e.syncItem(ctx, &item)
		switch {
		case err == nil:
			processed++
		case netx.IsConnectivityError(err):
			e.logger.Warn(ctx, "connectivity lost, aborting drain",
				"item", item.ID, "processed", processed)
			return fmt.Errorf("drain aborted at item %s: %w", item.ID, common.ErrOffline)
		default:
			// Item stays queued; the next triggered pass retries it.
			e.logger.Error(ctx, "item sync failed", "item", item.ID, "error", err.Error())
			failed++
		}
	}

	e.logger.Info(ctx, "drain pass finished", "processed", processed, "failed", failed)
	return nil
}

func (e *Engine) syncItem(ctx context.Context, item *models.QueueItem) error {
	if err := item.Validate(); err != nil {
		// Unrecoverable garbage: discard instead of retrying forever.
		e.logger.Warn(ctx, "discarding invalid queue item", "item", item.ID, "error", err.Error())
		return e.queue.Remove(ctx, item.ID)
	}

	data, err := models.DecodeInlinePhoto(item.Payload)
	if err != nil {
		e.logger.Warn(ctx, "discarding undecodable queue item", "item", item.ID, "error", err.Error())
		return e.queue.Remove(ctx, item.ID)
	}

	url, err := e.upload(ctx, item.BlobTarget, data)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", item.BlobTarget, err)
	}

	if err := e.records.MarkSynced(ctx, recordIDFromPath(item.RecordTarget), url); err != nil {
		return fmt.Errorf("updating %s: %w", item.RecordTarget, err)
	}

	// Both phases succeeded, the item may leave the queue now.
	return e.queue.Remove(ctx, item.ID)
}

// upload pushes the payload to its deterministic blob target. The target is
// keyed by the item ID, so a retried upload overwrites the same location
// instead of duplicating the blob. Transient non-connectivity errors get a
// couple of quick retries; connectivity errors surface immediately so the
// drain pass can abort.
func (e *Engine) upload(ctx context.Context, key string, data []byte) (string, error) {
	var url string

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		u, err := e.blobs.Upload(ctx, key, data)
		if err != nil {
			if netx.IsConnectivityError(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		url = u
		return nil
	})
	return url, err
}

// PendingCount exposes the queue depth for the user-visible indicator.
func (e *Engine) PendingCount(ctx context.Context) (int, error) {
	return e.queue.Count(ctx)
}

// Run drains the queue on every offline→online transition delivered by the
// connectivity monitor, until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, events <-chan connectivity.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-events:
			if !ok {
				return
			}
			if state != connectivity.Online {
				continue
			}
			if err := e.DrainQueue(ctx); err != nil {
				e.logger.Warn(ctx, "drain pass ended early", "error", err.Error())
			}
		}
	}
}
