package models

import (
	"fmt"
	"time"

	"github.com/resiembra/resiembra/internal/common"
)

// QueueItem is one pending remote write, held in the local durable queue
// until both the blob upload and the record update succeed.
//
// ID doubles as the target record's document ID, which keeps blob targets
// deterministic across retries.
type QueueItem struct {
	ID           string    `json:"id"`
	Payload      string    `json:"payload"`
	BlobTarget   string    `json:"blobTarget"`
	RecordTarget string    `json:"recordTarget"`
	EnqueuedAt   time.Time `json:"enqueuedAt"`
}

// Validate checks the fields the sync engine needs. Items failing this check
// are unrecoverable garbage and are discarded without retry.
func (q *QueueItem) Validate() error {
	switch {
	case q.ID == "":
		return fmt.Errorf("%w: missing id", common.ErrInvalidQueueItem)
	case q.Payload == "":
		return fmt.Errorf("%w: missing payload", common.ErrInvalidQueueItem)
	case q.BlobTarget == "":
		return fmt.Errorf("%w: missing blobTarget", common.ErrInvalidQueueItem)
	case q.RecordTarget == "":
		return fmt.Errorf("%w: missing recordTarget", common.ErrInvalidQueueItem)
	}
	return nil
}
