// Package watch provides a change-notification subscription over the remote
// store: a registered handler receives the current full result set whenever
// it changes, never deltas. That full-refresh contract keeps consumers free
// of merge logic.
package watch

import (
	"context"
	"reflect"
	"time"
)

// FetchFunc produces the current full result set of a query.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Handler receives result-set snapshots.
type Handler[T any] func(snapshot []T)

// ErrorHandler receives fetch errors. The subscription keeps running.
type ErrorHandler func(err error)

// Handle cancels a running subscription.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the subscription and waits for its goroutine to exit.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Subscribe re-runs fetch on the given interval and invokes handler with the
// full result set whenever it differs from the previously delivered one. The
// first successful fetch is always delivered. Fetch errors go to onError
// (which may be nil) and do not terminate the subscription.
func Subscribe[T any](ctx context.Context, interval time.Duration, fetch FetchFunc[T], handler Handler[T], onError ErrorHandler) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)

		var last []T
		delivered := false

		run := func() {
			snapshot, err := fetch(ctx)
			if err != nil {
				if onError != nil && ctx.Err() == nil {
					onError(err)
				}
				return
			}
			if delivered && reflect.DeepEqual(snapshot, last) {
				return
			}
			last = snapshot
			delivered = true
			handler(snapshot)
		}

		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()

	return h
}
