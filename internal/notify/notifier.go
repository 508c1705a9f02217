// Package notify defines the fire-and-forget notification dispatch used to
// tell users about claim outcomes. Delivery is best-effort by contract:
// callers log failures and move on.
package notify

import (
	"context"

	"github.com/resiembra/resiembra/internal/logging"
)

// Notifier sends a notification to an endpoint token.
type Notifier interface {
	Send(ctx context.Context, endpointToken, title, body string) error
}

// LogNotifier is the stub dispatcher: it records the notification in the
// log instead of calling a push provider.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, endpointToken, title, body string) error {
	n.logger.Info(ctx, "notification dispatched", "token", endpointToken, "title", title, "body", body)
	return nil
}
