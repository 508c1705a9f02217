// Package netx classifies errors returned by remote-store operations.
// The sync engine aborts a drain pass on connectivity errors and keeps
// going on anything else, so the classification here decides retry fate.
package netx

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"
)

// IsConnectivityError reports whether err looks like a loss of connectivity
// (network down, host unreachable, timeouts, dropped connections) rather
// than a remote validation or data error.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	// database/sql surfaces dropped connections as ErrBadConn.
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	// Last resort for errors that wrap without implementing net.Error.
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"broken pipe",
		"i/o timeout",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
