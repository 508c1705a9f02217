// Package connectivity tracks whether the remote store is reachable and
// relays online/offline transitions to subscribers. It is a passive relay:
// draining the queue on reconnect is the sync engine's job.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/resiembra/resiembra/internal/logging"
)

type State string

const (
	Online  State = "online"
	Offline State = "offline"
)

const probeTimeout = 3 * time.Second

// ProbeFunc checks reachability of the remote store.
type ProbeFunc func(ctx context.Context) error

// Monitor probes the remote store on an interval and broadcasts state
// transitions (never repeats of the same state) to subscribers.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration
	logger   logging.Logger

	mu    sync.Mutex
	state State
	subs  []chan State
}

func NewMonitor(probe ProbeFunc, interval time.Duration, logger logging.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		state:    Offline,
	}
}

// Online reports the last observed state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Online
}

// Subscribe returns a channel receiving state transitions. The channel is
// buffered; a slow subscriber misses intermediate flaps but always ends up
// observing a fresh transition.
func (m *Monitor) Subscribe() <-chan State {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := m.probe(probeCtx)
	cancel()

	next := Online
	if err != nil {
		next = Offline
	}

	m.mu.Lock()
	changed := m.state != next
	m.state = next
	subs := m.subs
	m.mu.Unlock()

	if !changed {
		return
	}

	m.logger.Info(ctx, "connectivity changed", "state", string(next))
	for _, ch := range subs {
		select {
		case ch <- next:
		default:
			// drop stale transition, subscriber will see the next one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}

// Run probes until ctx is cancelled. The first probe happens immediately so
// subscribers learn the initial reachability without waiting a full tick.
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
