package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resiembra/resiembra/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type flakyProbe struct {
	mu  sync.Mutex
	err error
}

func (p *flakyProbe) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *flakyProbe) probe(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func waitState(t *testing.T, ch <-chan State, want State) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s transition", want)
	}
}

func TestMonitor_BroadcastsTransitions(t *testing.T) {
	p := &flakyProbe{err: errors.New("unreachable")}
	m := NewMonitor(p.probe, 10*time.Millisecond, testLogger())
	ch := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// starts offline, no transition yet
	require.False(t, m.Online())

	p.set(nil)
	waitState(t, ch, Online)
	require.True(t, m.Online())

	p.set(errors.New("gone again"))
	waitState(t, ch, Offline)
	require.False(t, m.Online())
}

func TestMonitor_NoRepeatBroadcastForSameState(t *testing.T) {
	p := &flakyProbe{}
	m := NewMonitor(p.probe, 5*time.Millisecond, testLogger())
	ch := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitState(t, ch, Online)

	// stays online across several ticks; nothing else arrives
	select {
	case st := <-ch:
		t.Fatalf("unexpected transition %s", st)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_SlowSubscriberSeesFreshestTransition(t *testing.T) {
	p := &flakyProbe{}
	m := NewMonitor(p.probe, 5*time.Millisecond, testLogger())
	ch := m.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// never read until a few flaps happened
	time.Sleep(20 * time.Millisecond)
	p.set(errors.New("down"))
	time.Sleep(20 * time.Millisecond)

	// the buffered channel holds the most recent transition
	waitState(t, ch, Offline)
}
