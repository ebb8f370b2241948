// Package connectivity tracks whether the remote platform is currently
// reachable and triggers sync attempts on offline→online transitions.
package connectivity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/adventurelog/uploadsync/internal/logging"
)

const probeTimeout = 3 * time.Second

// Pinger is the reachability probe, typically the remote database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the Pinger on an interval and keeps a non-blocking view of
// the last known status. It starts out online: with no signal yet, the sync
// engine should attempt and fail per item rather than sit idle.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger
	online   atomic.Bool
	onOnline func()
}

// NewMonitor builds a monitor. onOnline is invoked in its own goroutine each
// time the status transitions offline→online; it may be nil.
func NewMonitor(pinger Pinger, interval time.Duration, log logging.Logger, onOnline func()) *Monitor {
	m := &Monitor{
		pinger:   pinger,
		interval: interval,
		log:      log,
		onOnline: onOnline,
	}
	m.online.Store(true)
	return m
}

// Online returns the latest known status without blocking.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Start runs the probe loop until ctx is cancelled. Call it in a goroutine.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			err := m.pinger.Ping(probeCtx)
			cancel()
			m.observe(ctx, err == nil)

		case <-ctx.Done():
			return
		}
	}
}

// observe records one probe result and fires the transition callback when
// coming back online.
func (m *Monitor) observe(ctx context.Context, up bool) {
	was := m.online.Swap(up)
	if was == up {
		return
	}
	if up {
		m.log.Info(ctx, "back online")
		if m.onOnline != nil {
			go m.onOnline()
		}
	} else {
		m.log.Warn(ctx, "connection lost, switching to offline mode")
	}
}
