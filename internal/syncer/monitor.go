package syncer

import (
	"context"
	"log/slog"
	"time"
)

// Monitor probes the remote API and fires a callback on the offline→online
// transition so queued local writes get pushed as soon as connectivity
// returns. It never triggers while the link stays up; periodic syncing is
// the cron's job.
type Monitor struct {
	probe    func(ctx context.Context) error
	interval time.Duration
	onOnline func()

	online bool
}

func NewMonitor(probe func(ctx context.Context) error, interval time.Duration, onOnline func()) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{probe: probe, interval: interval, onOnline: onOnline}
}

// Run blocks until ctx is done, probing at the configured interval.
func (m *Monitor) Run(ctx context.Context) {
	// Establish the starting state without firing the callback.
	m.online = m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			was := m.online
			m.online = m.check(ctx)
			if !was && m.online {
				slog.Info("remote API reachable again, triggering sync")
				m.onOnline()
			}
		}
	}
}

func (m *Monitor) check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.probe(probeCtx) == nil
}
