package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitor_FiresOnRecovery(t *testing.T) {
	var online atomic.Bool
	probe := func(ctx context.Context) error {
		if online.Load() {
			return nil
		}
		return errors.New("unreachable")
	}

	var fired atomic.Int32
	m := NewMonitor(probe, 10*time.Millisecond, func() { fired.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// Stays offline: no callback.
	time.Sleep(50 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Errorf("callback fired while offline: %d", n)
	}

	// Recovery fires exactly once while the link stays up.
	online.Store(true)
	time.Sleep(100 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("callback count after recovery: got %d, want 1", n)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on context cancel")
	}
}

func TestMonitor_NoCallbackWhenStartingOnline(t *testing.T) {
	probe := func(ctx context.Context) error { return nil }

	var fired atomic.Int32
	m := NewMonitor(probe, 10*time.Millisecond, func() { fired.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	m.Run(ctx)

	if n := fired.Load(); n != 0 {
		t.Errorf("callback fired for a link that never dropped: %d", n)
	}
}
