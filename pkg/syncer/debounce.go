package syncer

import (
	"sync"
	"time"
)

// debouncer is a small two-state machine (idle -> armed -> idle) that runs
// fire once a quiet window has passed since the most recent Trigger. Each
// Trigger cancels and restarts the window
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	fire   func()
	timer  *time.Timer
	armed  bool
}

func newDebouncer(window time.Duration, fire func()) *debouncer {
	return &debouncer{window: window, fire: fire}
}

// Trigger arms the debouncer, restarting the quiet window if already armed
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = true
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if !d.armed {
			d.mu.Unlock()
			return
		}
		d.armed = false
		d.mu.Unlock()
		d.fire()
	})
}

// FlushNow disarms the debouncer and, if a fire was outstanding, runs it
// immediately. Returns whether fire ran
func (d *debouncer) FlushNow() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fire()
	return true
}

// Stop disarms the debouncer without firing
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
