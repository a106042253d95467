package client

import (
	"context"
	"sync"
	"time"

	"roi-report/internal/core/port"
)

// Debouncer coalesces rapid filter changes into one statistics request
// issued after a quiet period. Each issued request carries a
// monotonically increasing sequence number; a response is delivered only
// when its sequence number is still the latest issued, so a slow,
// superseded request can never overwrite newer results.
type Debouncer struct {
	client  *Client
	quiet   time.Duration
	deliver func([]port.StatisticsRow, error)

	mu      sync.Mutex
	pending port.StatisticsFilter
	timer   *time.Timer
	seq     uint64
}

// NewDebouncer creates a debouncer that calls deliver with the result of
// the last surviving query. deliver runs on the request goroutine.
func NewDebouncer(c *Client, quiet time.Duration, deliver func([]port.StatisticsRow, error)) *Debouncer {
	return &Debouncer{client: c, quiet: quiet, deliver: deliver}
}

// Query schedules a statistics request for the given filter, replacing
// any not-yet-issued one and restarting the quiet period.
func (d *Debouncer) Query(filter port.StatisticsFilter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = filter
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	filter := d.pending
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	rows, err := d.client.Statistics(context.Background(), filter)

	d.mu.Lock()
	stale := seq != d.seq
	d.mu.Unlock()
	if stale {
		return
	}
	d.deliver(rows, err)
}

// Flush issues any pending query immediately, without waiting out the
// quiet period.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()
	if timer != nil && timer.Stop() {
		d.fire()
	}
}
