// Package search runs project searches behind a cancel-replace debounce.
package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period a query must survive before it is sent.
const DefaultDelay = 500 * time.Millisecond

// Func performs one search. ctx is cancelled as soon as a newer query is
// triggered or the debouncer is stopped.
type Func func(ctx context.Context, query string)

// Debouncer schedules Func after a quiet period. Each Trigger cancels the
// pending or running search and schedules a new one; nothing is queued.
type Debouncer struct {
	delay  time.Duration
	fn     Func
	parent context.Context

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
}

// NewDebouncer builds a debouncer bound to parent. A non-positive delay
// uses DefaultDelay.
func NewDebouncer(parent context.Context, delay time.Duration, fn Func) *Debouncer {
	if parent == nil {
		parent = context.Background()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn, parent: parent}
}

// Trigger replaces whatever is pending with a search for query.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if d.parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if !current || ctx.Err() != nil {
			return
		}
		d.fn(ctx, query)
	})
}

// Stop cancels the pending or running search.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
