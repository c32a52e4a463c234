package viewer

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules the per-frame callback. The engine never schedules itself.
type Clock interface {
	// Subscribe registers fn to run once per frame until cancel is called.
	Subscribe(fn func()) (cancel func())
}

// ManualClock runs subscribers only when Tick is called. It is meant for tests and
// headless hosts that step frames themselves.
type ManualClock struct {
	next int
	subs map[int]func()
}

// Subscribe implements Clock.
func (c *ManualClock) Subscribe(fn func()) func() {
	if c.subs == nil {
		c.subs = make(map[int]func())
	}
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// Tick runs every subscriber once, in subscription order.
func (c *ManualClock) Tick() {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := c.subs[id]; ok {
			fn()
		}
	}
}

// Advance calls Tick n times.
func (c *ManualClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// Subscribers returns the number of active subscriptions.
func (c *ManualClock) Subscribers() int {
	return len(c.subs)
}

// TickerClock fires at a fixed interval. Post hands each callback to the host's event
// loop so frames run on the same goroutine as input handling; when Post is nil the
// callback runs on the ticker goroutine.
type TickerClock struct {
	Interval time.Duration
	Post     func(fn func())
}

// Subscribe implements Clock.
func (c TickerClock) Subscribe(fn func()) func() {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if c.Post != nil {
					c.Post(fn)
				} else {
					fn()
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
