package countdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrWindowInverted = errors.New("auction window ends before it starts")

// Window bounds the interval during which an auction accepts bids. It is
// immutable for the lifetime of a view.
type Window struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (w Window) Validate() error {
	if !w.EndsAt.After(w.StartsAt) {
		return ErrWindowInverted
	}
	return nil
}

// Snapshot is the rendered remaining time, each field zero-padded to width 2.
// Expired is the explicit end-of-auction signal; consumers must never infer
// expiry from the rendered strings.
type Snapshot struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
	Expired bool   `json:"expired"`
}

func (s Snapshot) String() string {
	return s.Days + ":" + s.Hours + ":" + s.Minutes + ":" + s.Seconds
}

const (
	msPerDay    = 86400000
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// Remaining decomposes end-now into days/hours/minutes/seconds. Anything at or
// past the end renders as the frozen all-zero snapshot.
func Remaining(now, end time.Time) Snapshot {
	ms := end.Sub(now).Milliseconds()
	if ms <= 0 {
		return Snapshot{Days: "00", Hours: "00", Minutes: "00", Seconds: "00", Expired: true}
	}
	return Snapshot{
		Days:    pad2(ms / msPerDay),
		Hours:   pad2(ms % msPerDay / msPerHour),
		Minutes: pad2(ms % msPerHour / msPerMinute),
		Seconds: pad2(ms % msPerMinute / msPerSecond),
	}
}

func pad2(v int64) string { return fmt.Sprintf("%02d", v) }

// Timer emits one Snapshot immediately and then one per tick until the window
// ends. The expired snapshot is delivered exactly once, after which the
// channel closes and the ticker is released. A slow consumer only ever misses
// intermediate ticks, never the expired one.
type Timer struct {
	clock    Clock
	window   Window
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewTimer(clock Clock, w Window) *Timer {
	return &Timer{
		clock:    clock,
		window:   w,
		interval: time.Second,
		stop:     make(chan struct{}),
	}
}

// Start begins ticking. The returned channel closes once the expired snapshot
// has been delivered, or when ctx is cancelled or Stop is called.
func (t *Timer) Start(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)

	first := Remaining(t.clock.Now(), t.window.EndsAt)
	out <- first
	if first.Expired {
		// Already over at mount time: no ticker is ever created.
		close(out)
		return out
	}

	go t.run(ctx, out)
	return out
}

// Stop cancels the timer without waiting for expiry. Idempotent.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Timer) run(ctx context.Context, out chan Snapshot) {
	tk := t.clock.NewTicker(t.interval)
	defer tk.Stop()
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case now := <-tk.C():
			snap := Remaining(now, t.window.EndsAt)
			// Latest wins: drop a stale buffered snapshot rather than block
			// the tick loop on a slow consumer.
			select {
			case <-out:
			default:
			}
			out <- snap
			if snap.Expired {
				return
			}
		}
	}
}
