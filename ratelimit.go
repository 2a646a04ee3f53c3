// The two damping policies consulted on every inbound packet: a
// per-source cooldown and a probabilistic fan-out throttle. Neither
// retries or queues anything; a dropped packet stays dropped.
package presence

import (
	"math/rand"
	"time"
)

// Cooldown bounds how often any single source can trigger a reflection
// pass. This is the primary defense against amplification storms.
type Cooldown struct {
	Min time.Duration
}

// TooSoon reports whether a packet arriving at now, from a source last
// recorded at prior, should be dropped. A never-seen source always
// passes.
func (c Cooldown) TooSoon(prior time.Time, seen bool, now time.Time) bool {
	if !seen {
		return false
	}
	return now.Sub(prior) < c.Min
}

// Fanout decides, for each candidate recipient, whether the current
// packet is reflected to it. The probability scales inversely with
// table size so that on average no more than Target recipients are
// selected per accepted packet.
type Fanout struct {
	Target int
	rng    func() float64 // uniform in [0,1)
}

// NewFanout builds a Fanout with the given target. rng may be nil, in
// which case a time-seeded source is used; tests pass a deterministic
// sequence to verify exact forwarding sets.
func NewFanout(target int, rng func() float64) *Fanout {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}
	return &Fanout{Target: target, rng: rng}
}

// Prob returns the per-recipient forwarding probability for a table of
// size n. Values >= 1 mean every contact is selected.
func (f *Fanout) Prob(n int) float64 {
	return float64(f.Target) / float64(n+1)
}

// Draw makes one forwarding decision for one recipient. Each recipient
// gets an independent draw, not one draw per packet: the pass then
// statistically approximates a fixed-size random subset instead of
// being all-or-nothing.
func (f *Fanout) Draw(n int) bool {
	return f.rng() < f.Prob(n)
}
