package presence

import "sync"

// Stats counts the per-packet decisions made by a reflector. There is
// one writer (the receive loop), but the API reads concurrently, so
// access is guarded.
type Stats struct {
	// NOTE: use value references for mutexes, not pointers
	mutex      sync.RWMutex
	received   uint64
	accepted   uint64
	rejected   uint64
	reflected  uint64
	evicted    uint64
	sendErrors uint64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Received   uint64
	Accepted   uint64
	Rejected   uint64
	Reflected  uint64
	Evicted    uint64
	SendErrors uint64
}

// IncReceived counts an inbound packet, before any decision is made
// about it.
func (s *Stats) IncReceived() { s.inc(&s.received) }

// IncAccepted counts a packet that passed the cooldown and triggered a
// reflection pass.
func (s *Stats) IncAccepted() { s.inc(&s.accepted) }

// IncRejected counts a packet dropped by the per-source cooldown.
func (s *Stats) IncRejected() { s.inc(&s.rejected) }

// IncReflected counts one successful send to one recipient.
func (s *Stats) IncReflected() { s.inc(&s.reflected) }

// IncEvicted counts one idle contact removed during a reflection pass.
func (s *Stats) IncEvicted() { s.inc(&s.evicted) }

// IncSendErrors counts a send that failed with a local I/O error.
func (s *Stats) IncSendErrors() { s.inc(&s.sendErrors) }

func (s *Stats) inc(counter *uint64) {
	s.mutex.Lock()
	*counter++
	s.mutex.Unlock()
}

// Snapshot returns a consistent copy of all counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return StatsSnapshot{
		Received:   s.received,
		Accepted:   s.accepted,
		Rejected:   s.rejected,
		Reflected:  s.reflected,
		Evicted:    s.evicted,
		SendErrors: s.sendErrors,
	}
}
