package presence

import (
	"net"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Contact is one peer address known to the relay, with the time the
// last packet from it was recorded.
type Contact struct {
	Addr     *net.UDPAddr
	LastSeen time.Time
}

// ContactTable maps peer addresses to their last-contact times. There
// is exactly one mutator, the reflector's receive loop; the backing
// cache's own locking just makes concurrent reads from the API side
// safe.
type ContactTable struct {
	cache *gocache.Cache
}

// NewContactTable returns an empty table.
func NewContactTable() *ContactTable {
	// No cleanup interval: entries never expire on their own.
	// Staleness is judged by the dispatcher during reflection passes.
	cache := gocache.New(gocache.NoExpiration, 0)
	return &ContactTable{cache: cache}
}

// RecordAndCheck stores now as the last-contact time for addr and
// returns the previous value, along with whether addr had been seen
// before. The overwrite is unconditional: the cooldown is measured
// from the last packet received, not the last one accepted.
func (ct *ContactTable) RecordAndCheck(addr *net.UDPAddr, now time.Time) (time.Time, bool) {
	key := addr.String()
	var prior time.Time
	value, seen := ct.cache.Get(key)
	if seen {
		prior = value.(Contact).LastSeen
	}
	ct.cache.Set(key, Contact{Addr: addr, LastSeen: now}, gocache.NoExpiration)
	return prior, seen
}

// Snapshot returns a point-in-time copy of the table, so a reflection
// pass can evict entries from the live table without corrupting its
// own iteration. Order is not significant.
func (ct *ContactTable) Snapshot() []Contact {
	items := ct.cache.Items()
	contacts := make([]Contact, 0, len(items))
	for _, item := range items {
		contacts = append(contacts, item.Object.(Contact))
	}
	return contacts
}

// Evict removes addr from the table. Evicting an unknown addr is a
// no-op.
func (ct *ContactTable) Evict(addr *net.UDPAddr) {
	ct.cache.Delete(addr.String())
}

// Size returns the current number of known contacts.
func (ct *ContactTable) Size() int {
	return ct.cache.ItemCount()
}
