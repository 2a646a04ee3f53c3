package presence

import (
	"net"
	"testing"
	"time"
)

func resolveAddr(t *testing.T, s string) *net.UDPAddr {
	addr, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		t.Fatal("Couldn't resolve test addr:", err)
	}
	return addr
}

func TestRecordAndCheckFirstContact(t *testing.T) {
	ct := NewContactTable()
	addr := resolveAddr(t, "10.1.2.3:4444")
	now := time.Now()
	_, seen := ct.RecordAndCheck(addr, now)
	if seen {
		t.Error("Brand new address reported as already seen")
	}
	if ct.Size() != 1 {
		t.Error("Expected table size 1, got", ct.Size())
	}
}

func TestRecordAndCheckReturnsPrior(t *testing.T) {
	ct := NewContactTable()
	addr := resolveAddr(t, "10.1.2.3:4444")
	base := time.Now()
	ct.RecordAndCheck(addr, base)
	prior, seen := ct.RecordAndCheck(addr, base.Add(5*time.Second))
	if !seen {
		t.Error("Known address reported as unseen")
	}
	if !prior.Equal(base) {
		t.Error("Expected prior", base, "got", prior)
	}
	// The overwrite is unconditional, so a third call must see the
	// second call's timestamp even though that packet would have been
	// dropped by the cooldown.
	prior, _ = ct.RecordAndCheck(addr, base.Add(7*time.Second))
	if !prior.Equal(base.Add(5 * time.Second)) {
		t.Error("Timestamp was not refreshed on every receipt")
	}
	if ct.Size() != 1 {
		t.Error("Repeat contact grew the table to", ct.Size())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	ct := NewContactTable()
	a := resolveAddr(t, "10.0.0.1:4444")
	b := resolveAddr(t, "10.0.0.2:4444")
	now := time.Now()
	ct.RecordAndCheck(a, now)
	ct.RecordAndCheck(b, now)
	snapshot := ct.Snapshot()
	if len(snapshot) != 2 {
		t.Fatal("Expected 2 entries in snapshot, got", len(snapshot))
	}
	// Mutating the live table must not disturb the snapshot
	ct.Evict(a)
	ct.Evict(b)
	if len(snapshot) != 2 {
		t.Error("Snapshot changed underneath us")
	}
	if ct.Size() != 0 {
		t.Error("Expected empty table, got size", ct.Size())
	}
}

func TestSnapshotTimestamps(t *testing.T) {
	ct := NewContactTable()
	addr := resolveAddr(t, "10.0.0.1:4444")
	now := time.Now()
	ct.RecordAndCheck(addr, now)
	snapshot := ct.Snapshot()
	if !snapshot[0].LastSeen.Equal(now) {
		t.Error("Snapshot timestamp doesn't match recorded time")
	}
	if snapshot[0].Addr.String() != addr.String() {
		t.Error("Snapshot addr doesn't match recorded addr")
	}
}

func TestEvictIsIdempotent(t *testing.T) {
	ct := NewContactTable()
	known := resolveAddr(t, "10.0.0.1:4444")
	unknown := resolveAddr(t, "10.9.9.9:4444")
	ct.RecordAndCheck(known, time.Now())
	// Evicting an address that was never recorded is a no-op
	ct.Evict(unknown)
	if ct.Size() != 1 {
		t.Error("Evicting an unknown addr changed the table")
	}
	ct.Evict(known)
	ct.Evict(known)
	if ct.Size() != 0 {
		t.Error("Expected empty table after eviction, got size", ct.Size())
	}
}

func TestDistinctPortsAreDistinctContacts(t *testing.T) {
	// The key is IP and port; two caches behind one IP are two peers
	ct := NewContactTable()
	now := time.Now()
	ct.RecordAndCheck(resolveAddr(t, "10.0.0.1:4444"), now)
	ct.RecordAndCheck(resolveAddr(t, "10.0.0.1:4445"), now)
	if ct.Size() != 2 {
		t.Error("Expected 2 contacts, got", ct.Size())
	}
}
