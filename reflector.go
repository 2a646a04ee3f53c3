// The rendezvous relay core. Nodes of a distributed cache discover one
// another with multicast "presence" packets; on networks without
// multicast they bounce unicast UDP packets off a reflector instead.
// On receipt of a packet, the reflector resends it verbatim to every
// contact that has pinged it recently, subject to rate-limiting.
package presence

import (
	"log"
	"net"
	"time"

	"golang.org/x/time/rate"
)

// PacketWriter is the sending half of a UDP socket. *net.UDPConn
// satisfies it; tests substitute a recorder.
type PacketWriter interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
}

// Reflector owns the listening socket, the contact table, and the
// rate-limiting policies, and handles inbound packets strictly one at
// a time. Nothing here needs locking beyond what the table and stats
// provide internally.
type Reflector struct {
	ID       string
	conn     *net.UDPConn
	out      PacketWriter
	contacts *ContactTable
	cooldown Cooldown
	fanout   *Fanout
	idle     time.Duration
	rl       *rate.Limiter
	stats    *Stats
}

// NewReflector builds a Reflector around an already-bound conn. The
// caller owns binding (and the fatal handling of a failed bind); the
// reflector owns everything after.
func NewReflector(conn *net.UDPConn, cfg *ReflectorConfig, rl *rate.Limiter) *Reflector {
	return &Reflector{
		ID:       NewID(),
		conn:     conn,
		out:      conn,
		contacts: NewContactTable(),
		cooldown: Cooldown{Min: cfg.Limits.CooldownDuration()},
		fanout:   NewFanout(cfg.Limits.Fanout, nil),
		idle:     cfg.Limits.IdleDuration(),
		rl:       rl,
		stats:    &Stats{},
	}
}

// Stats exposes the reflector's counters, mainly for the API.
func (r *Reflector) Stats() *Stats {
	return r.stats
}

// Contacts exposes the live contact table, mainly for the API.
func (r *Reflector) Contacts() *ContactTable {
	return r.contacts
}

// Reflect receives datagrams on the reflector's conn and handles them
// one at a time until the process exits. The loop has no stop
// condition of its own; shutdown is a process signal.
func (r *Reflector) Reflect() {
	dataBuf := make([]byte, 4096)
	oobBuf := make([]byte, 4096)

	log.Println("Beginning reflection on:", r.conn.LocalAddr())
	for {
		// Use Reserve so we can see when throttling happens
		reservation := r.rl.Reserve()
		delay := reservation.Delay()
		if delay > 0 {
			// We hit the pps cap; buffer in the socket for a moment
			time.Sleep(delay)
		}

		// Not currently using `oob`
		dataLen, _, _, addr, err := r.conn.ReadMsgUDP(dataBuf, oobBuf)
		if err != nil {
			// Read failures must not kill the loop. Only a failed
			// bind at startup is fatal.
			HandleMinorError(err)
			continue
		}
		r.handle(dataBuf[0:dataLen], addr, time.Now())
	}
}

// handle runs the full per-packet pass: record the sender, apply the
// cooldown, then dispatch to the rest of the table.
func (r *Reflector) handle(data []byte, src *net.UDPAddr, now time.Time) {
	r.stats.IncReceived()
	// The first byte is a tag ('P'resent, 'A'bsent, ...) that peers
	// understand. We log it but never interpret it.
	log.Printf("received %d (%d bytes) from %v", tagByte(data), len(data), src)
	prior, seen := r.contacts.RecordAndCheck(src, now)
	// There's a multiplier/amplification below; don't let things get
	// out of hand. No more than one pass every cooldown interval from
	// any given address. This might drop a bona fide 'ABSENT' if it's
	// too soon after a 'PRESENT'. C'est la vie.
	if r.cooldown.TooSoon(prior, seen, now) {
		r.stats.IncRejected()
		log.Printf("too fast: now=%v last=%v addr=%v", now, prior, src)
		return
	}
	r.stats.IncAccepted()
	r.dispatch(data, src, now)
}

// dispatch reflects data to a randomized subset of the known contacts,
// excluding the sender, and lazily evicts stale entries in the same
// pass.
func (r *Reflector) dispatch(data []byte, src *net.UDPAddr, now time.Time) {
	snapshot := r.contacts.Snapshot()
	n := r.contacts.Size()
	if p := r.fanout.Prob(n); p < 1.0 {
		log.Printf("too many contacts (%d), will only resend to %v of them", n, p)
	}
	srcKey := src.String()
	for _, contact := range snapshot {
		// Forwarding and eviction are independent decisions: a stale
		// contact may still receive one last packet before removal.
		if contact.Addr.String() != srcKey && r.fanout.Draw(n) {
			if _, err := r.out.WriteToUDP(data, contact.Addr); err != nil {
				r.stats.IncSendErrors()
				HandleMinorError(err)
			} else {
				r.stats.IncReflected()
			}
		}
		if now.Sub(contact.LastSeen) > r.idle {
			r.contacts.Evict(contact.Addr)
			r.stats.IncEvicted()
			log.Println("evicted idle contact:", contact.Addr)
		}
	}
}

// tagByte is the first payload byte, or 0 for an empty payload. Empty
// payloads are legal and get reflected as-is.
func tagByte(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
