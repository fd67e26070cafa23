// Package stats implements monotonic statistics counters, maintained
// in two tiers (process-wide and per-interface) that are always
// incremented together. See DESIGN.md for the pattern this adapts.
package stats

// Counter names one of the ten tracked statistics.
type Counter int

const (
	PlainRecv Counter = iota
	PlainSent
	AuthSent
	AuthSentNgNokeys
	AuthRecvOk
	AuthRecvNgNokeys
	AuthRecvNgNoTspc
	AuthRecvNgTspc
	AuthRecvNgHmac
	InternalErr

	numCounters
)

func (c Counter) String() string {
	switch c {
	case PlainRecv:
		return "plain_recv"
	case PlainSent:
		return "plain_sent"
	case AuthSent:
		return "auth_sent"
	case AuthSentNgNokeys:
		return "auth_sent_ng_nokeys"
	case AuthRecvOk:
		return "auth_recv_ok"
	case AuthRecvNgNokeys:
		return "auth_recv_ng_nokeys"
	case AuthRecvNgNoTspc:
		return "auth_recv_ng_no_tspc"
	case AuthRecvNgTspc:
		return "auth_recv_ng_tspc"
	case AuthRecvNgHmac:
		return "auth_recv_ng_hmac"
	case InternalErr:
		return "internal_err"
	default:
		return "unknown"
	}
}

// All lists every counter, in the order they are rendered by `show`.
func All() []Counter {
	out := make([]Counter, 0, numCounters)
	for c := Counter(0); c < numCounters; c++ {
		out = append(out, c)
	}
	return out
}

// Counters is one tier (process-wide or per-interface) of statistics.
type Counters struct {
	values [numCounters]uint64
}

// Add increments which by delta.
func (c *Counters) Add(which Counter, delta uint64) {
	c.values[which] += delta
}

// Get returns the current value of which.
func (c *Counters) Get(which Counter) uint64 {
	return c.values[which]
}

// Reset zeroes every counter ("clear babel authentication stats").
func (c *Counters) Reset() {
	*c = Counters{}
}

// Tier bundles a process-wide Counters with one interface's Counters so
// every increment can be applied to both in one call.
type Tier struct {
	Process   *Counters
	Interface *Counters
}

// Bump increments which by 1 in both the process-wide and interface
// counters.
func (t Tier) Bump(which Counter) {
	t.Process.Add(which, 1)
	t.Interface.Add(which, 1)
}
