// Package authcore is the Babel HMAC authentication core: it composes
// the TS/PC Gate, Packet Padder, ESA Set Builder, HMAC Verifier/Signer,
// TS/PC Bumper, and Authentic Neighbor Memory into the two orchestrator
// entry points, CheckPacket and MakePacket.
//
// A Context is single-threaded cooperative state: every exported
// method must run to completion on one goroutine before the next is
// called. Nothing in this package suspends or re-enters.
package authcore

import (
	"time"

	"github.com/coreswitch/babeld-hmac/anm"
	"github.com/coreswitch/babeld-hmac/hashalgo"
	"github.com/coreswitch/babeld-hmac/keychain"
	"github.com/coreswitch/babeld-hmac/stats"
	"github.com/rs/zerolog"
)

// TSBase selects how the TS/PC Bumper advances the timestamp field.
type TSBase int

const (
	// TSBaseUnix advances auth_ts to the current UNIX time on each send
	// (the default).
	TSBaseUnix TSBase = iota
	// TSBaseZero never advances auth_ts from the clock; only auth_pc
	// counts, wrapping into auth_ts on overflow.
	TSBaseZero
)

// Addresser resolves the link-local IPv6 address a signer should pad
// and transmit with. An interface with more than one link-local
// address may pad with one the kernel does not actually send from;
// callers are expected to configure a single canonical address per
// interface to avoid this.
type Addresser interface {
	LinkLocal(ifaceName string) ([16]byte, bool)
}

// Context is the single owned struct holding every process-wide piece
// of shared state: the ANM, process statistics, ts_base/anm_timeout
// configuration, and the collaborators (key-chain store, address
// resolver, clock, hash registry, logger).
type Context struct {
	Store     keychain.Store
	Addresser Addresser
	Clock     func() time.Time
	Algos     hashalgo.Registry
	Logger    zerolog.Logger

	ANM        *anm.Table
	Stats      stats.Counters
	TSBase     TSBase
	ANMTimeout time.Duration

	// LastErr is the sentinel error behind the most recent CheckPacket
	// or MakePacket outcome, for logging and tests that want to assert
	// *why* a packet was rejected or a send was skipped. It is reset
	// to nil at the start of each call and is not meaningful to read
	// concurrently with the next call.
	LastErr error
}

// DefaultANMTimeout is the default anm_timeout.
const DefaultANMTimeout = 300 * time.Second

// NewContext returns a Context with the documented defaults: ts_base =
// UNIX, anm_timeout = 300s, a fresh empty ANM, and the default hash
// algorithm registry.
func NewContext(store keychain.Store, addresser Addresser) *Context {
	return &Context{
		Store:      store,
		Addresser:  addresser,
		Algos:      hashalgo.Default(),
		Logger:     zerolog.Nop(),
		ANM:        anm.NewTable(),
		TSBase:     TSBaseUnix,
		ANMTimeout: DefaultANMTimeout,
	}
}

// Housekeep evicts expired ANM records relative to now. Callers are
// expected to invoke this periodically; the housekeeping timer is
// rescheduled by the caller after each invocation.
func (c *Context) Housekeep(now time.Time) {
	c.ANM.Housekeep(now, c.ANMTimeout)
}
