// Package keychain defines the narrow contract this core requires of an
// external key-chain store: named chains of keys, each with a unique
// index and a pair of time-validity predicates. The store and its
// lifetime model are external collaborators — this package only states
// the interface a concrete store (see package bboltchain) must satisfy.
package keychain

import (
	"time"

	"github.com/coreswitch/babeld-hmac/hashalgo"
)

// ChainKey is one key in a key chain, as consumed by the ESA builder.
type ChainKey struct {
	// Index is the unique, caller-assigned key index within its chain.
	// esa.Build derives the wire KeyID as Index mod 65536.
	Index uint32

	// Secret is the raw key material.
	Secret []byte

	// ValidSend and ValidAccept report whether this key may be used to
	// sign outbound packets, or accept inbound ones, at the given time.
	ValidSend   func(now time.Time) bool
	ValidAccept func(now time.Time) bool
}

// Chain is a named, ordered (by Index ascending) sequence of keys.
type Chain interface {
	// Keys returns the chain's keys in native (Index-ascending) order.
	Keys() []ChainKey
}

// Store resolves a key-chain name to a Chain. A missing chain is not an
// error: callers log and skip, since key chains may appear later.
type Store interface {
	Lookup(name string) (Chain, bool)
}

// CSA is a Configured Security Association: an operator-declared pairing
// of a hash algorithm with a key-chain name, attached to an interface in
// a fixed order.
type CSA struct {
	HashAlgo     hashalgo.ID
	KeyChainName string
}
