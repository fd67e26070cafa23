// Package hashalgo narrows the hash algorithms this core needs down to
// a small interface over a swappable backend registry (see DESIGN.md
// for the pattern this adapts). Each algorithm is HMAC-only: the core
// never hashes unkeyed.
package hashalgo

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // required by draft-ovsienko-babel-hmac-authentication §3
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required digest, not used for anything but keyed HMAC
)

// ID identifies one of the six hash algorithms usable in a CSA.
type ID uint8

const (
	RIPEMD160 ID = iota
	SHA1
	SHA256
	SHA384
	SHA512
	Whirlpool
)

func (id ID) String() string {
	switch id {
	case RIPEMD160:
		return "ripemd160"
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	case Whirlpool:
		return "whirlpool"
	default:
		return fmt.Sprintf("hashalgo(%d)", uint8(id))
	}
}

// Algo computes a keyed HMAC digest and reports its length.
type Algo interface {
	ID() ID
	DigestLength() int
	HMAC(key, message []byte) ([]byte, error)
}

type algo struct {
	id     ID
	length int
	newH   func() hash.Hash
}

func (a algo) ID() ID { return a.id }

func (a algo) DigestLength() int { return a.length }

func (a algo) HMAC(key, message []byte) (digest []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hashalgo: %s: hmac panic: %v", a.id, r)
		}
	}()
	mac := hmac.New(a.newH, key)
	if _, werr := mac.Write(message); werr != nil {
		return nil, fmt.Errorf("hashalgo: %s: hmac write: %w", a.id, werr)
	}
	return mac.Sum(nil), nil
}

// Registry resolves a CSA's configured ID to its Algo implementation.
type Registry map[ID]Algo

// Default returns the registry of all six algorithms backed by the
// standard library, golang.org/x/crypto, and github.com/jzelinskie/whirlpool.
func Default() Registry {
	return Registry{
		RIPEMD160: algo{id: RIPEMD160, length: 20, newH: ripemd160.New},
		SHA1:      algo{id: SHA1, length: 20, newH: sha1.New},
		SHA256:    algo{id: SHA256, length: 32, newH: sha256.New},
		SHA384:    algo{id: SHA384, length: 48, newH: sha512.New384},
		SHA512:    algo{id: SHA512, length: 64, newH: sha512.New},
		Whirlpool: algo{id: Whirlpool, length: 64, newH: whirlpool.New},
	}
}

// Lookup resolves id against the registry.
func (r Registry) Lookup(id ID) (Algo, bool) {
	a, ok := r[id]
	return a, ok
}
