package authcore

import (
	"crypto/subtle"

	"github.com/coreswitch/babeld-hmac/esa"
	"github.com/coreswitch/babeld-hmac/hashalgo"
	"github.com/coreswitch/babeld-hmac/wire"
)

// tryHMAC scans packet for an HMAC TLV matching e's algorithm and
// key_id and length, computes the local HMAC over padded at most once
// (lazily, only once a candidate TLV is seen), and compares.
// digestsDone is shared across the whole verification loop so the
// MaxDigestsIn cap applies per packet, not per ESA. A clean "no
// digest matched" outcome returns (false, ErrDigestMismatch) rather
// than a nil error, so callers can tell it apart from the MaxDigestsIn
// cap (false, nil) and from genuine backend/format failures.
func tryHMAC(packet, padded []byte, e esa.ESA, digestsDone *int, algos hashalgo.Registry) (bool, error) {
	algo, ok := algos.Lookup(e.HashAlgo)
	if !ok {
		return false, ErrHashBackend
	}
	wantLen := 2 + algo.DigestLength()

	var computed []byte
	var computeErr error
	haveComputed := false

	matched := false
	err := wire.Walk(packet, func(t wire.TLV) error {
		if matched || t.Type != wire.TypeHMAC {
			return nil
		}
		if int(t.Length) != wantLen {
			return nil
		}
		value := packet[t.ValueOffset : t.ValueOffset+int(t.Length)]
		keyID := uint16(value[0])<<8 | uint16(value[1])
		if keyID != e.KeyID {
			return nil
		}

		if !haveComputed {
			if *digestsDone >= wire.MaxDigestsIn {
				return errCapReached
			}
			computed, computeErr = algo.HMAC(e.Secret, padded)
			*digestsDone++
			haveComputed = true
		}
		if computeErr != nil {
			return nil
		}
		digest := value[2:]
		if subtle.ConstantTimeCompare(digest, computed) == 1 {
			matched = true
		}
		return nil
	})
	if err != nil {
		if err == errCapReached {
			return false, nil
		}
		return false, ErrMalformedTLV
	}
	if computeErr != nil {
		return false, ErrHashBackend
	}
	if !matched {
		return false, ErrDigestMismatch
	}
	return true, nil
}

// errCapReached is an internal sentinel used only to unwind wire.Walk
// once the MaxDigestsIn cap is hit; it never escapes tryHMAC.
var errCapReached = capReachedError{}

type capReachedError struct{}

func (capReachedError) Error() string { return "authcore: max digests reached" }
