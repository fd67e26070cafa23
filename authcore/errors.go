package authcore

import (
	"errors"

	"github.com/coreswitch/babeld-hmac/esa"
)

// Sentinel errors for the eight distinct failure kinds this core can
// hit. Inbound failures all collapse to a boolean NG verdict at the
// CheckPacket boundary; these are retained via Context.LastErr for
// logging and for tests that want to assert *why* a packet was
// rejected or a send was skipped.
var (
	ErrMalformedTLV   = errors.New("authcore: malformed tlv")
	ErrMissingTSPC    = errors.New("authcore: missing ts/pc tlv")
	ErrStaleTSPC      = errors.New("authcore: stale or replayed ts/pc")
	ErrNoValidKeys    = errors.New("authcore: no valid keys for interface")
	ErrDigestMismatch = errors.New("authcore: hmac digest mismatch")
	ErrHashBackend    = errors.New("authcore: hash backend failure")
	ErrNoLinkLocal    = errors.New("authcore: no link-local address for interface")
	// ErrUnknownKeyChain aliases esa.ErrUnknownKeyChain so callers can
	// errors.Is against either package's name for the same failure.
	ErrUnknownKeyChain = esa.ErrUnknownKeyChain
)
