// Package esa builds the ordered list of Effective Security Associations
// (ESAs) that the orchestrators sign or verify against, from a set of
// Configured Security Associations and a key-chain store.
package esa

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/coreswitch/babeld-hmac/hashalgo"
	"github.com/coreswitch/babeld-hmac/keychain"
	"github.com/rs/zerolog"
)

// ErrUnknownKeyChain is returned (wrapping the offending chain name)
// when a CSA names a key chain the store doesn't have. It is non-fatal
// to Build: other CSAs still contribute their keys, and only the first
// unknown chain encountered is reported to the caller.
var ErrUnknownKeyChain = errors.New("esa: unknown key chain")

// ESA is a derived, ephemeral (hash algorithm, key_id, key secret) triple
// with the ordering metadata needed to reproduce the interleaved total
// order across CSAs: all first keys before all second keys, CSAs taken
// in configured order within each round.
type ESA struct {
	HashAlgo hashalgo.ID
	KeyID    uint16
	Secret   []byte

	// sortMajor is the key's position within its own CSA's filtered key
	// list; sortMinor is the CSA's index in the interface's CSA list.
	sortMajor int
	sortMinor int
}

// Filter selects which keys in a chain are currently usable, for sending
// or for accepting, at the given time.
type Filter func(k keychain.ChainKey, now time.Time) bool

// SendFilter and AcceptFilter are the two standard filters, delegating to
// the key's own validity predicates.
func SendFilter(k keychain.ChainKey, now time.Time) bool {
	return k.ValidSend != nil && k.ValidSend(now)
}

func AcceptFilter(k keychain.ChainKey, now time.Time) bool {
	return k.ValidAccept != nil && k.ValidAccept(now)
}

type dupKey struct {
	algo   hashalgo.ID
	keyID  uint16
	secret string
}

// Build walks each CSA's key chain in order, keeps only keys the filter
// accepts, suppresses full duplicates across CSAs, and returns the
// result ordered by (sortMajor, sortMinor) ascending — first key of CSA0,
// first key of CSA1, ..., second key of CSA0, and so on. An unknown key
// chain doesn't abort the build: it's skipped, and only the first such
// failure is reported back via the returned error, so the rest of the
// CSAs still contribute their keys to out.
func Build(csas []keychain.CSA, store keychain.Store, now time.Time, filter Filter, log zerolog.Logger) ([]ESA, error) {
	var out []ESA
	var firstErr error
	seen := make(map[dupKey]struct{})

	for csaIdx, csa := range csas {
		chain, ok := store.Lookup(csa.KeyChainName)
		if !ok {
			log.Info().Str("key_chain", csa.KeyChainName).Msg("babel auth: unknown key chain, skipping")
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s", ErrUnknownKeyChain, csa.KeyChainName)
			}
			continue
		}
		pos := 0
		for _, k := range chain.Keys() {
			if !filter(k, now) {
				continue
			}
			keyID := uint16(k.Index % 65536)
			dk := dupKey{algo: csa.HashAlgo, keyID: keyID, secret: string(k.Secret)}
			if _, dup := seen[dk]; !dup {
				seen[dk] = struct{}{}
				out = append(out, ESA{
					HashAlgo:  csa.HashAlgo,
					KeyID:     keyID,
					Secret:    append([]byte(nil), k.Secret...),
					sortMajor: pos,
					sortMinor: csaIdx,
				})
			}
			pos++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].sortMajor != out[j].sortMajor {
			return out[i].sortMajor < out[j].sortMajor
		}
		return out[i].sortMinor < out[j].sortMinor
	})
	return out, firstErr
}
