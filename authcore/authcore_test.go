package authcore

import (
	"time"

	"github.com/coreswitch/babeld-hmac/keychain"
)

type staticChain struct{ keys []keychain.ChainKey }

func (c staticChain) Keys() []keychain.ChainKey { return c.keys }

type staticStore struct{ chains map[string]keychain.Chain }

func (s staticStore) Lookup(name string) (keychain.Chain, bool) {
	c, ok := s.chains[name]
	return c, ok
}

func neverExpiring(index uint32, secret []byte) keychain.ChainKey {
	return keychain.ChainKey{
		Index:       index,
		Secret:      secret,
		ValidSend:   func(time.Time) bool { return true },
		ValidAccept: func(time.Time) bool { return true },
	}
}

type staticAddresser struct {
	addrs map[string][16]byte
}

func (a staticAddresser) LinkLocal(name string) ([16]byte, bool) {
	addr, ok := a.addrs[name]
	return addr, ok
}

func fe80(last byte) [16]byte {
	return [16]byte{0xFE, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, last}
}

func newTestContext(now time.Time, ifaceAddr [16]byte, ifaceName string) *Context {
	store := staticStore{chains: map[string]keychain.Chain{
		"chain0": staticChain{keys: []keychain.ChainKey{
			neverExpiring(1, make([]byte, 32)),
		}},
	}}
	addresser := staticAddresser{addrs: map[string][16]byte{ifaceName: ifaceAddr}}
	c := NewContext(store, addresser)
	c.Clock = func() time.Time { return now }
	return c
}
