package esa

import (
	"errors"
	"testing"
	"time"

	"github.com/coreswitch/babeld-hmac/hashalgo"
	"github.com/coreswitch/babeld-hmac/keychain"
	"github.com/rs/zerolog"
)

type fakeChain struct{ keys []keychain.ChainKey }

func (c fakeChain) Keys() []keychain.ChainKey { return c.keys }

type fakeStore struct{ chains map[string]keychain.Chain }

func (s fakeStore) Lookup(name string) (keychain.Chain, bool) {
	c, ok := s.chains[name]
	return c, ok
}

func key(index uint32, secret string) keychain.ChainKey {
	return keychain.ChainKey{
		Index:       index,
		Secret:      []byte(secret),
		ValidSend:   func(time.Time) bool { return true },
		ValidAccept: func(time.Time) bool { return true },
	}
}

func TestBuildEmptyWhenNoCSA(t *testing.T) {
	out, err := Build(nil, fakeStore{}, time.Now(), AcceptFilter, zerolog.Nop())
	if len(out) != 0 {
		t.Fatalf("expected empty, got %d", len(out))
	}
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestBuildSkipsUnknownChain(t *testing.T) {
	csas := []keychain.CSA{{HashAlgo: hashalgo.SHA256, KeyChainName: "missing"}}
	out, err := Build(csas, fakeStore{chains: map[string]keychain.Chain{}}, time.Now(), AcceptFilter, zerolog.Nop())
	if len(out) != 0 {
		t.Fatalf("expected empty, got %d", len(out))
	}
	if !errors.Is(err, ErrUnknownKeyChain) {
		t.Fatalf("expected ErrUnknownKeyChain, got %v", err)
	}
}

func TestBuildInterleavesCSAsBeforeSecondKey(t *testing.T) {
	store := fakeStore{chains: map[string]keychain.Chain{
		"c0": fakeChain{keys: []keychain.ChainKey{key(1, "a"), key(2, "b")}},
		"c1": fakeChain{keys: []keychain.ChainKey{key(10, "x"), key(11, "y")}},
		"c2": fakeChain{keys: []keychain.ChainKey{key(20, "p")}},
		"c3": fakeChain{keys: []keychain.ChainKey{key(30, "q")}},
	}}
	csas := []keychain.CSA{
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c0"},
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c1"},
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c2"},
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c3"},
	}
	out, _ := Build(csas, store, time.Now(), AcceptFilter, zerolog.Nop())
	if len(out) < 4 {
		t.Fatalf("expected at least 4 ESAs, got %d", len(out))
	}
	first4 := out[:4]
	wantKeyIDs := []uint16{1, 10, 20, 30}
	for i, esa := range first4 {
		if esa.KeyID != wantKeyIDs[i] {
			t.Fatalf("esa[%d].KeyID = %d, want %d", i, esa.KeyID, wantKeyIDs[i])
		}
	}
}

func TestBuildSuppressesFullDuplicates(t *testing.T) {
	store := fakeStore{chains: map[string]keychain.Chain{
		"c0": fakeChain{keys: []keychain.ChainKey{key(5, "secret")}},
		"c1": fakeChain{keys: []keychain.ChainKey{key(5, "secret")}},
	}}
	csas := []keychain.CSA{
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c0"},
		{HashAlgo: hashalgo.SHA256, KeyChainName: "c1"},
	}
	out, _ := Build(csas, store, time.Now(), AcceptFilter, zerolog.Nop())
	if len(out) != 1 {
		t.Fatalf("expected 1 deduplicated ESA, got %d", len(out))
	}
}

func TestBuildFiltersExpiredKeys(t *testing.T) {
	expired := keychain.ChainKey{
		Index:       1,
		Secret:      []byte("s"),
		ValidSend:   func(time.Time) bool { return false },
		ValidAccept: func(time.Time) bool { return false },
	}
	store := fakeStore{chains: map[string]keychain.Chain{
		"c0": fakeChain{keys: []keychain.ChainKey{expired}},
	}}
	csas := []keychain.CSA{{HashAlgo: hashalgo.SHA256, KeyChainName: "c0"}}
	out, _ := Build(csas, store, time.Now(), AcceptFilter, zerolog.Nop())
	if len(out) != 0 {
		t.Fatalf("expected 0 ESAs for expired key, got %d", len(out))
	}
}
