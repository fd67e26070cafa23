package bboltchain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/coreswitch/babeld-hmac/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keychain.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLookupMissingChain(t *testing.T) {
	s := openTestStore(t)
	if _, ok := s.Lookup("nope"); ok {
		t.Fatalf("expected miss on unknown chain")
	}
}

func TestPutAndLookupRoundTrip(t *testing.T) {
	s := openTestStore(t)
	rec := KeyRecord{Index: 7, Secret: []byte("topsecret")}
	if err := s.PutKey("chain0", rec); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	chain, ok := s.Lookup("chain0")
	if !ok {
		t.Fatalf("expected chain0 to be found")
	}
	keys := chain.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if keys[0].Index != 7 || string(keys[0].Secret) != "topsecret" {
		t.Fatalf("got %+v", keys[0])
	}
}

func TestKeysOrderedByIndex(t *testing.T) {
	s := openTestStore(t)
	for _, idx := range []uint32{5, 1, 9, 3} {
		if err := s.PutKey("chain0", KeyRecord{Index: idx, Secret: []byte{byte(idx)}}); err != nil {
			t.Fatalf("PutKey(%d): %v", idx, err)
		}
	}
	chain, _ := s.Lookup("chain0")
	keys := chain.Keys()
	want := []uint32{1, 3, 5, 9}
	for i, w := range want {
		if keys[i].Index != w {
			t.Fatalf("position %d: got index %d, want %d", i, keys[i].Index, w)
		}
	}
}

func TestDeleteKey(t *testing.T) {
	s := openTestStore(t)
	_ = s.PutKey("chain0", KeyRecord{Index: 1, Secret: []byte{1}})
	_ = s.PutKey("chain0", KeyRecord{Index: 2, Secret: []byte{2}})

	if err := s.DeleteKey("chain0", 1); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	chain, _ := s.Lookup("chain0")
	keys := chain.Keys()
	if len(keys) != 1 || keys[0].Index != 2 {
		t.Fatalf("got %+v, want only index 2", keys)
	}
}

func TestValidSendRespectsSendUntil(t *testing.T) {
	s := openTestStore(t)
	cutoff := time.Unix(1_000_000, 0)
	rec := KeyRecord{
		Index:       1,
		Secret:      []byte{1},
		SendUntil:   cutoff,
		AcceptUntil: cutoff.Add(10 * time.Second),
	}
	if err := s.PutKey("chain0", rec); err != nil {
		t.Fatalf("PutKey: %v", err)
	}
	chain, _ := s.Lookup("chain0")
	key := chain.Keys()[0]

	if !key.ValidSend(cutoff.Add(-time.Second)) {
		t.Fatalf("expected valid for send before cutoff")
	}
	if key.ValidSend(cutoff.Add(time.Second)) {
		t.Fatalf("expected invalid for send after cutoff")
	}
	// accept window extends beyond send window
	if !key.ValidAccept(cutoff.Add(time.Second)) {
		t.Fatalf("expected accept still valid shortly after send cutoff")
	}
}

func TestNotBeforeBlocksEarlyUse(t *testing.T) {
	s := openTestStore(t)
	notBefore := time.Unix(2_000_000, 0)
	_ = s.PutKey("chain0", KeyRecord{Index: 1, Secret: []byte{1}, NotBefore: notBefore})

	chain, _ := s.Lookup("chain0")
	key := chain.Keys()[0]
	if key.ValidSend(notBefore.Add(-time.Second)) {
		t.Fatalf("expected invalid before not_before")
	}
	if !key.ValidSend(notBefore) {
		t.Fatalf("expected valid exactly at not_before")
	}
}

func TestZeroUntilMeansUnbounded(t *testing.T) {
	s := openTestStore(t)
	_ = s.PutKey("chain0", KeyRecord{Index: 1, Secret: []byte{1}})
	chain, _ := s.Lookup("chain0")
	key := chain.Keys()[0]
	far := time.Unix(1<<40, 0)
	if !key.ValidSend(far) || !key.ValidAccept(far) {
		t.Fatalf("expected unbounded key to remain valid far in the future")
	}
}

func TestCountersRoundTripAndClear(t *testing.T) {
	s := openTestStore(t)
	var c stats.Counters
	c.Add(stats.AuthRecvOk, 3)
	c.Add(stats.AuthRecvNgHmac, 1)
	if err := s.SaveCounters("process", &c); err != nil {
		t.Fatalf("SaveCounters: %v", err)
	}

	var loaded stats.Counters
	if err := s.LoadCounters("process", &loaded); err != nil {
		t.Fatalf("LoadCounters: %v", err)
	}
	if loaded.Get(stats.AuthRecvOk) != 3 || loaded.Get(stats.AuthRecvNgHmac) != 1 {
		t.Fatalf("got %+v, want counts 3 and 1", loaded)
	}

	if err := s.ClearCounters("process"); err != nil {
		t.Fatalf("ClearCounters: %v", err)
	}
	var afterClear stats.Counters
	if err := s.LoadCounters("process", &afterClear); err != nil {
		t.Fatalf("LoadCounters after clear: %v", err)
	}
	if afterClear.Get(stats.AuthRecvOk) != 0 {
		t.Fatalf("expected cleared counters to load as zero, got %d", afterClear.Get(stats.AuthRecvOk))
	}
}
